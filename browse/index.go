// Package browse assembles the browsable attribute hierarchy: it loads the
// registry corpora, optionally annotates attributes with observed usage,
// and arranges them in a trie keyed by dotted name.
package browse

import (
	"context"
	"time"

	"github.com/teranos/sembrowse/errors"
	"github.com/teranos/sembrowse/logger"
	"github.com/teranos/sembrowse/semconv"
	"github.com/teranos/sembrowse/tree"
	"github.com/teranos/sembrowse/usage"
	"go.uber.org/zap"
)

// Node is a position in the attribute hierarchy.
type Node = tree.Node[*semconv.Attribute]

// Options controls Build.
type Options struct {
	Corpora []semconv.Corpus
	// Backend supplies observed columns. Nil skips usage collection.
	Backend usage.Backend
	Usage   usage.Options
}

// Index is the immutable result of Build.
type Index struct {
	Root      *Node
	Catalog   semconv.Catalog
	Manifests map[string]*semconv.Manifest
	Corpora   []semconv.Corpus
	Overrides int

	// Usage is nil when no backend was configured or collection failed.
	Usage      *usage.Stats
	UsageError error
	// Datasets counts datasets whose columns were fetched; FailedDatasets
	// names the ones whose fetch failed.
	Datasets       int
	FailedDatasets []string
	BuiltAt        time.Time
}

// Build loads the corpora, correlates usage when a backend is configured,
// and inserts every attribute into a fresh trie. A usage failure is logged
// and recorded on the Index; the index is still built without usage data.
// Registry load failures are returned.
func Build(ctx context.Context, opts Options, log *zap.SugaredLogger) (*Index, error) {
	if log == nil {
		log = logger.ComponentLogger("browse")
	}
	if len(opts.Corpora) == 0 {
		return nil, errors.WithHint(
			errors.NewConfigError("no registry roots configured"),
			"pass --root nick=/path/to/model or set corpora in sembrowse.toml")
	}

	loader := semconv.NewLoader(log.Named("semconv"))
	catalog, err := loader.Load(opts.Corpora)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load registry")
	}
	log.Infow("Registry loaded",
		logger.FieldCount, len(catalog),
		"corpora", len(opts.Corpora),
		"overrides", loader.Overrides)

	ix := &Index{
		Catalog:   catalog,
		Manifests: loader.Manifests,
		Corpora:   opts.Corpora,
		Overrides: loader.Overrides,
	}

	if opts.Backend != nil {
		collector := usage.NewCollector(opts.Backend, opts.Usage, log.Named("usage"))
		collection, err := collector.Collect(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warnw("Usage collection failed, continuing without usage data",
				logger.FieldError, err)
			ix.UsageError = err
		} else {
			stats := usage.Aggregate(catalog, collection.Observed)
			ix.Usage = &stats
			ix.Datasets = len(collection.Observed)
			ix.FailedDatasets = collection.Failed
			log.Infow("Usage correlated",
				logger.FieldDatasets, len(collection.Observed),
				"failed", len(collection.Failed),
				"exact", stats.Exact,
				"template", stats.Template,
				"unmatched", stats.Unmatched)
		}
	}
	usage.Finalize(catalog)

	root := tree.New[*semconv.Attribute]()
	for _, name := range catalog.Names() {
		root.Insert(name, catalog[name])
	}
	ix.Root = root
	ix.BuiltAt = time.Now()
	return ix, nil
}

// Lookup resolves a node name as it appears in URLs. "", "root" and names
// prefixed with "root." address the hierarchy from the top.
func (ix *Index) Lookup(name string) (*Node, bool) {
	return ix.Root.Lookup(NormalizeName(name))
}
