package commands

import (
	"github.com/teranos/sembrowse/am"
	"github.com/teranos/sembrowse/browse"
	"github.com/teranos/sembrowse/errors"
	"github.com/teranos/sembrowse/semconv"
)

// resolveCorpora returns the registry roots to load. Roots given on the
// command line replace the configured ones.
func resolveCorpora(cfg *am.Config, roots []string) ([]semconv.Corpus, error) {
	if len(roots) > 0 {
		corpora := make([]semconv.Corpus, 0, len(roots))
		for _, spec := range roots {
			corpus, err := browse.ParseRootSpec(spec)
			if err != nil {
				return nil, err
			}
			corpora = append(corpora, corpus)
		}
		return corpora, nil
	}

	if len(cfg.Corpora) == 0 {
		return nil, errors.WithHint(
			errors.NewConfigError("no registry roots configured"),
			"pass --root nick=/path/to/model or add a [[corpora]] entry to sembrowse.toml")
	}
	corpora := make([]semconv.Corpus, 0, len(cfg.Corpora))
	for _, c := range cfg.Corpora {
		corpora = append(corpora, semconv.Corpus{Name: c.Name, Root: c.Path, Requires: c.Requires})
	}
	return corpora, nil
}
