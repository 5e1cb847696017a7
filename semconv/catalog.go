package semconv

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/teranos/sembrowse/errors"
	"github.com/teranos/sembrowse/logger"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Extensions lists the file extensions treated as registry documents.
var Extensions = []string{".yaml", ".yml"}

// Corpus is a named directory tree of registry documents.
type Corpus struct {
	Name string
	Root string
	// Requires is an optional semver constraint on the registry manifest.
	Requires string
}

// Catalog maps fully qualified attribute names to their winning definition.
type Catalog map[string]*Attribute

// Names returns every attribute name in byte-wise order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Get returns the attribute registered under name.
func (c Catalog) Get(name string) (*Attribute, bool) {
	a, ok := c[name]
	return a, ok
}

type document struct {
	Groups *[]group `yaml:"groups"`
}

type group struct {
	ID         string      `yaml:"id"`
	Prefix     string      `yaml:"prefix"`
	Attributes []Attribute `yaml:"attributes"`
}

// Loader reads corpora into a Catalog.
type Loader struct {
	logger *zap.SugaredLogger

	// Overrides counts definitions replaced by a later one during the last Load.
	Overrides int
	// Manifests holds the manifest of each corpus that has one, by corpus name.
	Manifests map[string]*Manifest
}

// NewLoader creates a loader that logs through log, or the "semconv"
// component logger when log is nil.
func NewLoader(log *zap.SugaredLogger) *Loader {
	if log == nil {
		log = logger.ComponentLogger("semconv")
	}
	return &Loader{logger: log}
}

// Load reads every corpus with a default loader.
func Load(corpora []Corpus) (Catalog, error) {
	return NewLoader(nil).Load(corpora)
}

// Load reads corpora in order. Within a corpus, files are read in lexical
// path order. When two definitions share a name, the later one wins and
// its DefinedIn replaces the earlier one.
func (l *Loader) Load(corpora []Corpus) (Catalog, error) {
	catalog := make(Catalog)
	l.Overrides = 0
	l.Manifests = make(map[string]*Manifest)

	for _, corpus := range corpora {
		scan, err := ScanCorpus(corpus.Root)
		if err != nil {
			return nil, errors.Wrapf(err, "corpus %q", corpus.Name)
		}
		if len(scan.Manifests) > 0 {
			m, err := ReadManifest(scan.Manifests[0])
			if err != nil {
				return nil, errors.Wrapf(err, "corpus %q", corpus.Name)
			}
			l.Manifests[corpus.Name] = m
		}
		if err := CheckRequirement(l.Manifests[corpus.Name], corpus.Requires); err != nil {
			return nil, errors.Wrapf(err, "corpus %q", corpus.Name)
		}

		files := scan.Documents
		l.logger.Debugw("Loading corpus",
			logger.FieldCorpus, corpus.Name,
			logger.FieldCount, len(files))

		for _, path := range files {
			rel, err := filepath.Rel(corpus.Root, path)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to relativize %s", path)
			}
			definedIn := corpus.Name + "::" + filepath.ToSlash(rel)
			if err := l.loadFile(catalog, path, definedIn); err != nil {
				return nil, err
			}
		}
	}

	if l.Overrides > 0 {
		l.logger.Infow("Attribute definitions overridden by later corpora",
			logger.FieldCount, l.Overrides)
	}
	return catalog, nil
}

func (l *Loader) loadFile(catalog Catalog, path, definedIn string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", path)
	}
	attrs, err := ParseDocument(data)
	if err != nil {
		return errors.Wrapf(err, "failed to parse %s", path)
	}
	for _, attr := range attrs {
		attr.DefinedIn = definedIn
		if prev, ok := catalog[attr.ID]; ok {
			l.Overrides++
			l.logger.Debugw("Attribute redefined",
				logger.FieldAttribute, attr.ID,
				logger.FieldPrevious, prev.DefinedIn,
				logger.FieldDefinedIn, definedIn)
		}
		catalog[attr.ID] = attr
	}
	return nil
}

// ParseDocument decodes one registry document and returns its attributes
// with fully qualified IDs. The document must have a top-level groups list.
// Attributes without an id are skipped.
func ParseDocument(data []byte) ([]*Attribute, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Groups == nil {
		return nil, errors.New("document has no groups")
	}

	var out []*Attribute
	for _, g := range *doc.Groups {
		for i := range g.Attributes {
			attr := g.Attributes[i]
			if attr.ID == "" {
				continue
			}
			if g.Prefix != "" {
				attr.ID = g.Prefix + "." + attr.ID
			}
			out = append(out, &attr)
		}
	}
	return out, nil
}

// Scan is the result of walking a corpus root.
type Scan struct {
	Documents []string
	Manifests []string
}

// ScanCorpus walks root and sorts YAML files into documents and manifests,
// each in lexical order.
func ScanCorpus(root string) (Scan, error) {
	var scan Scan
	info, err := os.Stat(root)
	if err != nil {
		return scan, errors.WrapConfig(err, "corpus root")
	}
	if !info.IsDir() {
		return scan, errors.NewConfigError("corpus root %s is not a directory", root)
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch {
		case !slices.Contains(Extensions, filepath.Ext(path)):
		case IsManifest(path):
			scan.Manifests = append(scan.Manifests, path)
		default:
			scan.Documents = append(scan.Documents, path)
		}
		return nil
	})
	if err != nil {
		return scan, errors.Wrapf(err, "failed to walk %s", root)
	}
	slices.Sort(scan.Documents)
	slices.Sort(scan.Manifests)
	return scan, nil
}
