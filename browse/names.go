package browse

import (
	"os"
	"strings"

	"github.com/teranos/sembrowse/errors"
	"github.com/teranos/sembrowse/semconv"
	"github.com/teranos/sembrowse/tree"
)

// NormalizeName strips the synthetic root segment from a node name.
func NormalizeName(name string) string {
	name = strings.TrimPrefix(name, tree.RootName+tree.Separator)
	if name == tree.RootName {
		return ""
	}
	return name
}

// Crumb is one breadcrumb: the segment label and the cumulative path.
type Crumb struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// Breadcrumbs turns "a.b.c" into a, a.b, a.b.c. The root has none.
func Breadcrumbs(name string) []Crumb {
	name = NormalizeName(name)
	if name == "" {
		return nil
	}
	segments := strings.Split(name, tree.Separator)
	crumbs := make([]Crumb, len(segments))
	for i, seg := range segments {
		crumbs[i] = Crumb{Label: seg, Path: strings.Join(segments[:i+1], tree.Separator)}
	}
	return crumbs
}

// ParseRootSpec parses a "nick=path" registry root. The nickname must be
// non-empty and the path must be an existing directory.
func ParseRootSpec(spec string) (semconv.Corpus, error) {
	nick, path, ok := strings.Cut(spec, "=")
	nick = strings.TrimSpace(nick)
	path = strings.TrimSpace(path)
	if !ok || nick == "" || path == "" {
		return semconv.Corpus{}, errors.WithHint(
			errors.NewConfigError("invalid registry root %q", spec),
			"expected nick=/path/to/model")
	}
	info, err := os.Stat(path)
	if err != nil {
		return semconv.Corpus{}, errors.WrapConfig(err, "registry root "+nick)
	}
	if !info.IsDir() {
		return semconv.Corpus{}, errors.NewConfigError("registry root %s: %s is not a directory", nick, path)
	}
	return semconv.Corpus{Name: nick, Root: path}, nil
}
