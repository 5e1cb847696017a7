package server

import (
	"strings"

	"github.com/teranos/sembrowse/browse"
	"github.com/teranos/sembrowse/semconv"
	"github.com/teranos/sembrowse/tree"
)

// NodeView is one level of the hierarchy as rendered by /node and /api/node.
type NodeView struct {
	Name      string         `json:"name"`
	Level     string         `json:"level"`
	Found     bool           `json:"found"`
	Crumbs    []browse.Crumb `json:"breadcrumbs"`
	Attribute *AttributeView `json:"attribute,omitempty"`
	Children  []ChildView    `json:"children"`
}

// ChildView is a direct child of the viewed node.
type ChildView struct {
	Segment       string         `json:"segment"`
	Path          string         `json:"path"`
	Children      int            `json:"children"`
	HasGrandchild bool           `json:"has_grandchild"`
	Attribute     *AttributeView `json:"attribute,omitempty"`
}

// AttributeView adds display strings to an attribute.
type AttributeView struct {
	*semconv.Attribute
	TypeLabel    string `json:"type_label,omitempty"`
	ExampleLabel string `json:"examples_label,omitempty"`
	Deprecation  string `json:"-"`
	// ColumnType lists the declared types of the exact-name column.
	ColumnType string       `json:"-"`
	Suffixes   []SuffixView `json:"-"`
	Linkable   bool         `json:"-"`
}

// SuffixView is one observed template suffix.
type SuffixView struct {
	Suffix   string
	Column   string
	Type     string
	Datasets []string
}

func (s *Server) attributeView(a *semconv.Attribute) *AttributeView {
	if a == nil {
		return nil
	}
	v := &AttributeView{
		Attribute:    a,
		TypeLabel:    a.TypeLabel(),
		ExampleLabel: a.ExampleLabel(),
		ColumnType:   strings.Join(a.ColumnTypes[a.ID], ", "),
		Linkable:     s.exists != nil,
	}
	if a.Deprecated != nil {
		v.Deprecation = a.Deprecated.String()
	}
	for _, suffix := range a.SuffixNames() {
		column := a.ID + tree.Separator + suffix
		v.Suffixes = append(v.Suffixes, SuffixView{
			Suffix:   suffix,
			Column:   column,
			Type:     strings.Join(a.ColumnTypes[column], ", "),
			Datasets: a.TemplateSuffixes[suffix],
		})
	}
	return v
}

// nodeView resolves name and describes its children. Unknown names yield a
// view with Found unset, breadcrumbs, and no children.
func (s *Server) nodeView(name string) NodeView {
	name = browse.NormalizeName(name)
	view := NodeView{
		Name:     name,
		Level:    name,
		Crumbs:   browse.Breadcrumbs(name),
		Children: []ChildView{},
	}
	if name == "" {
		view.Level = tree.RootName
	}

	node, ok := s.index.Root.Lookup(name)
	if !ok {
		return view
	}
	view.Found = true
	if a, ok := node.Value(); ok {
		view.Attribute = s.attributeView(a)
	}
	for _, child := range node.Children() {
		cv := ChildView{
			Segment:       child.Name,
			Path:          child.Path,
			Children:      child.Len(),
			HasGrandchild: child.HasGrandchild(),
		}
		if a, ok := child.Value(); ok {
			cv.Attribute = s.attributeView(a)
		}
		view.Children = append(view.Children, cv)
	}
	return view
}
