package semconv

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/teranos/sembrowse/errors"
	"gopkg.in/yaml.v3"
)

// Attribute is one attribute definition. The yaml-tagged fields come from
// the registry documents; UsedBy, TemplateSuffixes, ColumnTypes and
// DefinedIn are filled in after loading.
type Attribute struct {
	ID         string       `yaml:"id" json:"id"`
	Type       *Type        `yaml:"type" json:"type,omitempty"`
	Brief      string       `yaml:"brief" json:"brief,omitempty"`
	Note       string       `yaml:"note" json:"note,omitempty"`
	Stability  string       `yaml:"stability" json:"stability,omitempty"`
	Deprecated *Deprecation `yaml:"deprecated" json:"deprecated,omitempty"`
	Examples   *Examples    `yaml:"examples" json:"examples,omitempty"`

	// UsedBy lists datasets that emit this exact attribute name.
	UsedBy []string `yaml:"-" json:"used_by,omitempty"`
	// TemplateSuffixes maps an observed suffix to the datasets emitting
	// "<name>.<suffix>". Only template-typed attributes collect entries.
	TemplateSuffixes map[string][]string `yaml:"-" json:"template_suffixes,omitempty"`
	// ColumnTypes maps a matched column name (the attribute name itself or
	// "<name>.<suffix>") to the types datasets declared for it.
	ColumnTypes map[string][]string `yaml:"-" json:"column_types,omitempty"`
	// DefinedIn is "<corpus>::<relative/path.yaml>" of the winning definition.
	DefinedIn string `yaml:"-" json:"defined_in,omitempty"`
}

// IsTemplate reports whether the attribute has a template[...] type.
func (a *Attribute) IsTemplate() bool {
	return a.Type != nil && a.Type.IsTemplate()
}

// IsDeprecated reports whether a deprecation notice is present.
func (a *Attribute) IsDeprecated() bool {
	return a.Deprecated != nil
}

// TypeLabel renders the type for display, or "" when none was declared.
func (a *Attribute) TypeLabel() string {
	if a.Type == nil {
		return ""
	}
	return a.Type.String()
}

// ExampleLabel renders the examples for display, or "" when none were given.
func (a *Attribute) ExampleLabel() string {
	if a.Examples == nil {
		return ""
	}
	return a.Examples.String()
}

// SuffixNames returns the observed template suffixes in sorted order.
func (a *Attribute) SuffixNames() []string {
	names := make([]string, 0, len(a.TemplateSuffixes))
	for s := range a.TemplateSuffixes {
		names = append(names, s)
	}
	slices.Sort(names)
	return names
}

// Deprecation is either free text or a structured notice naming a
// replacement.
type Deprecation struct {
	Reason    string `yaml:"reason" json:"reason,omitempty"`
	RenamedTo string `yaml:"renamed_to" json:"renamed_to,omitempty"`
	Note      string `yaml:"note" json:"note,omitempty"`
}

// String renders the notice as a single line.
func (d *Deprecation) String() string {
	var parts []string
	if d.RenamedTo != "" {
		parts = append(parts, "Replaced by `"+d.RenamedTo+"`.")
	}
	if d.Note != "" {
		parts = append(parts, strings.TrimSpace(d.Note))
	}
	if len(parts) == 0 {
		return d.Reason
	}
	return strings.Join(parts, " ")
}

// UnmarshalYAML accepts a scalar as free text or a mapping with reason,
// renamed_to and note keys.
func (d *Deprecation) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*d = Deprecation{Reason: strings.TrimSpace(node.Value)}
		return nil
	case yaml.MappingNode:
		type plain Deprecation
		var p plain
		if err := node.Decode(&p); err != nil {
			return errors.Wrapf(err, "line %d: deprecation", node.Line)
		}
		*d = Deprecation(p)
		return nil
	}
	return errors.Newf("line %d: deprecation must be text or a mapping", node.Line)
}

// MarshalJSON adds the rendered text next to the structured fields.
func (d *Deprecation) MarshalJSON() ([]byte, error) {
	type plain Deprecation
	return json.Marshal(struct {
		*plain
		Text string `json:"text"`
	}{(*plain)(d), d.String()})
}
