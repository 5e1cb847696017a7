package semconv

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/teranos/sembrowse/errors"
	"gopkg.in/yaml.v3"
)

// PrimitiveType is one of the sixteen scalar type labels an attribute can
// declare: {string, int, double, boolean} x {scalar, array} x {plain, template}.
type PrimitiveType int

const (
	String PrimitiveType = iota
	Int
	Double
	Boolean
	StringArray
	IntArray
	DoubleArray
	BooleanArray
	TemplateString
	TemplateInt
	TemplateDouble
	TemplateBoolean
	TemplateStringArray
	TemplateIntArray
	TemplateDoubleArray
	TemplateBooleanArray
)

// primitiveLabels is indexed by PrimitiveType and is the only source of truth
// for the on-disk spelling of each label.
var primitiveLabels = [...]string{
	String:               "string",
	Int:                  "int",
	Double:               "double",
	Boolean:              "boolean",
	StringArray:          "string[]",
	IntArray:             "int[]",
	DoubleArray:          "double[]",
	BooleanArray:         "boolean[]",
	TemplateString:       "template[string]",
	TemplateInt:          "template[int]",
	TemplateDouble:       "template[double]",
	TemplateBoolean:      "template[boolean]",
	TemplateStringArray:  "template[string[]]",
	TemplateIntArray:     "template[int[]]",
	TemplateDoubleArray:  "template[double[]]",
	TemplateBooleanArray: "template[boolean[]]",
}

var primitivesByLabel = func() map[string]PrimitiveType {
	m := make(map[string]PrimitiveType, len(primitiveLabels))
	for p, label := range primitiveLabels {
		m[label] = PrimitiveType(p)
	}
	return m
}()

// ParsePrimitiveType resolves a label such as "template[double[]]".
// Labels are matched exactly; anything outside the table is rejected.
func ParsePrimitiveType(label string) (PrimitiveType, bool) {
	p, ok := primitivesByLabel[label]
	return p, ok
}

// String returns the on-disk label.
func (p PrimitiveType) String() string {
	if !p.IsValid() {
		return "PrimitiveType(" + strconv.Itoa(int(p)) + ")"
	}
	return primitiveLabels[p]
}

// IsValid reports whether p is one of the sixteen defined labels.
func (p PrimitiveType) IsValid() bool {
	return p >= String && p <= TemplateBooleanArray
}

// IsTemplate reports whether p is one of the eight template[...] labels.
func (p PrimitiveType) IsTemplate() bool {
	return p >= TemplateString && p <= TemplateBooleanArray
}

// IsArray reports whether p denotes an array value.
func (p PrimitiveType) IsArray() bool {
	switch p {
	case StringArray, IntArray, DoubleArray, BooleanArray,
		TemplateStringArray, TemplateIntArray, TemplateDoubleArray, TemplateBooleanArray:
		return true
	}
	return false
}

// MemberValue is the value of an enumeration member: a string or an integer.
type MemberValue struct {
	isInt bool
	str   string
	num   int64
	set   bool
}

// StringMember builds a string member value.
func StringMember(s string) MemberValue { return MemberValue{str: s, set: true} }

// IntMember builds an integer member value.
func IntMember(i int64) MemberValue { return MemberValue{isInt: true, num: i, set: true} }

func (v MemberValue) String() string {
	if v.isInt {
		return strconv.FormatInt(v.num, 10)
	}
	return v.str
}

// UnmarshalYAML accepts an integer scalar or a string scalar, in that
// order of tag inspection. Quoted numbers stay strings.
func (v *MemberValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.Newf("line %d: enum member value must be a string or integer", node.Line)
	}
	switch node.ShortTag() {
	case "!!int":
		var i int64
		if err := node.Decode(&i); err != nil {
			return errors.Wrapf(err, "line %d: enum member value", node.Line)
		}
		*v = IntMember(i)
	case "!!str":
		*v = StringMember(node.Value)
	default:
		return errors.Newf("line %d: enum member value %q must be a string or integer", node.Line, node.Value)
	}
	return nil
}

// MarshalJSON emits the value with its native JSON type.
func (v MemberValue) MarshalJSON() ([]byte, error) {
	if v.isInt {
		return json.Marshal(v.num)
	}
	return json.Marshal(v.str)
}

// Member is one named value of an Enumeration.
type Member struct {
	ID    string      `yaml:"id" json:"id,omitempty"`
	Value MemberValue `yaml:"value" json:"value"`
	Brief string      `yaml:"brief" json:"brief,omitempty"`
}

// Enumeration is a closed set of members, or an open one when custom values
// are allowed.
type Enumeration struct {
	AllowCustomValues bool     `yaml:"allow_custom_values" json:"allow_custom_values"`
	Members           []Member `yaml:"members" json:"members"`
}

func (e *Enumeration) String() string {
	values := make([]string, len(e.Members))
	for i, m := range e.Members {
		values[i] = m.Value.String()
	}
	prefix := "enum: "
	if e.AllowCustomValues {
		prefix = "open enum: "
	}
	return prefix + strings.Join(values, ", ")
}

// Type is the declared type of an attribute: either a PrimitiveType or an
// Enumeration. The zero value is not a valid type; use PrimitiveOf or EnumOf.
type Type struct {
	enum      *Enumeration
	primitive PrimitiveType
	valid     bool
}

// PrimitiveOf wraps a primitive label as a Type.
func PrimitiveOf(p PrimitiveType) Type { return Type{primitive: p, valid: true} }

// EnumOf wraps an enumeration as a Type.
func EnumOf(e Enumeration) Type { return Type{enum: &e, valid: true} }

// Primitive returns the primitive label when t is not an enumeration.
func (t Type) Primitive() (PrimitiveType, bool) {
	if !t.valid || t.enum != nil {
		return 0, false
	}
	return t.primitive, true
}

// Enum returns the enumeration when t is one.
func (t Type) Enum() (*Enumeration, bool) {
	return t.enum, t.enum != nil
}

// IsTemplate reports whether t is one of the template[...] primitives.
func (t Type) IsTemplate() bool {
	p, ok := t.Primitive()
	return ok && p.IsTemplate()
}

func (t Type) String() string {
	if e, ok := t.Enum(); ok {
		return e.String()
	}
	if p, ok := t.Primitive(); ok {
		return p.String()
	}
	return ""
}

// UnmarshalYAML resolves the declared type. A mapping is an enumeration and
// must carry a members list; a scalar must be one of the primitive labels.
// The structural check runs first, so a mapping never falls back to label
// matching and a label never needs members.
func (t *Type) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		var raw struct {
			AllowCustomValues bool      `yaml:"allow_custom_values"`
			Members           *[]Member `yaml:"members"`
		}
		if err := node.Decode(&raw); err != nil {
			return errors.Wrapf(err, "line %d: enum type", node.Line)
		}
		if raw.Members == nil {
			return errors.Newf("line %d: structured type has no members list", node.Line)
		}
		for i, m := range *raw.Members {
			if !m.Value.set {
				return errors.Newf("line %d: enum member %d has no value", node.Line, i)
			}
		}
		*t = EnumOf(Enumeration{AllowCustomValues: raw.AllowCustomValues, Members: *raw.Members})
		return nil
	case yaml.ScalarNode:
		if node.ShortTag() != "!!str" {
			return errors.Newf("line %d: failed to parse type %q", node.Line, node.Value)
		}
		p, ok := ParsePrimitiveType(node.Value)
		if !ok {
			return errors.Newf("line %d: failed to parse type %q", node.Line, node.Value)
		}
		*t = PrimitiveOf(p)
		return nil
	default:
		return errors.Newf("line %d: failed to parse type", node.Line)
	}
}

type typeJSON struct {
	Kind              string   `json:"kind"`
	Label             string   `json:"label"`
	Template          bool     `json:"template,omitempty"`
	AllowCustomValues bool     `json:"allow_custom_values,omitempty"`
	Members           []Member `json:"members,omitempty"`
}

// MarshalJSON emits {"kind": "primitive"|"enum", "label": ...}.
func (t Type) MarshalJSON() ([]byte, error) {
	out := typeJSON{Label: t.String()}
	if e, ok := t.Enum(); ok {
		out.Kind = "enum"
		out.AllowCustomValues = e.AllowCustomValues
		out.Members = e.Members
	} else {
		out.Kind = "primitive"
		out.Template = t.IsTemplate()
	}
	return json.Marshal(out)
}
