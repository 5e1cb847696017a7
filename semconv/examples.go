package semconv

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/teranos/sembrowse/errors"
	"gopkg.in/yaml.v3"
)

// ValueKind discriminates Value.
type ValueKind int

const (
	KindString ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindStringArray
	KindBoolArray
	KindIntArray
	KindFloatArray
)

// Value is one example value: a scalar or a homogeneous array of scalars.
type Value struct {
	kind   ValueKind
	str    []string
	bools  []bool
	ints   []int64
	floats []float64
}

func StringValue(s string) Value { return Value{kind: KindString, str: []string{s}} }
func BoolValue(b bool) Value     { return Value{kind: KindBool, bools: []bool{b}} }
func IntValue(i int64) Value     { return Value{kind: KindInt, ints: []int64{i}} }
func FloatValue(f float64) Value { return Value{kind: KindFloat, floats: []float64{f}} }
func StringArrayValue(s ...string) Value {
	return Value{kind: KindStringArray, str: append([]string{}, s...)}
}
func BoolArrayValue(b ...bool) Value {
	return Value{kind: KindBoolArray, bools: append([]bool{}, b...)}
}
func IntArrayValue(i ...int64) Value { return Value{kind: KindIntArray, ints: append([]int64{}, i...)} }
func FloatArrayValue(f ...float64) Value {
	return Value{kind: KindFloatArray, floats: append([]float64{}, f...)}
}

// IsArray reports whether v holds an array.
func (v Value) IsArray() bool { return v.kind >= KindStringArray }

// String renders scalars bare and arrays as [a, b] with strings quoted.
func (v Value) String() string {
	if !v.IsArray() {
		return v.elements(false)[0]
	}
	return "[" + strings.Join(v.elements(true), ", ") + "]"
}

func (v Value) elements(quote bool) []string {
	var out []string
	switch v.kind {
	case KindString, KindStringArray:
		for _, s := range v.str {
			if quote {
				s = strconv.Quote(s)
			}
			out = append(out, s)
		}
	case KindBool, KindBoolArray:
		for _, b := range v.bools {
			out = append(out, strconv.FormatBool(b))
		}
	case KindInt, KindIntArray:
		for _, i := range v.ints {
			out = append(out, strconv.FormatInt(i, 10))
		}
	case KindFloat, KindFloatArray:
		for _, f := range v.floats {
			out = append(out, formatFloat(f))
		}
	}
	return out
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// MarshalJSON emits the native JSON scalar or array.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str[0])
	case KindBool:
		return json.Marshal(v.bools[0])
	case KindInt:
		return json.Marshal(v.ints[0])
	case KindFloat:
		return json.Marshal(v.floats[0])
	case KindStringArray:
		return json.Marshal(v.str)
	case KindBoolArray:
		return json.Marshal(v.bools)
	case KindIntArray:
		return json.Marshal(v.ints)
	default:
		return json.Marshal(v.floats)
	}
}

// UnmarshalYAML accepts a scalar or a sequence of scalars. A sequence is
// typed by the first element type that every element satisfies, trying
// string, bool, int and then float; ints are accepted in a float array.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return v.scalar(node)
	case yaml.SequenceNode:
		return v.array(node)
	default:
		return errors.Newf("line %d: example value must be a scalar or an array of scalars", node.Line)
	}
}

func (v *Value) scalar(node *yaml.Node) error {
	switch node.ShortTag() {
	case "!!str":
		*v = StringValue(node.Value)
		return nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return err
		}
		*v = BoolValue(b)
		return nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err != nil {
			return err
		}
		*v = IntValue(i)
		return nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return err
		}
		*v = FloatValue(f)
		return nil
	}
	return errors.Newf("line %d: unsupported example value %q", node.Line, node.Value)
}

func (v *Value) array(node *yaml.Node) error {
	tags := make([]string, len(node.Content))
	for i, el := range node.Content {
		if el.Kind != yaml.ScalarNode {
			return errors.Newf("line %d: example arrays may only hold scalars", el.Line)
		}
		tags[i] = el.ShortTag()
	}
	all := func(accept ...string) bool {
		for _, tag := range tags {
			ok := false
			for _, a := range accept {
				if tag == a {
					ok = true
					break
				}
			}
			if !ok {
				return false
			}
		}
		return true
	}

	switch {
	case all("!!str"):
		out := make([]string, len(node.Content))
		for i, el := range node.Content {
			out[i] = el.Value
		}
		*v = Value{kind: KindStringArray, str: out}
	case all("!!bool"):
		var out []bool
		if err := node.Decode(&out); err != nil {
			return err
		}
		*v = Value{kind: KindBoolArray, bools: out}
	case all("!!int"):
		var out []int64
		if err := node.Decode(&out); err != nil {
			return err
		}
		*v = Value{kind: KindIntArray, ints: out}
	case all("!!int", "!!float"):
		var out []float64
		if err := node.Decode(&out); err != nil {
			return err
		}
		*v = Value{kind: KindFloatArray, floats: out}
	default:
		return errors.Newf("line %d: example array mixes incompatible element types", node.Line)
	}
	return nil
}

// Examples holds either a single example value or a list of them.
type Examples struct {
	values []Value
	list   bool
}

// SingleExample wraps one value.
func SingleExample(v Value) Examples { return Examples{values: []Value{v}} }

// ExampleList wraps several values.
func ExampleList(values ...Value) Examples {
	return Examples{values: append([]Value{}, values...), list: true}
}

// Values returns the example values; a single example yields one element.
func (e Examples) Values() []Value { return e.values }

// String joins values with ", ". Array values keep their brackets.
func (e Examples) String() string {
	parts := make([]string, len(e.values))
	for i, v := range e.values {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}

// UnmarshalYAML treats a sequence as a list of values, each of which may
// itself be a scalar or an array; anything else is a single value.
func (e *Examples) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		var v Value
		if err := v.UnmarshalYAML(node); err != nil {
			return err
		}
		*e = SingleExample(v)
		return nil
	}
	values := make([]Value, len(node.Content))
	for i, el := range node.Content {
		if err := values[i].UnmarshalYAML(el); err != nil {
			return err
		}
	}
	*e = Examples{values: values, list: true}
	return nil
}

// MarshalJSON emits a single value bare and a list as an array.
func (e Examples) MarshalJSON() ([]byte, error) {
	if !e.list && len(e.values) == 1 {
		return json.Marshal(e.values[0])
	}
	return json.Marshal(e.values)
}
