package theme

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"rendercv/internal/diagnostic"
)

// Options is a resolved option tree. Leaves hold the typed values produced
// by Field.Coerce; inner nodes are *Options.
type Options struct {
	keys   []string
	values map[string]any
}

func newOptions() *Options {
	return &Options{values: map[string]any{}}
}

// Defaults builds the option tree of the schema defaults.
func Defaults(s *Schema) *Options {
	o := newOptions()

	for _, key := range s.Keys {
		if f, ok := s.Fields[key]; ok {
			o.set(key, cloneValue(f.Default))
			continue
		}

		o.set(key, Defaults(s.Groups[key]))
	}

	return o
}

func (o *Options) set(key string, v any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}

	o.values[key] = v
}

// Keys returns the keys of o in schema order.
func (o *Options) Keys() []string {
	return slices.Clone(o.keys)
}

// Clone returns a deep copy of o.
func (o *Options) Clone() *Options {
	out := &Options{keys: slices.Clone(o.keys), values: make(map[string]any, len(o.values))}

	for k, v := range o.values {
		if sub, ok := v.(*Options); ok {
			out.values[k] = sub.Clone()
			continue
		}

		out.values[k] = cloneValue(v)
	}

	return out
}

func cloneValue(v any) any {
	if list, ok := v.([]string); ok {
		return slices.Clone(list)
	}

	return v
}

// Get returns the value at a dotted path.
func (o *Options) Get(path string) (any, bool) {
	cur := o
	parts := strings.Split(path, ".")

	for i, p := range parts {
		v, ok := cur.values[p]
		if !ok {
			return nil, false
		}

		if i == len(parts)-1 {
			return v, true
		}

		sub, ok := v.(*Options)
		if !ok {
			return nil, false
		}

		cur = sub
	}

	return nil, false
}

// Group returns the sub-tree at a dotted path.
func (o *Options) Group(path string) (*Options, bool) {
	v, ok := o.Get(path)
	if !ok {
		return nil, false
	}

	sub, ok := v.(*Options)

	return sub, ok
}

// String renders the value at path the way templates print it. Missing
// paths render as the empty string.
func (o *Options) String(path string) string {
	v, ok := o.Get(path)
	if !ok {
		return ""
	}

	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case []string:
		return strings.Join(x, ", ")
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// Bool returns the boolean at path, false when missing.
func (o *Options) Bool(path string) bool {
	v, _ := o.Get(path)
	b, _ := v.(bool)

	return b
}

// List returns the string list at path.
func (o *Options) List(path string) []string {
	v, _ := o.Get(path)
	list, _ := v.([]string)

	return slices.Clone(list)
}

// Map flattens o into nested maps with printable leaves, used for schema
// export and debugging.
func (o *Options) Map() map[string]any {
	out := make(map[string]any, len(o.values))

	for _, k := range o.keys {
		switch v := o.values[k].(type) {
		case *Options:
			out[k] = v.Map()
		case []string:
			out[k] = slices.Clone(v)
		case bool, int, string:
			out[k] = v
		default:
			out[k] = o.String(k)
		}
	}

	return out
}

// Merge validates user against s and deep-merges it over base. Scalars
// replace, mappings merge and unknown keys are reported with suggestions.
// A nil user node returns a copy of base.
func Merge(s *Schema, base *Options, user *yaml.Node, path diagnostic.Path, ctx CoerceContext, diags *diagnostic.Diagnostics) *Options {
	out := base.Clone()
	if user == nil {
		return out
	}

	mergeInto(s, out, user, path, ctx, diags)

	return out
}

func mergeInto(s *Schema, out *Options, user *yaml.Node, path diagnostic.Path, ctx CoerceContext, diags *diagnostic.Diagnostics) {
	if user.Kind == yaml.ScalarNode && user.ShortTag() == "!!null" {
		return
	}

	if user.Kind != yaml.MappingNode {
		diags.AddError(path, diagnostic.KindType, "Expected a mapping of options.", user.Value)
		return
	}

	for i := 0; i+1 < len(user.Content); i += 2 {
		key, value := user.Content[i].Value, user.Content[i+1]
		at := path.Child(key)

		if f, ok := s.Fields[key]; ok {
			if value.Kind == yaml.ScalarNode && value.ShortTag() == "!!null" {
				continue
			}

			v, err := f.Coerce(value, ctx)
			if err != nil {
				diags.AddCause(at, diagnostic.KindValue, err, value.Value)
				continue
			}

			out.set(key, v)

			continue
		}

		if g, ok := s.Groups[key]; ok {
			sub, _ := out.values[key].(*Options)
			if sub == nil {
				sub = Defaults(g)
				out.set(key, sub)
			}

			mergeInto(g, sub, value, at, ctx, diags)

			continue
		}

		diags.AddUnknown(at, diagnostic.KindUnknownKey,
			fmt.Sprintf("Unknown option %q.", key), key, s.Keys)
	}
}
