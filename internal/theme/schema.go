package theme

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"rendercv/internal/common"
	"rendercv/internal/primitive"
)

// FieldType is the type of an option leaf.
type FieldType string

const (
	TypeString     FieldType = "string"
	TypeBool       FieldType = "bool"
	TypeInt        FieldType = "int"
	TypeDimension  FieldType = "dimension"
	TypeColor      FieldType = "color"
	TypeFont       FieldType = "font"
	TypeEnum       FieldType = "enum"
	TypeStringList FieldType = "string_list"
)

var fieldTypes = []FieldType{
	TypeString, TypeBool, TypeInt, TypeDimension, TypeColor, TypeFont, TypeEnum, TypeStringList,
}

var errWrongType = errors.New("wrong type")

// Field is an option leaf.
type Field struct {
	Type        FieldType
	Values      []string
	Default     any
	Description string
}

// Schema is an ordered tree of option groups and fields.
type Schema struct {
	Keys   []string
	Fields map[string]*Field
	Groups map[string]*Schema
}

// CoerceContext carries what value checks depend on.
type CoerceContext struct {
	// UserFonts is true when a fonts directory sits next to the input file.
	UserFonts bool
}

func newSchema() *Schema {
	return &Schema{Fields: map[string]*Field{}, Groups: map[string]*Schema{}}
}

// ParseSchema reads a schema tree. A mapping with a scalar "type" key is a
// field, any other mapping is a group.
func ParseSchema(n *yaml.Node) (*Schema, error) {
	s := newSchema()
	if err := s.parse(n, nil); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Schema) parse(n *yaml.Node, path []string) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("%s: line %d: expected a mapping", dotted(path), n.Line)
	}

	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i].Value, n.Content[i+1]
		at := append(slices.Clone(path), key)

		if !common.IsIdentifier(key) {
			return fmt.Errorf("%s: line %d: option names use lowercase letters, digits and underscores", dotted(at), n.Content[i].Line)
		}

		if isField(value) {
			f, err := parseField(value, at)
			if err != nil {
				return err
			}

			s.addField(key, f)

			continue
		}

		sub := s.Groups[key]
		if sub == nil {
			sub = newSchema()
		}

		if err := sub.parse(value, at); err != nil {
			return err
		}

		s.addGroup(key, sub)
	}

	return nil
}

func isField(n *yaml.Node) bool {
	if n.Kind != yaml.MappingNode {
		return false
	}

	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == "type" && n.Content[i+1].Kind == yaml.ScalarNode {
			return true
		}
	}

	return false
}

func parseField(n *yaml.Node, path []string) (*Field, error) {
	var raw struct {
		Type        FieldType `yaml:"type"`
		Values      []string  `yaml:"values"`
		Default     yaml.Node `yaml:"default"`
		Description string    `yaml:"description"`
	}

	if err := n.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%s: %w", dotted(path), err)
	}

	if !slices.Contains(fieldTypes, raw.Type) {
		return nil, fmt.Errorf("%s: line %d: unknown option type %q", dotted(path), n.Line, raw.Type)
	}

	if raw.Type == TypeEnum && len(raw.Values) == 0 {
		return nil, fmt.Errorf("%s: line %d: enum options need values", dotted(path), n.Line)
	}

	f := &Field{Type: raw.Type, Values: raw.Values, Description: raw.Description}

	if raw.Default.Kind == 0 {
		return nil, fmt.Errorf("%s: line %d: missing default", dotted(path), n.Line)
	}

	def, err := f.Coerce(&raw.Default, CoerceContext{UserFonts: true})
	if err != nil {
		return nil, fmt.Errorf("%s: line %d: invalid default: %w", dotted(path), raw.Default.Line, err)
	}

	f.Default = def

	return f, nil
}

func (s *Schema) addField(key string, f *Field) {
	if _, ok := s.Fields[key]; !ok {
		if _, isGroup := s.Groups[key]; !isGroup {
			s.Keys = append(s.Keys, key)
		}
	}

	delete(s.Groups, key)
	s.Fields[key] = f
}

func (s *Schema) addGroup(key string, g *Schema) {
	if _, ok := s.Groups[key]; !ok {
		if _, isField := s.Fields[key]; !isField {
			s.Keys = append(s.Keys, key)
		}
	}

	delete(s.Fields, key)
	s.Groups[key] = g
}

// Extend returns a copy of s with the fields and groups of other added.
// Fields of other replace fields of s with the same path.
func (s *Schema) Extend(other *Schema) *Schema {
	out := s.clone()
	out.extend(other)

	return out
}

func (s *Schema) extend(other *Schema) {
	for _, key := range other.Keys {
		if f, ok := other.Fields[key]; ok {
			s.addField(key, f)
			continue
		}

		g := other.Groups[key]
		if existing, ok := s.Groups[key]; ok {
			existing.extend(g)
			continue
		}

		s.addGroup(key, g.clone())
	}
}

func (s *Schema) clone() *Schema {
	out := newSchema()
	out.Keys = slices.Clone(s.Keys)

	for k, f := range s.Fields {
		out.Fields[k] = f
	}

	for k, g := range s.Groups {
		out.Groups[k] = g.clone()
	}

	return out
}

// Field returns the field at a dotted path.
func (s *Schema) Field(path string) (*Field, bool) {
	parts := strings.Split(path, ".")
	cur := s

	for _, p := range parts[:len(parts)-1] {
		g, ok := cur.Groups[p]
		if !ok {
			return nil, false
		}

		cur = g
	}

	f, ok := cur.Fields[parts[len(parts)-1]]

	return f, ok
}

// Coerce validates n against f and returns the typed value: string, bool,
// int, primitive.Dimension, primitive.Color or []string.
func (f *Field) Coerce(n *yaml.Node, ctx CoerceContext) (any, error) {
	if f.Type == TypeStringList {
		if n.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("%w: expected a list of strings", errWrongType)
		}

		out := make([]string, 0, len(n.Content))
		for _, item := range n.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("%w: expected a list of strings", errWrongType)
			}

			out = append(out, item.Value)
		}

		return out, nil
	}

	if n.Kind != yaml.ScalarNode || n.ShortTag() == "!!null" {
		return nil, fmt.Errorf("%w: expected a %s", errWrongType, f.Type)
	}

	switch f.Type {
	case TypeString:
		return n.Value, nil
	case TypeBool:
		if n.ShortTag() != "!!bool" {
			return nil, fmt.Errorf("%w: expected true or false", errWrongType)
		}

		return strconv.ParseBool(n.Value)
	case TypeInt:
		if n.ShortTag() != "!!int" {
			return nil, fmt.Errorf("%w: expected an integer", errWrongType)
		}

		return strconv.Atoi(n.Value)
	case TypeDimension:
		return primitive.ParseDimension(n.Value)
	case TypeColor:
		return primitive.ParseColor(n.Value)
	case TypeFont:
		return primitive.ValidateFontFamily(n.Value, ctx.UserFonts)
	case TypeEnum:
		if !slices.Contains(f.Values, n.Value) {
			return nil, fmt.Errorf("expected one of %s", strings.Join(quoteAll(f.Values), ", "))
		}

		return n.Value, nil
	}

	return nil, fmt.Errorf("unsupported option type %q", f.Type)
}

func dotted(path []string) string {
	if len(path) == 0 {
		return "options"
	}

	return strings.Join(path, ".")
}

func quoteAll(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = strconv.Quote(s)
	}

	return out
}
