// Package schema exports the input format as a JSON Schema (draft-07) for
// editor integration and checks documents against it.
//
// The schema is derived from the same tables the validator uses: entry
// fields from the model, option groups from the theme schema, networks,
// sort orders and phone formats from their packages. It is a structural
// check only; cross-field rules such as date ordering, duplicate section
// titles and homogeneous sections are left to model.Build.
package schema

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"

	"rendercv/internal/locale"
	"rendercv/internal/model"
	"rendercv/internal/primitive"
	"rendercv/internal/theme"
)

// Draft is the JSON Schema dialect of the exported document.
const Draft = "http://json-schema.org/draft-07/schema#"

const (
	datePattern    = `^\d{4}(-\d{2}(-\d{2})?)?$`
	endDatePattern = `^(\d{4}(-\d{2}(-\d{2})?)?|present)$`
)

type object = map[string]any

// Document returns the schema of input files using built-in themes.
func Document() map[string]any {
	return ForTheme(theme.BaseSchema())
}

// ForTheme returns the schema of input files whose design options follow s.
func ForTheme(s *theme.Schema) map[string]any {
	return object{
		"$schema":              Draft,
		"title":                "RenderCV input",
		"description":          "A CV written as YAML, JSON or JSON5.",
		"type":                 "object",
		"required":             []string{"cv"},
		"additionalProperties": false,
		"properties": object{
			"cv":       cvSchema(),
			"design":   designSchema(s),
			"locale":   localeSchema(),
			"settings": settingsSchema(),
			"versions": versionsSchema(),
		},
		"definitions": object{
			"date":    anyOf(object{"type": "integer"}, object{"type": "string", "pattern": datePattern}),
			"endDate": anyOf(object{"type": "integer"}, object{"type": "string", "pattern": endDatePattern}),
			"entry":   entrySchema(),
			"strings": stringList(0),
		},
	}
}

// JSON returns Document encoded as indented JSON.
func JSON() ([]byte, error) {
	return json.MarshalIndent(Document(), "", "  ")
}

func anyOf(schemas ...any) object {
	return object{"anyOf": schemas}
}

func ref(name string) object {
	return object{"$ref": "#/definitions/" + name}
}

func str() object {
	return object{"type": "string"}
}

func stringList(minItems int) object {
	o := object{"type": "array", "items": str()}
	if minItems > 0 {
		o["minItems"] = minItems
	}

	return o
}

func strict(props object, required ...string) object {
	o := object{"type": "object", "additionalProperties": false, "properties": props}
	if len(required) > 0 {
		o["required"] = required
	}

	return o
}

func cvSchema() object {
	networks := object{"type": "string", "enum": model.Networks()}

	return strict(object{
		"name":     str(),
		"label":    str(),
		"location": str(),
		"email":    object{"type": "string", "format": "email"},
		"phone":    object{"type": "string", "pattern": `^\+`},
		"website":  object{"type": "string", "format": "uri"},
		"photo":    str(),
		"social_networks": object{
			"type":  "array",
			"items": strict(object{"network": networks, "username": str()}, "network", "username"),
		},
		"sections": object{
			"type": "object",
			"additionalProperties": object{
				"type":     "array",
				"minItems": 1,
				"items":    ref("entry"),
			},
		},
	}, "name")
}

// entrySchema accepts a plain string or a mapping with the required keys of
// one entry kind. Extra keys are allowed; they feed template tokens.
func entrySchema() object {
	variants := []any{str()}

	for _, k := range model.Kinds() {
		props := object{}

		var required []string

		for _, f := range k.Fields() {
			props[f.Name] = fieldSchema(f)
			if f.Required {
				required = append(required, f.Name)
			}
		}

		props["tags"] = stringList(0)

		variants = append(variants, object{
			"title":      k.TemplateName(),
			"type":       "object",
			"required":   required,
			"properties": props,
		})
	}

	return anyOf(variants...)
}

func fieldSchema(f model.Field) object {
	switch {
	case f.List:
		return stringList(1)
	case f.EndDate:
		return ref("endDate")
	case f.Date:
		return ref("date")
	case f.URL:
		return object{"type": "string", "format": "uri"}
	case f.Pattern != "":
		return object{"type": "string", "pattern": f.Pattern}
	default:
		return str()
	}
}

func designSchema(s *theme.Schema) object {
	o := optionGroup(s)
	props, _ := o["properties"].(object)
	props["theme"] = object{"type": "string", "pattern": `^[a-z0-9_]+$`, "default": theme.DefaultTheme,
		"examples": theme.BuiltinNames()}

	return o
}

func optionGroup(s *theme.Schema) object {
	props := object{}

	for _, key := range s.Keys {
		if f, ok := s.Fields[key]; ok {
			props[key] = optionField(f)
			continue
		}

		props[key] = optionGroup(s.Groups[key])
	}

	return strict(props)
}

func optionField(f *theme.Field) object {
	var o object

	switch f.Type {
	case theme.TypeBool:
		o = object{"type": "boolean"}
	case theme.TypeInt:
		o = object{"type": "integer"}
	case theme.TypeEnum:
		o = object{"enum": f.Values}
	case theme.TypeStringList:
		o = stringList(0)
	case theme.TypeDimension:
		o = object{"type": "string", "pattern": primitive.DimensionPattern}
	default:
		o = str()
	}

	if f.Description != "" {
		o["description"] = f.Description
	}

	if def := defaultValue(f.Default); def != nil {
		o["default"] = def
	}

	return o
}

func defaultValue(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case string, bool, int, []string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func localeSchema() object {
	props := object{
		"language":            str(),
		"phone_number_format": object{"enum": locale.PhoneFormats},
	}

	for _, key := range []string{
		"date_template", "page_numbering_template", "last_updated_date_template", "cv_title_template",
		"month", "months", "year", "years", "present", "to",
	} {
		props[key] = str()
	}

	months := stringList(12)
	months["maxItems"] = 12
	props["abbreviations_for_months"] = months
	props["full_names_of_months"] = months

	return strict(props)
}

func settingsSchema() object {
	props := object{
		"current_date":  anyOf(ref("date"), object{"const": model.TodayLiteral}),
		"bold_keywords": stringList(0),
		"sort_entries":  object{"enum": model.SortOrders},
		"pdf_title":     str(),
	}

	for _, key := range []string{"output_folder", "typst_path", "pdf_path", "markdown_path", "html_path", "png_path"} {
		props[key] = object{"type": "string", "minLength": 1}
	}

	for _, key := range []string{"dont_generate_pdf", "dont_generate_png", "dont_generate_markdown", "dont_generate_html"} {
		props[key] = object{"type": "boolean"}
	}

	return strict(props)
}

func versionsSchema() object {
	version := strict(object{
		"name":    object{"type": "string", "pattern": model.VersionNamePattern},
		"include": stringList(1),
		"exclude": stringList(1),
	}, "name")
	version["anyOf"] = []any{
		object{"required": []string{"include"}},
		object{"required": []string{"exclude"}},
	}

	return object{"type": "array", "items": version}
}

// Plain converts a YAML tree into the Go values a JSON decoder would
// produce. Scalars keep their resolved tag, so quoted numbers stay strings.
func Plain(n *yaml.Node) any {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil
		}

		return Plain(n.Content[0])
	case yaml.AliasNode:
		return Plain(n.Alias)
	case yaml.MappingNode:
		out := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			out[n.Content[i].Value] = Plain(n.Content[i+1])
		}

		return out
	case yaml.SequenceNode:
		out := make([]any, len(n.Content))
		for i, c := range n.Content {
			out[i] = Plain(c)
		}

		return out
	}

	switch n.ShortTag() {
	case "!!null":
		return nil
	case "!!bool":
		b, err := strconv.ParseBool(n.Value)
		if err == nil {
			return b
		}
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return i
		}
	case "!!float":
		var f float64
		if err := n.Decode(&f); err == nil {
			return f
		}
	}

	return n.Value
}

// sortedErrors makes error output stable across map iteration orders.
func sortedErrors(msgs []string) []string {
	slices.Sort(msgs)
	return msgs
}
