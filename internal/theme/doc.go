// Package theme describes CV themes: their option schema, their default
// values and their template files.
//
// A theme is purely declarative. The option schema is a YAML tree whose
// leaves declare a type, a default and for enums the accepted values:
//
//	page:
//	  size: {type: enum, values: [us-letter, a4], default: us-letter}
//	  top_margin: {type: dimension, default: 2cm}
//
// Every theme shares the base schema in schema/base.yaml. Built-in themes
// are descriptors under themes/ that only override defaults; they all use
// the embedded Typst, Markdown and HTML templates under templates/.
//
// A custom theme is a directory named after the theme next to the input
// file. It must contain one Typst template per entry kind plus Preamble,
// Header, SectionBeginning and SectionEnding, and may contain a theme.yaml
// that declares extra options and overrides defaults. Nothing in a custom
// theme is executed except its templates.
//
// Merge validates user options against a schema and deep-merges them over
// the defaults: scalars replace, mappings merge, unknown keys are rejected.
package theme
