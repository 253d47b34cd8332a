// Package render turns a validated model into Typst, Markdown and HTML.
//
// Themes provide scriggo templates: Preamble, Header, SectionBeginning and
// SectionEnding, plus one template per entry kind. Templates receive typed
// views (cv, design, locale, settings, section, entry) whose strings are
// already converted to the target format, so templates only arrange them.
//
// Entry rows are described by field templates in the design options, e.g.
//
//	main_column_first_row_template: "**POSITION**, COMPANY -- LOCATION"
//
// Upper-case tokens are replaced with entry values, unknown tokens are kept
// verbatim, lines that substitution left empty are dropped and dangling
// separators are trimmed. The result is Markdown; bold keywords are applied
// and the Markdown is converted with the markup package.
package render
