// Package model builds the validated, immutable representation of a CV
// document from its YAML node tree.
//
// Build walks the tree once, collecting every failure in a
// diagnostic.Diagnostics value, and returns either the root model or a
// *diagnostic.ValidationError whose records point at the offending YAML
// coordinates.
//
// Section entries form a tagged union: an Entry carries its EntryKind and
// exactly one non-nil variant pointer. The kind of a raw entry is decided
// by the first variant whose required keys are present, in this order:
//
//	Education         institution, area
//	Experience        company, position
//	Publication       title, authors
//	Normal            name
//	OneLine           label, details
//	Bullet            bullet
//	Numbered          number
//	ReversedNumbered  reversed_number
//	Text              plain strings and {text: ...}
//
// Every entry of a section must share the kind of the first entry.
//
// The effective current date is captured from settings.current_date (or
// the build context) while building and stored on the root. "present" end
// dates stay symbolic in the model and are resolved against that date when
// sorting and rendering.
package model
