// Package reader loads an input document into a yaml.v3 node tree.
//
// The node tree is kept instead of a decoded map because every validation
// failure must point back at a line and column of the source. JSON input is
// parsed by the YAML parser directly. JSON5 input is checked with a JSON5
// decoder first and then rewritten in place (comments and trailing commas
// are blanked without moving any byte) so that yaml.v3 reports the original
// coordinates.
//
// Timestamps are never resolved: a scalar such as 2020-01-01 stays a string
// and the model decides what a date means.
package reader
