// Package diagnostic collects validation failures and turns them into
// user-facing records that point at YAML source coordinates.
//
// Validation never stops at the first problem. Every validator appends to a
// Diagnostics value; once the whole document has been checked, Translate
// walks each failure path through the parsed YAML tree and produces a
// Record with the location, the source span, a rewritten message and the
// offending input.
//
// Three error kinds leave the core:
//   - *ValidationError carries the records of an invalid document
//   - *UserError is a single runtime problem caused by the user
//     (missing file, bad extension, compiler failure)
//   - *InternalError means a bug, for example a failure path that does not
//     exist in the document
//
// Suggest offers "did you mean" candidates for unknown names using a
// normalized Levenshtein similarity.
package diagnostic
