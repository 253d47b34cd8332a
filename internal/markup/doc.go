// Package markup converts the Markdown written in CV fields into the
// output formats.
//
// Field values are inline Markdown. Typst parses them with goldmark and
// walks the AST, emitting Typst function calls (#strong, #emph, #link,
// #raw) and escaping everything else, so user text can never open a Typst
// code block or a comment. HTML converts a whole Markdown document with
// goldmark's HTML renderer.
//
// Bold highlights a configured keyword list by wrapping matches in **
// markers before conversion, which makes the pass format independent.
package markup
