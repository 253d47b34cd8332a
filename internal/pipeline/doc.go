// Package pipeline runs a document end to end: read, validate, filter and
// sort per version, render, write and compile.
//
// Artifact paths come from the settings. Every path first has its name and
// year tokens replaced, then OUTPUT_FOLDER is replaced by the output folder.
// Paths that are still relative are joined to the output folder, absolute
// ones are kept. The output folder itself is relative to the input file.
// A named version appends "_<version>" to the stem of every artifact.
//
// The typesetter is reached through the Compiler interface; TypstCompiler
// runs the typst binary. Library code here never prints: progress goes to
// the zerolog.Logger given with WithLogger.
package pipeline
