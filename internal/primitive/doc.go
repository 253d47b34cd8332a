// Package primitive validates the scalar values a résumé document is built
// from: dates, typographic dimensions, colors, font families and file paths.
//
// Every parser returns an error wrapping one of the sentinel errors declared
// in errors.go, so that callers can tell the failure class apart with
// errors.Is and rephrase it for the field it came from.
//
// # Dates
//
// A Date is a year, a year and month, a full calendar day, or the literal
// "present". Missing month and day default to January 1 when a date is
// resolved to a point in time:
//
//	d, _ := primitive.ParseDate("2021-03", false)
//	d.String()                // "2021-03"
//	d.Resolve(today)          // 2021-03-01
//
// "present" is only accepted where allowPresent is true and resolves to the
// caller supplied current date, never to the wall clock.
//
// # Paths
//
// Relative paths are resolved against the directory of the input file.
// ExistingPath additionally requires a regular file; PlannedPath accepts
// anything that resolves.
package primitive
