// Package locale holds the translation catalog used when rendering a CV.
//
// Every supported language ships as an embedded YAML file under catalog/.
// A document may name any language; unknown names keep the English strings
// so that a partially translated locale still renders.
//
// Besides the word lists, the package formats dates for display:
//   - FormatDate substitutes the date template placeholders
//     (FULL_MONTH_NAME, MONTH_ABBREVIATION, MONTH_IN_TWO_DIGITS, MONTH,
//     YEAR_IN_TWO_DIGITS, YEAR)
//   - FormatDateRange joins two dates with the locale's "to" word
//   - TimeSpan renders the distance between two dates in years and months
//
// "present" is always resolved against the caller supplied current date,
// never against the wall clock.
package locale
