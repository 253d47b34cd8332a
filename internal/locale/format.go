package locale

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"rendercv/internal/primitive"
)

// Date template placeholders. Longer names come first so that MONTH never
// eats the prefix of MONTH_ABBREVIATION.
const (
	PlaceholderFullMonthName     = "FULL_MONTH_NAME"
	PlaceholderMonthAbbreviation = "MONTH_ABBREVIATION"
	PlaceholderMonthInTwoDigits  = "MONTH_IN_TWO_DIGITS"
	PlaceholderMonth             = "MONTH"
	PlaceholderYearInTwoDigits   = "YEAR_IN_TWO_DIGITS"
	PlaceholderYear              = "YEAR"
)

// FormatDate renders d with the locale's date template. Year-only dates
// drop every month placeholder; "present" renders the present word.
func (l Locale) FormatDate(d primitive.Date) string {
	return l.FormatDateWith(l.DateTemplate, d)
}

// FormatDateWith is FormatDate with an explicit template.
func (l Locale) FormatDateWith(template string, d primitive.Date) string {
	switch {
	case d.IsZero():
		return ""
	case d.Present:
		return l.Present
	}

	year := strconv.Itoa(d.Year)
	shortYear := fmt.Sprintf("%02d", d.Year%100)

	if d.IsYearOnly() {
		r := strings.NewReplacer(
			PlaceholderFullMonthName, "",
			PlaceholderMonthAbbreviation, "",
			PlaceholderMonthInTwoDigits, "",
			PlaceholderYearInTwoDigits, shortYear,
			PlaceholderMonth, "",
			PlaceholderYear, year,
		)

		return tidy(r.Replace(template))
	}

	r := strings.NewReplacer(
		PlaceholderFullMonthName, l.FullNamesOfMonths[d.Month-1],
		PlaceholderMonthAbbreviation, l.AbbreviationsForMonths[d.Month-1],
		PlaceholderMonthInTwoDigits, fmt.Sprintf("%02d", d.Month),
		PlaceholderYearInTwoDigits, shortYear,
		PlaceholderMonth, strconv.Itoa(d.Month),
		PlaceholderYear, year,
	)

	return r.Replace(template)
}

// tidy removes the separators left behind by dropped placeholders.
func tidy(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.Trim(s, " /-.,")
}

// FormatDateRange renders "START to END". A zero end renders start alone.
func (l Locale) FormatDateRange(start, end primitive.Date) string {
	switch {
	case start.IsZero():
		return l.FormatDate(end)
	case end.IsZero():
		return l.FormatDate(start)
	}

	return l.FormatDate(start) + " " + l.To + " " + l.FormatDate(end)
}

// TimeSpan renders the length of the start..end range, for example
// "2 years 3 months". When either side is year-only the result is counted in
// whole years. "present" resolves against today.
func (l Locale) TimeSpan(start, end primitive.Date, today time.Time) string {
	if start.IsZero() || end.IsZero() {
		return ""
	}

	from, to := start.Resolve(today), end.Resolve(today)

	if start.IsYearOnly() || end.IsYearOnly() {
		years := to.Year() - from.Year()
		if years < 1 {
			years = 1
		}

		return l.count(years, l.Year, l.Years)
	}

	days := int(to.Sub(from).Hours() / 24)
	if days < 0 {
		days = 0
	}

	years := days / 365
	months := (days%365 + 15) / 30

	if months >= 12 {
		years++
		months = 0
	}

	if years == 0 && months == 0 {
		months = 1
	}

	var parts []string
	if years > 0 {
		parts = append(parts, l.count(years, l.Year, l.Years))
	}

	if months > 0 {
		parts = append(parts, l.count(months, l.Month, l.Months))
	}

	return strings.Join(parts, " ")
}

func (l Locale) count(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}

	return strconv.Itoa(n) + " " + many
}

// Today renders today's date with the locale's date template.
func (l Locale) Today(today time.Time) string {
	return l.FormatDate(primitive.DateFromTime(today))
}

// LastUpdated fills the last_updated_date_template.
func (l Locale) LastUpdated(today time.Time) string {
	return strings.ReplaceAll(l.LastUpdatedDateTemplate, "TODAY", l.Today(today))
}

// PageNumbering fills NAME and TODAY in the page numbering template.
// PAGE_NUMBER and TOTAL_PAGES are left for the typesetter.
func (l Locale) PageNumbering(name string, today time.Time) string {
	r := strings.NewReplacer(
		"NAME", name,
		"TODAY", l.Today(today),
	)

	return r.Replace(l.PageNumberingTemplate)
}
