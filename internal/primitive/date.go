package primitive

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// PresentLiteral is the value that marks an ongoing date range.
const PresentLiteral = "present"

// Precision tells which parts of a Date were given.
type Precision int

const (
	_ Precision = iota

	PrecisionYear
	PrecisionMonth
	PrecisionDay
)

var (
	yearPattern  = regexp.MustCompile(`^\d{4}$`)
	monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)
	dayPattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Date is a possibly partial calendar date, or the literal "present".
// The zero value means "no date".
type Date struct {
	Year      int
	Month     int
	Day       int
	Precision Precision
	Present   bool
}

// Present returns the "present" date.
func Present() Date {
	return Date{Present: true}
}

// ParseDate validates raw and returns the normalized Date.
// raw may be an int year or a string in YYYY, YYYY-MM or YYYY-MM-DD form.
// The literal "present" is accepted only when allowPresent is true.
func ParseDate(raw any, allowPresent bool) (Date, error) {
	switch v := raw.(type) {
	case int:
		return yearDate(v, strconv.Itoa(v))
	case int64:
		return yearDate(int(v), strconv.FormatInt(v, 10))
	case string:
		return parseDateString(strings.TrimSpace(v), allowPresent)
	default:
		return Date{}, fmt.Errorf("%w: unsupported value %v", ErrInvalidDate, raw)
	}
}

func yearDate(year int, input string) (Date, error) {
	if year < 1 || year > 9999 {
		return Date{}, fmt.Errorf("%w: year %q is out of range", ErrInvalidDate, input)
	}

	return Date{Year: year, Precision: PrecisionYear}, nil
}

func parseDateString(s string, allowPresent bool) (Date, error) {
	if s == PresentLiteral {
		if !allowPresent {
			return Date{}, ErrPresentNotAllowed
		}

		return Present(), nil
	}

	switch {
	case yearPattern.MatchString(s):
		year, _ := strconv.Atoi(s)
		return yearDate(year, s)

	case monthPattern.MatchString(s):
		t, err := time.Parse("2006-01", s)
		if err != nil {
			return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
		}

		return Date{Year: t.Year(), Month: int(t.Month()), Precision: PrecisionMonth}, nil

	case dayPattern.MatchString(s):
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
		}

		return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day(), Precision: PrecisionDay}, nil
	}

	return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// DateFromTime returns a day-precision Date.
func DateFromTime(t time.Time) Date {
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day(), Precision: PrecisionDay}
}

// IsZero reports whether d holds no date.
func (d Date) IsZero() bool {
	return !d.Present && d.Precision == 0
}

// IsYearOnly reports whether only the year is known.
func (d Date) IsYearOnly() bool {
	return !d.Present && d.Precision == PrecisionYear
}

// String returns the canonical form of d.
func (d Date) String() string {
	switch {
	case d.Present:
		return PresentLiteral
	case d.Precision == PrecisionYear:
		return fmt.Sprintf("%04d", d.Year)
	case d.Precision == PrecisionMonth:
		return fmt.Sprintf("%04d-%02d", d.Year, d.Month)
	case d.Precision == PrecisionDay:
		return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
	default:
		return ""
	}
}

// Resolve turns d into a point in time. Missing month and day default to 1;
// "present" resolves to the calendar day of today.
func (d Date) Resolve(today time.Time) time.Time {
	if d.Present {
		return time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	}

	month, day := d.Month, d.Day
	if month == 0 {
		month = 1
	}

	if day == 0 {
		day = 1
	}

	return time.Date(d.Year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// Compare orders a and b after resolving them against today.
func Compare(a, b Date, today time.Time) int {
	return a.Resolve(today).Compare(b.Resolve(today))
}
