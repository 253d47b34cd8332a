package primitive

import "errors"

var (
	// ErrInvalidDate is returned for dates that are not YYYY, YYYY-MM, YYYY-MM-DD or "present".
	ErrInvalidDate = errors.New("invalid date")
	// ErrPresentNotAllowed is returned when "present" is used where only a fixed date fits.
	ErrPresentNotAllowed = errors.New("present is not allowed here")
	// ErrInvalidDimension is returned for malformed typographic dimensions.
	ErrInvalidDimension = errors.New("invalid dimension")
	// ErrInvalidColor is returned for strings that are not CSS colors.
	ErrInvalidColor = errors.New("invalid color")
	// ErrUnknownFont is returned for font families outside the allowlist.
	ErrUnknownFont = errors.New("unknown font family")
	// ErrPathNotFound is returned when an existing path is required but missing.
	ErrPathNotFound = errors.New("path does not exist")
	// ErrNotAFile is returned when an existing path points at a directory.
	ErrNotAFile = errors.New("path is not a file")
	// ErrEmptyPath is returned for empty path strings.
	ErrEmptyPath = errors.New("empty path")
)
