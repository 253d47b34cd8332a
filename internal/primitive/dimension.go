package primitive

import (
	"fmt"
	"regexp"
)

// DimensionPattern is the accepted syntax of dimensions.
const DimensionPattern = `^\d+\.?\d*(cm|in|pt|mm|ex|em)$`

var dimensionPattern = regexp.MustCompile(DimensionPattern)

// Dimension is a typographic length such as "0.7in" or "10pt".
type Dimension string

// ParseDimension validates s. Negative values, spaces and units other than
// cm, in, pt, mm, ex and em are rejected.
func ParseDimension(s string) (Dimension, error) {
	if !dimensionPattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidDimension, s)
	}

	return Dimension(s), nil
}

func (d Dimension) String() string {
	return string(d)
}
