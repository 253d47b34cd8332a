package primitive

import (
	"fmt"
	"strings"

	"github.com/mazznoer/csscolorparser"
)

// Color is an opaque RGB color.
type Color struct {
	R, G, B uint8
}

// ParseColor accepts hex notation, rgb(), hsl() and CSS color names.
func ParseColor(s string) (Color, error) {
	if strings.TrimSpace(s) == "" {
		return Color{}, fmt.Errorf("%w: empty string", ErrInvalidColor)
	}

	c, err := csscolorparser.Parse(s)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	r, g, b, _ := c.RGBA255()

	return Color{R: r, G: g, B: b}, nil
}

// String returns the canonical rgb(r, g, b) notation, which is also valid
// Typst syntax.
func (c Color) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// Hex returns the #rrggbb notation.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
