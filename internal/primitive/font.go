package primitive

import (
	"fmt"
	"slices"
	"strings"
)

// FontFamilies is the allowlist used when no fonts/ directory sits next to
// the input file.
var FontFamilies = []string{
	"Arial",
	"Charter",
	"Computer Modern",
	"DejaVu Sans",
	"DejaVu Sans Mono",
	"EB Garamond",
	"Fira Mono",
	"Fira Sans",
	"Fontin",
	"Gentium Book Plus",
	"Georgia",
	"Helvetica",
	"Inter",
	"Lato",
	"Latin Modern Roman",
	"Liberation Sans",
	"Liberation Serif",
	"Libertinus Serif",
	"Mukta",
	"New Computer Modern",
	"Noto Sans",
	"Noto Serif",
	"Open Sans",
	"Open Sauce Sans",
	"Poppins",
	"Raleway",
	"Roboto",
	"Source Sans 3",
	"Source Sans Pro",
	"Source Serif 4",
	"Times New Roman",
	"Ubuntu",
	"XCharter",
}

// ValidateFontFamily accepts any non-empty name when userFonts is true
// (a fonts/ directory exists next to the input file); otherwise the name must
// be in FontFamilies.
func ValidateFontFamily(name string, userFonts bool) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%w: empty name", ErrUnknownFont)
	}

	if userFonts || slices.Contains(FontFamilies, name) {
		return name, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownFont, name)
}
