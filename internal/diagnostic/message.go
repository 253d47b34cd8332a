package diagnostic

import (
	"errors"
	"strings"

	"rendercv/internal/primitive"
)

// Rewrite turns a failure into the message shown to the user. Validator
// errors for primitives get a message that lists the accepted formats.
func Rewrite(f Failure) string {
	msg := f.Message

	switch {
	case errors.Is(f.Err, primitive.ErrPresentNotAllowed):
		msg = `"present" is only allowed in end_date.`
	case errors.Is(f.Err, primitive.ErrInvalidDate):
		if f.Path.Field() == "end_date" {
			msg = `This is not a valid end_date! Please use either YYYY-MM-DD, YYYY-MM, or YYYY format or "present"!`
		} else {
			msg = "This is not a valid date! Please use either YYYY-MM-DD, YYYY-MM, or YYYY format!"
		}
	case errors.Is(f.Err, primitive.ErrInvalidDimension):
		msg = "This is not a valid dimension! Use a number followed by one of cm, in, pt, mm, ex, em (for example 0.7cm)."
	case errors.Is(f.Err, primitive.ErrInvalidColor):
		msg = "This is not a valid color! Use a hex code, rgb(...), hsl(...) or a CSS color name."
	case errors.Is(f.Err, primitive.ErrUnknownFont):
		msg = strings.TrimSuffix(msg, ".") + ". Put the font files in a fonts folder next to the input file to use any other font."
	}

	if len(f.Suggestions) > 0 {
		msg = strings.TrimRight(msg, " ") + " Did you mean " + quoteJoin(f.Suggestions) + "?"
	}

	return msg
}
