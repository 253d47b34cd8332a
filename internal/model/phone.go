package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"rendercv/internal/locale"
)

var ErrInvalidPhone = errors.New("invalid phone number")

// ParsePhone validates an international phone number and returns it in
// E.164 form.
func ParsePhone(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "+") {
		return "", fmt.Errorf("%w: %q must start with + and the country code, for example +1 609 999 9995", ErrInvalidPhone, raw)
	}

	num, err := phonenumbers.Parse(s, "")
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrInvalidPhone, raw, err)
	}

	if !phonenumbers.IsPossibleNumber(num) {
		return "", fmt.Errorf("%w: %q has the wrong number of digits", ErrInvalidPhone, raw)
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// FormatPhone prints an E.164 number in the given style. Numbers that
// cannot be parsed are returned unchanged.
func FormatPhone(e164 string, format locale.PhoneFormat) string {
	num, err := phonenumbers.Parse(e164, "")
	if err != nil {
		return e164
	}

	switch format {
	case locale.PhoneNational:
		return phonenumbers.Format(num, phonenumbers.NATIONAL)
	case locale.PhoneInternational:
		return phonenumbers.Format(num, phonenumbers.INTERNATIONAL)
	default:
		return phonenumbers.Format(num, phonenumbers.E164)
	}
}
