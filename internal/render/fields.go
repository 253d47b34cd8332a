package render

import (
	"regexp"
	"strings"
)

var (
	tokenPattern = regexp.MustCompile(`\b[A-Z][A-Z0-9_]*[A-Z0-9]\b`)
	emptyMarkup  = regexp.MustCompile(`\*\*\*\*|\([ \t]*\)|\[[ \t]*\]`)
	leadingSep   = regexp.MustCompile(`^([ \t]*(,|;|\||–|—|--|/)[ \t]*)+`)
	trailingSep  = regexp.MustCompile(`([ \t]*(,|;|\||–|—|--|/)[ \t]*)+$`)
	doubledComma = regexp.MustCompile(`,([ \t]*,)+`)
)

// fill substitutes tokens in every line of template and returns the lines
// that still carry content. Tokens missing from values are kept.
func fill(template string, values map[string]string) []string {
	var out []string

	for _, line := range strings.Split(template, "\n") {
		substituted := false

		filled := tokenPattern.ReplaceAllStringFunc(line, func(tok string) string {
			v, ok := values[tok]
			if !ok {
				return tok
			}

			substituted = true

			return v
		})

		if substituted {
			filled = tidy(filled)
		}

		if strings.TrimSpace(filled) == "" {
			continue
		}

		out = append(out, filled)
	}

	return out
}

// tidy removes markup left empty by substitution and separators that no
// longer separate anything.
func tidy(s string) string {
	for {
		t := emptyMarkup.ReplaceAllString(s, "")
		if t == s {
			break
		}

		s = t
	}

	s = doubledComma.ReplaceAllString(s, ",")
	s = leadingSep.ReplaceAllString(s, "")
	s = trailingSep.ReplaceAllString(s, "")

	return strings.TrimSpace(s)
}
