package common

import (
	"strings"
	"unicode"
)

// UnknownStr is used when an enum value has no name.
const UnknownStr = "unknown"

// SnakeCase replaces every run of whitespace in s with a single underscore.
// "John Doe" becomes "John_Doe".
func SnakeCase(s string) string {
	return strings.Join(strings.Fields(s), "_")
}

// KebabCase lowercases s and joins its words with hyphens.
func KebabCase(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), "-"))
}

// IsIdentifier reports whether s is non-empty and made only of lowercase
// ASCII letters, digits and underscores.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}

		if !unicode.IsLower(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}

	return true
}
