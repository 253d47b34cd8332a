package common

// IsEmpty returns true if the slice is empty.
func IsEmpty[S ~[]E, E any](s S) bool {
	return len(s) == 0
}

// First returns the first element of the slice and true, or the zero value and false if empty.
func First[S ~[]E, E any](s S) (E, bool) {
	if len(s) == 0 {
		var zero E
		return zero, false
	}

	return s[0], true
}

// Dedupe returns a copy of s without repeated elements.
// The first occurrence of every element keeps its position.
func Dedupe[S ~[]E, E comparable](s S) S {
	if s == nil {
		return nil
	}

	seen := make(map[E]struct{}, len(s))
	out := make(S, 0, len(s))

	for _, v := range s {
		if _, ok := seen[v]; ok {
			continue
		}

		seen[v] = struct{}{}
		out = append(out, v)
	}

	return out
}

// Intersects returns true if a and b share at least one element.
func Intersects[S ~[]E, E comparable](a, b S) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}

	set := make(map[E]struct{}, len(b))
	for _, v := range b {
		set[v] = struct{}{}
	}

	for _, v := range a {
		if _, ok := set[v]; ok {
			return true
		}
	}

	return false
}

// Clone returns a shallow copy of s that preserves nil.
func Clone[S ~[]E, E any](s S) S {
	if s == nil {
		return nil
	}

	return append(S(nil), s...)
}
