package markup

import (
	"cmp"
	"regexp"
	"slices"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// protected matches Markdown spans the bold pass must not touch: link
// destinations, code spans and text that is already bold.
var protected = regexp.MustCompile("\\]\\([^)]*\\)|`[^`]*`|\\*\\*[^*]+\\*\\*")

var keywordPatterns sync.Map // string -> *keywordSet

// keywordSet finds keyword candidates with one alternation and then tries
// the keywords longest first at each candidate offset.
type keywordSet struct {
	re    *regexp.Regexp
	words []string
}

// keywordPattern returns the cached keywordSet for keywords.
func keywordPattern(keywords []string) *keywordSet {
	sorted := slices.Clone(keywords)
	sorted = slices.DeleteFunc(sorted, func(s string) bool { return s == "" })
	slices.SortStableFunc(sorted, func(a, b string) int {
		return cmp.Compare(len(b), len(a))
	})

	if len(sorted) == 0 {
		return nil
	}

	key := strings.Join(sorted, "\x00")
	if set, ok := keywordPatterns.Load(key); ok {
		return set.(*keywordSet)
	}

	quoted := make([]string, len(sorted))
	for i, k := range sorted {
		quoted[i] = regexp.QuoteMeta(k)
	}

	set := &keywordSet{re: regexp.MustCompile(strings.Join(quoted, "|")), words: sorted}
	keywordPatterns.Store(key, set)

	return set
}

// matchAt returns the end of the longest keyword that starts at start,
// stands as a whole word and lies outside skip, or -1.
func (k *keywordSet) matchAt(s string, start int, skip [][]int) int {
	for _, w := range k.words {
		if !strings.HasPrefix(s[start:], w) {
			continue
		}

		end := start + len(w)
		if isWordEdge(s, start, end) && !inside(skip, start, end) {
			return end
		}
	}

	return -1
}

// Bold wraps every whole-word, case-sensitive occurrence of a keyword in s
// with ** markers. Text outside the matches is left untouched.
func Bold(s string, keywords []string) string {
	set := keywordPattern(keywords)
	if set == nil || s == "" {
		return s
	}

	skip := protected.FindAllStringIndex(s, -1)

	var b strings.Builder

	last, pos := 0, 0

	for pos < len(s) {
		loc := set.re.FindStringIndex(s[pos:])
		if loc == nil {
			break
		}

		start := pos + loc[0]

		end := set.matchAt(s, start, skip)
		if end < 0 {
			_, size := utf8.DecodeRuneInString(s[start:])
			pos = start + size

			continue
		}

		b.WriteString(s[last:start])
		b.WriteString("**")
		b.WriteString(s[start:end])
		b.WriteString("**")

		last, pos = end, end
	}

	if last == 0 {
		return s
	}

	b.WriteString(s[last:])

	return b.String()
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// isWordEdge reports whether s[start:end] is not glued to surrounding word
// characters.
func isWordEdge(s string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		first, _ := utf8.DecodeRuneInString(s[start:])

		if isWordRune(r) && isWordRune(first) {
			return false
		}
	}

	if end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		lastRune, _ := utf8.DecodeLastRuneInString(s[:end])

		if isWordRune(r) && isWordRune(lastRune) {
			return false
		}
	}

	return true
}

func inside(spans [][]int, start, end int) bool {
	for _, sp := range spans {
		if start < sp[1] && end > sp[0] {
			return true
		}
	}

	return false
}
