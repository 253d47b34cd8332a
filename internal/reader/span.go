package reader

import (
	"bytes"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"rendercv/internal/diagnostic"
)

// Lookup walks path from the root and returns the node that represents the
// last segment: the key node for a mapping segment and the item node for a
// sequence index. It reports false when a segment does not exist.
func (d *Document) Lookup(path []string) (*yaml.Node, bool) {
	located := d.Root
	current := d.Root

	for _, seg := range path {
		current = deref(current)

		switch current.Kind {
		case yaml.MappingNode:
			key, value := findKey(current, seg)
			if key == nil {
				return nil, false
			}

			located, current = key, value

		case yaml.SequenceNode:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(current.Content) {
				return nil, false
			}

			located = current.Content[idx]
			current = located

		default:
			return nil, false
		}
	}

	return located, true
}

// Locate implements diagnostic.Locator.
func (d *Document) Locate(path []string) (diagnostic.Span, bool) {
	n, ok := d.Lookup(path)
	if !ok {
		return diagnostic.Span{}, false
	}

	return d.Span(n), true
}

func findKey(m *yaml.Node, key string) (*yaml.Node, *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i], m.Content[i+1]
		}
	}

	return nil, nil
}

func deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}

	return n
}

// Span returns the 1-based start and end coordinates of n. The end column
// points one past the last character.
func (d *Document) Span(n *yaml.Node) diagnostic.Span {
	start := diagnostic.Position{Line: n.Line, Column: n.Column}

	return diagnostic.Span{Start: start, End: d.end(n)}
}

func (d *Document) end(n *yaml.Node) diagnostic.Position {
	switch n.Kind {
	case yaml.ScalarNode:
		return d.scalarEnd(n)
	case yaml.MappingNode, yaml.SequenceNode, yaml.DocumentNode:
		if len(n.Content) == 0 {
			return diagnostic.Position{Line: n.Line, Column: n.Column + 2}
		}

		end := d.end(n.Content[len(n.Content)-1])
		if n.Style&yaml.FlowStyle != 0 {
			end.Column++
		}

		return end
	default:
		return diagnostic.Position{Line: n.Line, Column: n.Column + utf8.RuneCountInString(n.Value)}
	}
}

func (d *Document) scalarEnd(n *yaml.Node) diagnostic.Position {
	line := d.line(n.Line)
	runes := []rune(line)
	from := n.Column - 1

	if from < 0 || from > len(runes) {
		return diagnostic.Position{Line: n.Line, Column: n.Column + utf8.RuneCountInString(n.Value)}
	}

	switch {
	case n.Style&yaml.DoubleQuotedStyle != 0:
		for i := from + 1; i < len(runes); i++ {
			switch runes[i] {
			case '\\':
				i++
			case '"':
				return diagnostic.Position{Line: n.Line, Column: i + 2}
			}
		}
	case n.Style&yaml.SingleQuotedStyle != 0:
		for i := from + 1; i < len(runes); i++ {
			if runes[i] != '\'' {
				continue
			}

			if i+1 < len(runes) && runes[i+1] == '\'' {
				i++
				continue
			}

			return diagnostic.Position{Line: n.Line, Column: i + 2}
		}
	case n.Style&(yaml.LiteralStyle|yaml.FoldedStyle) != 0:
		lines := strings.Split(strings.TrimRight(n.Value, "\n"), "\n")
		last := d.line(n.Line + len(lines))

		return diagnostic.Position{Line: n.Line + len(lines), Column: utf8.RuneCountInString(strings.TrimRight(last, " \t\r")) + 1}
	}

	width := utf8.RuneCountInString(n.Value)
	if width == 0 || !strings.HasPrefix(string(runes[from:]), n.Value) {
		width = plainWidth(runes[from:])
	}

	return diagnostic.Position{Line: n.Line, Column: n.Column + width}
}

// plainWidth measures a plain scalar that the parser normalized, for
// example a multi-word value followed by a comment.
func plainWidth(rs []rune) int {
	for i, r := range rs {
		if r == '#' && i > 0 && (rs[i-1] == ' ' || rs[i-1] == '\t') {
			return utf8.RuneCountInString(strings.TrimRight(string(rs[:i]), " \t"))
		}

		if r == ',' || r == '}' || r == ']' {
			return utf8.RuneCountInString(strings.TrimRight(string(rs[:i]), " \t"))
		}
	}

	return utf8.RuneCountInString(strings.TrimRight(string(rs), " \t\r"))
}

func (d *Document) line(n int) string {
	if n < 1 {
		return ""
	}

	rest := d.Source
	for i := 1; i < n; i++ {
		idx := bytes.IndexByte(rest, '\n')
		if idx < 0 {
			return ""
		}

		rest = rest[idx+1:]
	}

	if idx := bytes.IndexByte(rest, '\n'); idx >= 0 {
		rest = rest[:idx]
	}

	return string(rest)
}
