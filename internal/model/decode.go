package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"rendercv/internal/diagnostic"
	"rendercv/internal/primitive"
)

// binder carries the state shared by every bind function of one Build call.
type binder struct {
	diags     *diagnostic.Diagnostics
	today     time.Time
	inputDir  string
	userFonts bool
}

type pair struct {
	key   string
	keyN  *yaml.Node
	value *yaml.Node
}

// pairs returns the key/value pairs of a mapping with aliases resolved.
func pairs(n *yaml.Node) []pair {
	n = deref(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}

	out := make([]pair, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		out = append(out, pair{key: n.Content[i].Value, keyN: n.Content[i], value: deref(n.Content[i+1])})
	}

	return out
}

func deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}

	return n
}

func isNull(n *yaml.Node) bool {
	n = deref(n)
	return n == nil || (n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null")
}

func hasKey(n *yaml.Node, key string) bool {
	for _, p := range pairs(n) {
		if p.key == key {
			return true
		}
	}

	return false
}

// inputOf renders n the way the user wrote it, for error records.
func inputOf(n *yaml.Node) string {
	n = deref(n)
	if n == nil {
		return ""
	}

	if n.Kind == yaml.ScalarNode {
		return n.Value
	}

	out, err := yaml.Marshal(n)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(out))
}

// mapping reports a type failure unless n is a mapping.
func (b *binder) mapping(n *yaml.Node, path diagnostic.Path) bool {
	if deref(n) != nil && deref(n).Kind == yaml.MappingNode {
		return true
	}

	b.diags.AddError(path, diagnostic.KindType, "Expected a mapping.", inputOf(n))

	return false
}

// str reads a scalar as text. Numbers and booleans keep their literal form.
func (b *binder) str(n *yaml.Node, path diagnostic.Path) (string, bool) {
	n = deref(n)
	if n == nil || n.Kind != yaml.ScalarNode || n.ShortTag() == "!!null" {
		b.diags.AddError(path, diagnostic.KindType, "Expected a string.", inputOf(n))
		return "", false
	}

	return n.Value, true
}

func (b *binder) boolean(n *yaml.Node, path diagnostic.Path) (bool, bool) {
	n = deref(n)
	if n != nil && n.Kind == yaml.ScalarNode && n.ShortTag() == "!!bool" {
		var v bool
		if err := n.Decode(&v); err == nil {
			return v, true
		}
	}

	b.diags.AddError(path, diagnostic.KindType, "Expected true or false.", inputOf(n))

	return false, false
}

// strList reads a sequence of scalars. Items that are not scalars are
// reported one by one.
func (b *binder) strList(n *yaml.Node, path diagnostic.Path) ([]string, bool) {
	n = deref(n)
	if n == nil || n.Kind != yaml.SequenceNode {
		b.diags.AddError(path, diagnostic.KindType, "Expected a list of strings.", inputOf(n))
		return nil, false
	}

	out := make([]string, 0, len(n.Content))
	ok := true

	for i, item := range n.Content {
		s, good := b.str(item, path.Index(i))
		if !good {
			ok = false
			continue
		}

		out = append(out, s)
	}

	return out, ok
}

// date reads an int year or a date string.
func (b *binder) date(n *yaml.Node, path diagnostic.Path, allowPresent bool) (primitive.Date, bool) {
	raw, err := dateInput(n)
	if err == nil {
		var d primitive.Date
		if d, err = primitive.ParseDate(raw, allowPresent); err == nil {
			return d, true
		}
	}

	b.diags.AddCause(path, diagnostic.KindValue, err, inputOf(n))

	return primitive.Date{}, false
}

func dateInput(n *yaml.Node) (any, error) {
	n = deref(n)
	if n == nil || n.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("%w: expected a scalar", primitive.ErrInvalidDate)
	}

	if n.ShortTag() == "!!int" {
		v, err := strconv.Atoi(n.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", primitive.ErrInvalidDate, n.Value)
		}

		return v, nil
	}

	return n.Value, nil
}

// unknown reports a key that the enclosing mapping does not accept.
func (b *binder) unknown(p pair, path diagnostic.Path, candidates []string) {
	b.diags.AddUnknown(path.Child(p.key), diagnostic.KindUnknownKey,
		fmt.Sprintf("Unknown field %q.", p.key), p.key, candidates)
}
