// Package scaffold writes sample input files for the new command.
package scaffold

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"rendercv/internal/common"
	"rendercv/internal/diagnostic"
	"rendercv/internal/theme"
)

//go:embed sample/cv.yaml
var sample []byte

var ErrEmptyName = errors.New("the sample needs a name")

// FileName returns the conventional input file name for a CV of name,
// e.g. "John_Doe_CV.yaml".
func FileName(name string) string {
	return common.SnakeCase(name) + "_CV.yaml"
}

// Sample returns the sample document personalized with name, theme and
// language. Empty themeName and language keep the sample's values.
func Sample(name, themeName, language string) ([]byte, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}

	if themeName != "" {
		if _, ok := theme.Builtin(themeName); !ok {
			msg := fmt.Sprintf("unknown theme %q", themeName)
			if s := diagnostic.Suggest(themeName, theme.BuiltinNames()); len(s) > 0 {
				msg += fmt.Sprintf(", did you mean %q?", s[0])
			}

			return nil, diagnostic.NewUserError(msg, theme.ErrUnknownTheme)
		}
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(sample, &doc); err != nil {
		return nil, diagnostic.NewInternalError("parse embedded sample", err)
	}

	root := doc.Content[0]
	set(root, name, "cv", "name")

	if themeName != "" {
		set(root, themeName, "design", "theme")
	}

	if language != "" {
		set(root, strings.ToLower(language), "locale", "language")
	}

	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(&doc); err != nil {
		return nil, diagnostic.NewInternalError("encode sample", err)
	}

	if err := enc.Close(); err != nil {
		return nil, diagnostic.NewInternalError("encode sample", err)
	}

	return buf.Bytes(), nil
}

// set replaces the scalar at path, creating mappings on the way.
func set(n *yaml.Node, value string, path ...string) {
	for i, key := range path {
		var child *yaml.Node

		for j := 0; j+1 < len(n.Content); j += 2 {
			if n.Content[j].Value == key {
				child = n.Content[j+1]
				break
			}
		}

		last := i == len(path)-1

		if child == nil {
			child = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			if last {
				child = &yaml.Node{}
			}

			n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, child)
		}

		if last {
			child.Kind, child.Tag, child.Value, child.Style = yaml.ScalarNode, "!!str", value, 0
			child.Content = nil

			return
		}

		n = child
	}
}
