package model

import (
	"errors"
	"fmt"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"rendercv/internal/diagnostic"
	"rendercv/internal/primitive"
	"rendercv/internal/theme"
)

// FontsDir is the folder next to the input file that unlocks any font family.
const FontsDir = "fonts"

// Design is the resolved theme and its merged options.
type Design struct {
	Theme   *theme.Theme
	Options *theme.Options
}

// DefaultDesign returns the built-in default theme with its defaults.
func DefaultDesign() Design {
	t, _ := theme.Builtin(theme.DefaultTheme)
	return Design{Theme: t, Options: t.Defaults.Clone()}
}

func (b *binder) bindDesign(n *yaml.Node, path diagnostic.Path) Design {
	if isNull(n) {
		return DefaultDesign()
	}

	if !b.mapping(n, path) {
		return DefaultDesign()
	}

	name := theme.DefaultTheme
	options := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	for _, p := range pairs(n) {
		if p.key != "theme" {
			options.Content = append(options.Content, p.keyN, p.value)
			continue
		}

		if v, ok := b.str(p.value, path.Child("theme")); ok {
			name = v
		} else {
			return DefaultDesign()
		}
	}

	t, err := theme.Resolve(name, b.inputDir)
	if err != nil {
		at := path.Child("theme")

		switch {
		case errors.Is(err, theme.ErrUnknownTheme):
			b.diags.AddUnknown(at, diagnostic.KindValue,
				fmt.Sprintf("%q is neither a built-in theme nor a folder next to the input file.", name),
				name, theme.BuiltinNames())
		default:
			b.diags.AddCause(at, diagnostic.KindValue, err, name)
		}

		return DefaultDesign()
	}

	ctx := theme.CoerceContext{UserFonts: b.userFonts}

	return Design{Theme: t, Options: theme.Merge(t.Schema, t.Defaults, options, path, ctx, b.diags)}
}

func hasUserFonts(inputDir string) bool {
	return primitive.DirExists(filepath.Join(inputDir, FontsDir))
}
