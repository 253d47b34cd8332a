package theme

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"rendercv/internal/common"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// ErrThemeExists is returned by Scaffold when the target directory exists.
var ErrThemeExists = errors.New("theme directory already exists")

// Scaffold writes a custom theme skeleton called name into parent. The
// Typst templates are copied from the built-in set and theme.yaml bases the
// defaults on basedOn. It returns the created directory.
func Scaffold(parent, name, basedOn string) (string, error) {
	if !common.IsIdentifier(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	if basedOn == "" {
		basedOn = DefaultTheme
	}

	if _, ok := Builtin(basedOn); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTheme, basedOn)
	}

	dir := filepath.Join(parent, name)
	if _, err := os.Stat(dir); err == nil {
		return "", fmt.Errorf("%w: %s", ErrThemeExists, dir)
	}

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("creating theme directory: %w", err)
	}

	typst, _, _ := embeddedTemplates()

	for _, tmpl := range RequiredTemplates() {
		data, err := fs.ReadFile(typst, tmpl)
		if err != nil {
			return "", fmt.Errorf("reading template %s: %w", tmpl, err)
		}

		if err := os.WriteFile(filepath.Join(dir, tmpl), data, filePerm); err != nil {
			return "", fmt.Errorf("writing template %s: %w", tmpl, err)
		}
	}

	desc, err := scaffoldDescriptor(name, basedOn)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(filepath.Join(dir, DescriptorFile), desc, filePerm); err != nil {
		return "", fmt.Errorf("writing %s: %w", DescriptorFile, err)
	}

	return dir, nil
}

func scaffoldDescriptor(name, basedOn string) ([]byte, error) {
	doc := map[string]any{
		"name":        name,
		"description": "Custom theme based on " + basedOn + ".",
		"based_on":    basedOn,
		"options":     map[string]any{},
		"defaults":    map[string]any{},
	}

	var n yaml.Node
	if err := n.Encode(doc); err != nil {
		return nil, err
	}

	n.HeadComment = "Options declared under \"options\" extend the built-in option schema.\n" +
		"Values under \"defaults\" replace the defaults of the theme named in based_on."

	return yaml.Marshal(&n)
}
