package reader

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/yosuke-furukawa/json5/encoding/json5"
	"gopkg.in/yaml.v3"

	"rendercv/internal/diagnostic"
)

// Extensions lists the accepted input file extensions.
var Extensions = []string{".yaml", ".yml", ".json", ".json5"}

var extensionPattern = regexp.MustCompile(`^\.[A-Za-z0-9]{1,8}$`)

// Document is a parsed input.
type Document struct {
	// Root is the top-level mapping node.
	Root *yaml.Node
	// Source is the text the node positions refer to.
	Source []byte
	// Path is the absolute input path, empty for raw contents.
	Path string
}

// Dir returns the directory relative paths of the document resolve against.
func (d *Document) Dir() string {
	if d.Path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "."
		}

		return wd
	}

	return filepath.Dir(d.Path)
}

// Read loads input, which is either a path to a .yaml/.yml/.json/.json5
// file or the document contents themselves.
func Read(input string) (*Document, error) {
	if looksLikePath(input) {
		return ReadFile(input)
	}

	return Parse([]byte(input), "")
}

func looksLikePath(input string) bool {
	if strings.ContainsAny(input, "\n{}[]") {
		return false
	}

	if extensionPattern.MatchString(filepath.Ext(input)) {
		return true
	}

	info, err := os.Stat(input)

	return err == nil && !info.IsDir()
}

// ReadFile loads the document stored at path.
func ReadFile(path string) (*Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !slices.Contains(Extensions, ext) {
		return nil, diagnostic.NewUserError(fmt.Sprintf(
			"unsupported input extension %q for %s, expected one of %s",
			ext, path, strings.Join(Extensions, ", ")), nil)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, diagnostic.NewUserError("cannot resolve input path "+path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, diagnostic.NewUserError("input file not found: "+path, err)
		}

		return nil, diagnostic.NewUserError("cannot read input file "+path, err)
	}

	return Parse(data, abs)
}

// Parse builds a Document from source. path only selects the JSON5 handling
// and is recorded on the result.
func Parse(source []byte, path string) (*Document, error) {
	text := source

	if strings.EqualFold(filepath.Ext(path), ".json5") {
		var probe any
		if err := json5.Unmarshal(source, &probe); err != nil {
			return nil, diagnostic.NewUserError("invalid JSON5 in "+displayName(path), err)
		}

		text = BlankJSON5(source)
	}

	if len(bytes.TrimSpace(text)) == 0 {
		return nil, diagnostic.NewUserError(displayName(path)+" is empty", nil)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(text, &doc); err != nil {
		return nil, diagnostic.NewUserError("cannot parse "+displayName(path), err)
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || isNull(doc.Content[0]) {
		return nil, diagnostic.NewUserError(displayName(path)+" is empty", nil)
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, diagnostic.NewUserError(displayName(path)+" must contain a mapping at the top level", nil)
	}

	keepTimestampsAsStrings(root)

	return &Document{Root: root, Source: source, Path: path}, nil
}

func displayName(path string) string {
	if path == "" {
		return "the input"
	}

	return path
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

func keepTimestampsAsStrings(n *yaml.Node) {
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!timestamp" {
		n.Tag = "!!str"
	}

	for _, c := range n.Content {
		keepTimestampsAsStrings(c)
	}
}
