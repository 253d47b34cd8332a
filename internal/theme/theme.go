package theme

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"rendercv/internal/common"
	"rendercv/internal/diagnostic"
)

//go:embed schema/base.yaml themes/*.yaml templates
var files embed.FS

// DescriptorFile is the optional options file of a custom theme.
const DescriptorFile = "theme.yaml"

// DefaultTheme is used when a document does not select a theme.
const DefaultTheme = "classic"

var (
	ErrInvalidName       = errors.New("theme names may only contain lowercase letters, digits and underscores")
	ErrUnknownTheme      = errors.New("unknown theme")
	ErrMissingTemplates  = errors.New("custom theme is missing templates")
	ErrInvalidDescriptor = errors.New("invalid theme descriptor")
)

// Template names shared by every theme. Each format adds its own extension.
const (
	TemplatePreamble         = "Preamble"
	TemplateHeader           = "Header"
	TemplateSectionBeginning = "SectionBeginning"
	TemplateSectionEnding    = "SectionEnding"
)

// EntryTemplates names one template per entry kind.
var EntryTemplates = []string{
	"TextEntry",
	"OneLineEntry",
	"BulletEntry",
	"NumberedEntry",
	"ReversedNumberedEntry",
	"PublicationEntry",
	"EducationEntry",
	"ExperienceEntry",
	"NormalEntry",
}

// TypstExt and MarkdownExt are the template file extensions.
const (
	TypstExt    = ".j2.typ"
	MarkdownExt = ".j2.md"
	HTMLFile    = "Full.html"
)

// RequiredTemplates lists the Typst files a custom theme directory must
// contain.
func RequiredTemplates() []string {
	names := []string{TemplatePreamble, TemplateHeader, TemplateSectionBeginning, TemplateSectionEnding}
	names = append(names, EntryTemplates...)

	out := make([]string, len(names))
	for i, n := range names {
		out[i] = n + TypstExt
	}

	return out
}

// Theme is a resolved theme.
type Theme struct {
	Name        string
	Description string
	Builtin     bool
	// Dir is the directory of a custom theme.
	Dir      string
	Schema   *Schema
	Defaults *Options
	Typst    fs.FS
	Markdown fs.FS
	HTML     fs.FS
}

type descriptor struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	BasedOn     string    `yaml:"based_on"`
	Options     yaml.Node `yaml:"options"`
	Defaults    yaml.Node `yaml:"defaults"`
}

var (
	baseSchema = sync.OnceValue(func() *Schema {
		data, err := files.ReadFile("schema/base.yaml")
		if err != nil {
			panic(err)
		}

		var n yaml.Node
		if err := yaml.Unmarshal(data, &n); err != nil {
			panic(fmt.Errorf("base schema: %w", err))
		}

		s, err := ParseSchema(n.Content[0])
		if err != nil {
			panic(fmt.Errorf("base schema: %w", err))
		}

		return s
	})

	builtins = sync.OnceValue(func() map[string]*Theme {
		out, err := loadBuiltins()
		if err != nil {
			panic(err)
		}

		return out
	})
)

// BaseSchema returns the option schema shared by every theme.
func BaseSchema() *Schema {
	return baseSchema()
}

// BuiltinNames returns the names of the built-in themes in sorted order.
func BuiltinNames() []string {
	out := make([]string, 0, len(builtins()))
	for name := range builtins() {
		out = append(out, name)
	}

	slices.Sort(out)

	return out
}

// Builtin returns the built-in theme called name.
func Builtin(name string) (*Theme, bool) {
	t, ok := builtins()[name]
	return t, ok
}

func loadBuiltins() (map[string]*Theme, error) {
	paths, err := fs.Glob(files, "themes/*.yaml")
	if err != nil {
		return nil, err
	}

	typst, markdown, html := embeddedTemplates()
	out := make(map[string]*Theme, len(paths))

	for _, p := range paths {
		d, err := readDescriptor(files, p)
		if err != nil {
			return nil, err
		}

		defaults, err := applyDefaults(BaseSchema(), Defaults(BaseSchema()), &d.Defaults)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}

		out[d.Name] = &Theme{
			Name:        d.Name,
			Description: d.Description,
			Builtin:     true,
			Schema:      BaseSchema(),
			Defaults:    defaults,
			Typst:       typst,
			Markdown:    markdown,
			HTML:        html,
		}
	}

	return out, nil
}

func embeddedTemplates() (typst, markdown, html fs.FS) {
	sub := func(dir string) fs.FS {
		f, err := fs.Sub(files, "templates/"+dir)
		if err != nil {
			panic(err)
		}

		return f
	}

	return sub("typst"), sub("markdown"), sub("html")
}

func readDescriptor(fsys fs.FS, name string) (*descriptor, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}

	var d descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDescriptor, name, err)
	}

	return &d, nil
}

func applyDefaults(s *Schema, base *Options, n *yaml.Node) (*Options, error) {
	if n.Kind == 0 {
		return base.Clone(), nil
	}

	var diags diagnostic.Diagnostics

	out := Merge(s, base, n, diagnostic.Path{"defaults"}, CoerceContext{UserFonts: true}, &diags)
	if diags.HasErrors() {
		msgs := make([]string, len(diags.Errors))
		for i, f := range diags.Errors {
			msgs[i] = f.String()
		}

		return nil, fmt.Errorf("%w: %s", ErrInvalidDescriptor, strings.Join(msgs, "; "))
	}

	return out, nil
}

// Resolve returns the built-in theme called name or loads the custom theme
// stored in inputDir/name.
func Resolve(name, inputDir string) (*Theme, error) {
	if !common.IsIdentifier(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	if t, ok := Builtin(name); ok {
		return t, nil
	}

	return LoadCustom(name, filepath.Join(inputDir, name))
}

// LoadCustom loads the custom theme stored in dir.
func LoadCustom(name, dir string) (*Theme, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %q is not a built-in theme and %s is not a directory", ErrUnknownTheme, name, dir)
	}

	fsys := os.DirFS(dir)

	var missing []string

	for _, tmpl := range RequiredTemplates() {
		if _, err := fs.Stat(fsys, tmpl); err != nil {
			missing = append(missing, tmpl)
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s lacks %s", ErrMissingTemplates, dir, strings.Join(missing, ", "))
	}

	d := &descriptor{}
	if _, err := fs.Stat(fsys, DescriptorFile); err == nil {
		d, err = readDescriptor(fsys, DescriptorFile)
		if err != nil {
			return nil, err
		}
	}

	basedOn := d.BasedOn
	if basedOn == "" {
		basedOn = DefaultTheme
	}

	parent, ok := Builtin(basedOn)
	if !ok {
		return nil, fmt.Errorf("%w: based_on names unknown theme %q", ErrInvalidDescriptor, basedOn)
	}

	schema := parent.Schema
	defaults := parent.Defaults.Clone()

	if d.Options.Kind != 0 && d.Options.ShortTag() != "!!null" {
		extra, err := ParseSchema(&d.Options)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDescriptor, DescriptorFile, err)
		}

		schema = schema.Extend(extra)
		defaults = overlay(Defaults(schema), defaults)
	}

	defaults, err = applyDefaults(schema, defaults, &d.Defaults)
	if err != nil {
		return nil, err
	}

	_, markdown, html := embeddedTemplates()

	return &Theme{
		Name:        name,
		Description: d.Description,
		Dir:         dir,
		Schema:      schema,
		Defaults:    defaults,
		Typst:       fsys,
		Markdown:    markdown,
		HTML:        html,
	}, nil
}

// overlay copies the values of src into dst where both trees agree on the
// shape and returns dst.
func overlay(dst, src *Options) *Options {
	for _, k := range src.keys {
		sv := src.values[k]
		dv, ok := dst.values[k]

		if !ok {
			continue
		}

		if sub, ok := dv.(*Options); ok {
			if ssub, ok := sv.(*Options); ok {
				overlay(sub, ssub)
			}

			continue
		}

		if _, isGroup := sv.(*Options); !isGroup {
			dst.values[k] = cloneValue(sv)
		}
	}

	return dst
}
