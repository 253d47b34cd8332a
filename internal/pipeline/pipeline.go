package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"rendercv/internal/diagnostic"
	"rendercv/internal/model"
	"rendercv/internal/reader"
	"rendercv/internal/render"
)

// Overrides replace settings keys of the document before validation, e.g.
// {"output_folder": "out", "dont_generate_png": true}.
type Overrides map[string]any

// Request describes one run.
type Request struct {
	// Input is a file path or the document contents.
	Input     string
	Overrides Overrides
	// Versions are the version names to render. With none and AllVersions
	// unset, the unfiltered document is rendered.
	Versions    []string
	AllVersions bool
	// Today replaces the clock; zero means time.Now().
	Today time.Time
}

// Artifact is a file written by a run.
type Artifact struct {
	Kind    ArtifactKind
	Path    string
	Version string
}

// Result lists the artifacts of a run in the order they were written.
type Result struct {
	RunID     string
	Artifacts []Artifact
	Warnings  []diagnostic.Failure
}

// Paths returns the paths of the artifacts of kind k.
func (r *Result) Paths(k ArtifactKind) []string {
	var out []string

	for _, a := range r.Artifacts {
		if a.Kind == k {
			out = append(out, a.Path)
		}
	}

	return out
}

// Pipeline renders documents.
type Pipeline struct {
	log      zerolog.Logger
	compiler Compiler
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger of the stages.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// WithCompiler replaces the Typst compiler.
func WithCompiler(c Compiler) Option {
	return func(p *Pipeline) { p.compiler = c }
}

// New returns a Pipeline that logs nothing and compiles with the typst
// binary on PATH.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{log: zerolog.Nop(), compiler: TypstCompiler{}}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Validate reads and validates the input of req without writing anything.
func (p *Pipeline) Validate(ctx context.Context, req Request) (*model.RenderCV, error) {
	log := p.log.With().Str("run_id", uuid.NewString()).Logger()

	_, root, err := p.load(ctx, req, log)

	return root, err
}

func (p *Pipeline) load(ctx context.Context, req Request, log zerolog.Logger) (*reader.Document, *model.RenderCV, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	doc, err := reader.Read(req.Input)
	if err != nil {
		return nil, nil, err
	}

	log.Debug().Str("stage", "read").Str("input", doc.Path).Msg("input read")

	if err := applyOverrides(doc, req.Overrides); err != nil {
		return nil, nil, err
	}

	root, err := model.Build(doc, model.Context{InputPath: doc.Path, Today: req.Today})
	if err != nil {
		log.Debug().Str("stage", "validate").Err(err).Msg("validation failed")
		return nil, nil, err
	}

	for _, w := range root.Warnings {
		log.Warn().Str("stage", "validate").Str("location", w.Path.String()).Msg(w.Message)
	}

	log.Debug().Str("stage", "validate").Int("sections", len(root.CV.Sections)).Msg("input valid")

	return doc, root, nil
}

// Render runs req end to end.
func (p *Pipeline) Render(ctx context.Context, req Request) (*Result, error) {
	res := &Result{RunID: uuid.NewString()}
	log := p.log.With().Str("run_id", res.RunID).Logger()

	_, root, err := p.load(ctx, req, log)
	if err != nil {
		return nil, err
	}

	res.Warnings = root.Warnings

	names, err := versionNames(root, req)
	if err != nil {
		return nil, err
	}

	r, err := render.New(root.Design.Theme)
	if err != nil {
		return nil, err
	}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		v, err := root.ForVersion(name)
		if err != nil {
			return nil, err
		}

		if err := p.renderVersion(ctx, r, v, res, log.With().Str("version", name).Logger()); err != nil {
			return nil, err
		}
	}

	return res, nil
}

func versionNames(root *model.RenderCV, req Request) ([]string, error) {
	if req.AllVersions {
		if len(root.Versions) == 0 {
			return []string{""}, nil
		}

		names := make([]string, len(root.Versions))
		for i, v := range root.Versions {
			names[i] = v.Name
		}

		return names, nil
	}

	if len(req.Versions) == 0 {
		return []string{""}, nil
	}

	for _, name := range req.Versions {
		if _, ok := root.FindVersion(name); !ok {
			known := make([]string, len(root.Versions))
			for i, v := range root.Versions {
				known[i] = v.Name
			}

			msg := fmt.Sprintf("unknown version %q", name)
			if s := diagnostic.Suggest(name, known); len(s) > 0 {
				msg += fmt.Sprintf(", did you mean %q?", s[0])
			}

			return nil, diagnostic.NewUserError(msg, nil)
		}
	}

	return slices.Compact(slices.Clone(req.Versions)), nil
}

func (p *Pipeline) renderVersion(ctx context.Context, r *render.Renderer, root *model.RenderCV, res *Result, log zerolog.Logger) error {
	paths, err := ResolvePaths(root, root.Version)
	if err != nil {
		return err
	}

	s := root.Settings

	add := func(kind ArtifactKind, path string) {
		res.Artifacts = append(res.Artifacts, Artifact{Kind: kind, Path: path, Version: root.Version})
		log.Info().Str("stage", "write").Str("artifact", string(kind)).Str("path", path).Msg("artifact written")
	}

	typst, err := r.Typst(root)
	if err != nil {
		return err
	}

	log.Debug().Str("stage", "render").Int("bytes", len(typst)).Msg("typst rendered")

	if err := writeFile(paths.Typst, []byte(typst)); err != nil {
		return diagnostic.NewUserError("cannot write the Typst file", err)
	}

	add(KindTypst, paths.Typst)

	if root.CV.Photo != "" {
		if _, err := copyFile(root.CV.Photo, filepath.Dir(paths.Typst)); err != nil {
			return diagnostic.NewUserError("cannot copy the photo", err)
		}
	}

	if !s.DontGenerateMarkdown || !s.DontGenerateHTML {
		md, err := r.Markdown(root)
		if err != nil {
			return err
		}

		if !s.DontGenerateMarkdown {
			if err := writeFile(paths.Markdown, []byte(md)); err != nil {
				return diagnostic.NewUserError("cannot write the Markdown file", err)
			}

			add(KindMarkdown, paths.Markdown)
		}

		if !s.DontGenerateHTML {
			html, err := r.HTMLFromMarkdown(root, md)
			if err != nil {
				return err
			}

			if err := writeFile(paths.HTML, []byte(html)); err != nil {
				return diagnostic.NewUserError("cannot write the HTML file", err)
			}

			add(KindHTML, paths.HTML)
		}
	}

	fonts := fontPaths(root.InputDir)

	if !s.DontGeneratePDF {
		if err := p.compile(ctx, Job{Source: paths.Typst, Output: paths.PDF, Format: KindPDF, FontPaths: fonts}, log); err != nil {
			return err
		}

		add(KindPDF, paths.PDF)
	}

	if !s.DontGeneratePNG {
		if err := p.compile(ctx, Job{Source: paths.Typst, Output: paths.PNG, Format: KindPNG, FontPaths: fonts}, log); err != nil {
			return err
		}

		pages, _ := filepath.Glob(pngPages(paths.PNG))
		slices.Sort(pages)

		for _, page := range pages {
			add(KindPNG, page)
		}
	}

	return nil
}

func (p *Pipeline) compile(ctx context.Context, job Job, log zerolog.Logger) error {
	if err := os.MkdirAll(filepath.Dir(job.Output), dirPerm); err != nil {
		return diagnostic.NewUserError("cannot create the output directory", err)
	}

	start := time.Now()

	if err := p.compiler.Compile(ctx, job); err != nil {
		log.Error().Str("stage", "compile").Str("format", string(job.Format)).Err(err).Msg("compilation failed")
		return err
	}

	log.Debug().Str("stage", "compile").Str("format", string(job.Format)).Dur("took", time.Since(start)).Msg("compiled")

	return nil
}

func fontPaths(inputDir string) []string {
	dir := filepath.Join(inputDir, model.FontsDir)
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return []string{dir}
	}

	return nil
}

// applyOverrides writes overrides into the settings mapping of doc.
func applyOverrides(doc *reader.Document, overrides Overrides) error {
	if len(overrides) == 0 {
		return nil
	}

	settings := mappingAt(doc.Root, "settings")

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	for _, key := range keys {
		var value yaml.Node
		if err := value.Encode(overrides[key]); err != nil {
			return diagnostic.NewUserError(fmt.Sprintf("invalid value for %s", key), err)
		}

		setKey(settings, key, &value)
	}

	return nil
}

// mappingAt returns the mapping under key in m, replacing a missing or null
// value with an empty mapping.
func mappingAt(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value != key {
			continue
		}

		v := m.Content[i+1]
		if v.Kind == yaml.MappingNode {
			return v
		}

		if v.Kind == yaml.ScalarNode && v.ShortTag() == "!!null" {
			*v = yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Line: v.Line, Column: v.Column}
			return v
		}

		// A non-mapping value is left for validation to report.
		return &yaml.Node{Kind: yaml.MappingNode}
	}

	v := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, v)

	return v
}

func setKey(m *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			value.Line, value.Column = m.Content[i+1].Line, m.Content[i+1].Column
			m.Content[i+1] = value

			return
		}
	}

	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, value)
}
