package render

import (
	"bytes"
	"fmt"
	"io/fs"
	"strings"

	"github.com/open2b/scriggo"
	"github.com/open2b/scriggo/native"

	"rendercv/internal/diagnostic"
	"rendercv/internal/markup"
	"rendercv/internal/model"
	"rendercv/internal/theme"
)

// textFS serves templates whose output is printed verbatim. Values are
// already converted by the views, so no context escaping is wanted.
type textFS struct {
	fs.FS
}

func (textFS) Format(string) (scriggo.Format, error) {
	return scriggo.FormatText, nil
}

// htmlFS serves the HTML wrapper.
type htmlFS struct {
	fs.FS
}

func (htmlFS) Format(string) (scriggo.Format, error) {
	return scriggo.FormatHTML, nil
}

var globals = native.Declarations{
	"cv":       (*CVView)(nil),
	"design":   (*DesignView)(nil),
	"locale":   (*LocaleView)(nil),
	"settings": (*SettingsView)(nil),
	"section":  (*SectionView)(nil),
	"entry":    (*EntryView)(nil),
	"str":      markup.TypstString,

	"lang":      (*string)(nil),
	"direction": (*string)(nil),
	"title":     (*string)(nil),
	"style":     (*native.CSS)(nil),
	"body":      (*native.HTML)(nil),
}

// templateSet is the compiled templates of one format, keyed by name
// without extension.
type templateSet map[string]*scriggo.Template

// Renderer renders documents with the templates of one theme.
type Renderer struct {
	theme    *theme.Theme
	typst    templateSet
	markdown templateSet
	html     *scriggo.Template
}

// New compiles every template of t. Compilation errors in a built-in theme
// are internal errors; in a custom theme they are the user's.
func New(t *theme.Theme) (*Renderer, error) {
	r := &Renderer{theme: t}

	var err error

	if r.typst, err = build(textFS{t.Typst}, theme.TypstExt); err != nil {
		return nil, r.buildError(err)
	}

	if r.markdown, err = build(textFS{t.Markdown}, theme.MarkdownExt); err != nil {
		return nil, r.buildError(err)
	}

	r.html, err = scriggo.BuildTemplate(htmlFS{t.HTML}, theme.HTMLFile, &scriggo.BuildOptions{Globals: globals})
	if err != nil {
		return nil, r.buildError(err)
	}

	return r, nil
}

func build(fsys scriggo.FormatFS, ext string) (templateSet, error) {
	names := []string{theme.TemplatePreamble, theme.TemplateHeader, theme.TemplateSectionBeginning, theme.TemplateSectionEnding}
	names = append(names, theme.EntryTemplates...)

	out := make(templateSet, len(names))

	for _, name := range names {
		tmpl, err := scriggo.BuildTemplate(fsys, name+ext, &scriggo.BuildOptions{Globals: globals})
		if err != nil {
			return nil, fmt.Errorf("%s%s: %w", name, ext, err)
		}

		out[name] = tmpl
	}

	return out, nil
}

func (r *Renderer) buildError(err error) error {
	if r.theme.Builtin {
		return diagnostic.NewInternalError(fmt.Sprintf("built-in theme %q does not compile", r.theme.Name), err)
	}

	return diagnostic.NewUserError(fmt.Sprintf("the templates of theme %q do not compile", r.theme.Name), err)
}

func (r *Renderer) runError(name string, err error) error {
	if r.theme.Builtin {
		return diagnostic.NewInternalError("template "+name+" failed", err)
	}

	return diagnostic.NewUserError("template "+name+" of theme "+r.theme.Name+" failed", err)
}

// Typst renders root as a Typst document.
func (r *Renderer) Typst(root *model.RenderCV) (string, error) {
	return r.document(root, r.typst, formatTypst)
}

// Markdown renders root as a Markdown document.
func (r *Renderer) Markdown(root *model.RenderCV) (string, error) {
	return r.document(root, r.markdown, formatMarkdown)
}

func (r *Renderer) document(root *model.RenderCV, set templateSet, f format) (string, error) {
	c := newConverter(root, f)

	cv, design, loc, settings := c.cv(), c.design(), c.locale(), c.settings()
	vars := map[string]any{
		"cv":       &cv,
		"design":   &design,
		"locale":   &loc,
		"settings": &settings,
		"section":  &SectionView{},
		"entry":    &EntryView{},
	}

	var buf bytes.Buffer

	run := func(name string) error {
		if err := set[name].Run(&buf, vars, nil); err != nil {
			return r.runError(name, err)
		}

		return nil
	}

	if err := run(theme.TemplatePreamble); err != nil {
		return "", err
	}

	if err := run(theme.TemplateHeader); err != nil {
		return "", err
	}

	sections := nonEmpty(root.CV.Sections)

	for i, s := range sections {
		sv := c.section(s, i == len(sections)-1)
		vars["section"] = &sv

		if err := run(theme.TemplateSectionBeginning); err != nil {
			return "", err
		}

		for j, e := range s.Entries {
			ev := c.entry(e, s, j)
			vars["entry"] = &ev

			if err := run(e.Kind.TemplateName()); err != nil {
				return "", err
			}
		}

		if err := run(theme.TemplateSectionEnding); err != nil {
			return "", err
		}
	}

	return cleanup(buf.String()), nil
}

func nonEmpty(sections []model.Section) []model.Section {
	out := make([]model.Section, 0, len(sections))

	for _, s := range sections {
		if len(s.Entries) > 0 {
			out = append(out, s)
		}
	}

	return out
}

// cleanup trims trailing spaces, collapses runs of blank lines and ends the
// document with a single newline.
func cleanup(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := 0

	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			blank++
			if blank > 1 {
				continue
			}
		} else {
			blank = 0
		}

		out = append(out, line)
	}

	return strings.Trim(strings.Join(out, "\n"), "\n") + "\n"
}

// HTML renders root as a standalone HTML page built from its Markdown.
func (r *Renderer) HTML(root *model.RenderCV) (string, error) {
	md, err := r.Markdown(root)
	if err != nil {
		return "", err
	}

	return r.HTMLFromMarkdown(root, md)
}

// HTMLFromMarkdown wraps already rendered Markdown in the HTML page.
func (r *Renderer) HTMLFromMarkdown(root *model.RenderCV, md string) (string, error) {
	body, err := markup.HTML(md)
	if err != nil {
		return "", diagnostic.NewInternalError("convert Markdown to HTML", err)
	}

	lang := root.Locale.Code()
	direction := root.Locale.TextDirection()
	title := root.PDFTitle()
	style := native.CSS(stylesheet(root.Design.Options))
	html := native.HTML(body)

	vars := map[string]any{
		"lang":      &lang,
		"direction": &direction,
		"title":     &title,
		"style":     &style,
		"body":      &html,
	}

	var buf bytes.Buffer
	if err := r.html.Run(&buf, vars, nil); err != nil {
		return "", r.runError(theme.HTMLFile, err)
	}

	return buf.String(), nil
}
