package model

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"rendercv/internal/common"
	"rendercv/internal/diagnostic"
	"rendercv/internal/primitive"
)

// SortOrder selects how entries are ordered inside a section.
type SortOrder string

const (
	SortReverseChronological SortOrder = "reverse-chronological"
	SortChronological        SortOrder = "chronological"
	SortNone                 SortOrder = "none"
)

var SortOrders = []SortOrder{SortReverseChronological, SortChronological, SortNone}

// TodayLiteral selects the real current date in settings.current_date.
const TodayLiteral = "today"

// Path tokens understood in output paths and the PDF title.
const (
	TokenOutputFolder         = "OUTPUT_FOLDER"
	TokenName                 = "NAME"
	TokenNameInSnakeCase      = "NAME_IN_SNAKE_CASE"
	TokenNameInLowerSnakeCase = "NAME_IN_LOWER_SNAKE_CASE"
	TokenNameInKebabCase      = "NAME_IN_KEBAB_CASE"
	TokenYear                 = "YEAR"
)

// DefaultOutputFolder is used when settings.output_folder is not given.
const DefaultOutputFolder = "rendercv_output"

// Settings control dates, ordering and the produced artifacts.
type Settings struct {
	// CurrentDate is the date given in the document; zero means today.
	CurrentDate  primitive.Date
	BoldKeywords []string
	SortEntries  SortOrder
	// PDFTitle is a template with NAME and YEAR; empty uses the locale's
	// CV title.
	PDFTitle     string
	OutputFolder string

	TypstPath    string
	PDFPath      string
	MarkdownPath string
	HTMLPath     string
	PNGPath      string

	DontGeneratePDF      bool
	DontGeneratePNG      bool
	DontGenerateMarkdown bool
	DontGenerateHTML     bool
}

func defaultPath(ext string) string {
	return TokenOutputFolder + "/" + TokenNameInSnakeCase + "_CV" + ext
}

// DefaultSettings returns the settings of a document without a settings field.
func DefaultSettings() Settings {
	return Settings{
		SortEntries:  SortNone,
		OutputFolder: DefaultOutputFolder,
		TypstPath:    defaultPath(".typ"),
		PDFPath:      defaultPath(".pdf"),
		MarkdownPath: defaultPath(".md"),
		HTMLPath:     defaultPath(".html"),
		PNGPath:      defaultPath(".png"),
	}
}

var settingsKeys = []string{
	"current_date", "bold_keywords", "sort_entries", "pdf_title", "output_folder",
	"typst_path", "pdf_path", "markdown_path", "html_path", "png_path",
	"dont_generate_pdf", "dont_generate_png", "dont_generate_markdown", "dont_generate_html",
}

func (b *binder) bindSettings(n *yaml.Node, path diagnostic.Path) Settings {
	s := DefaultSettings()
	if isNull(n) || !b.mapping(n, path) {
		return s
	}

	strs := map[string]*string{
		"pdf_title":     &s.PDFTitle,
		"output_folder": &s.OutputFolder,
		"typst_path":    &s.TypstPath,
		"pdf_path":      &s.PDFPath,
		"markdown_path": &s.MarkdownPath,
		"html_path":     &s.HTMLPath,
		"png_path":      &s.PNGPath,
	}
	flags := map[string]*bool{
		"dont_generate_pdf":      &s.DontGeneratePDF,
		"dont_generate_png":      &s.DontGeneratePNG,
		"dont_generate_markdown": &s.DontGenerateMarkdown,
		"dont_generate_html":     &s.DontGenerateHTML,
	}

	for _, p := range pairs(n) {
		at := path.Child(p.key)

		if isNull(p.value) {
			continue
		}

		if field, ok := strs[p.key]; ok {
			if v, good := b.str(p.value, at); good {
				if strings.TrimSpace(v) == "" && p.key != "pdf_title" {
					b.diags.AddError(at, diagnostic.KindValue, "Expected a non-empty path.", v)
					continue
				}

				*field = v
			}

			continue
		}

		if field, ok := flags[p.key]; ok {
			*field, _ = b.boolean(p.value, at)
			continue
		}

		switch p.key {
		case "current_date":
			s.CurrentDate = b.bindCurrentDate(p.value, at)
		case "bold_keywords":
			kw, _ := b.strList(p.value, at)
			s.BoldKeywords = common.Dedupe(kw)
		case "sort_entries":
			s.SortEntries = b.bindSortOrder(p.value, at)
		default:
			b.unknown(p, path, settingsKeys)
		}
	}

	return s
}

func (b *binder) bindCurrentDate(n *yaml.Node, at diagnostic.Path) primitive.Date {
	if n.Kind == yaml.ScalarNode && n.Value == TodayLiteral {
		return primitive.Date{}
	}

	d, _ := b.date(n, at, false)

	return d
}

func (b *binder) bindSortOrder(n *yaml.Node, at diagnostic.Path) SortOrder {
	v, ok := b.str(n, at)
	if !ok {
		return SortNone
	}

	for _, o := range SortOrders {
		if SortOrder(v) == o {
			return o
		}
	}

	names := make([]string, len(SortOrders))
	for i, o := range SortOrders {
		names[i] = string(o)
	}

	b.diags.AddUnknown(at, diagnostic.KindValue,
		fmt.Sprintf("sort_entries must be one of %s.", strings.Join(names, ", ")), v, names)

	return SortNone
}

// currentDate reads settings.current_date without reporting failures. Build
// needs it before the document is validated in order.
func currentDate(root *yaml.Node) primitive.Date {
	for _, p := range pairs(root) {
		if p.key != "settings" {
			continue
		}

		for _, sp := range pairs(p.value) {
			if sp.key != "current_date" || isNull(sp.value) {
				continue
			}

			raw, err := dateInput(sp.value)
			if err != nil {
				return primitive.Date{}
			}

			d, err := primitive.ParseDate(raw, false)
			if err != nil {
				return primitive.Date{}
			}

			return d
		}
	}

	return primitive.Date{}
}
