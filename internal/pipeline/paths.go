package pipeline

import (
	"path/filepath"
	"strings"

	"rendercv/internal/diagnostic"
	"rendercv/internal/model"
	"rendercv/internal/primitive"
)

// ArtifactKind names an output format.
type ArtifactKind string

const (
	KindTypst    ArtifactKind = "typst"
	KindPDF      ArtifactKind = "pdf"
	KindPNG      ArtifactKind = "png"
	KindMarkdown ArtifactKind = "markdown"
	KindHTML     ArtifactKind = "html"
)

// pagePlaceholder is replaced with the page number by the typesetter.
const pagePlaceholder = "{p}"

// Paths are the resolved artifact paths of one version.
type Paths struct {
	OutputFolder string
	Typst        string
	PDF          string
	Markdown     string
	HTML         string
	// PNG contains the {p} page placeholder.
	PNG string
}

// ResolvePaths computes the artifact paths of root for version, which is
// empty for the unfiltered document. The output folder is relative to the
// input directory and artifact paths are relative to the output folder.
func ResolvePaths(root *model.RenderCV, version string) (Paths, error) {
	folder, err := primitive.PlannedPath(root.SubstituteTokens(root.Settings.OutputFolder), root.InputDir)
	if err != nil {
		return Paths{}, diagnostic.NewUserError("invalid output_folder", err)
	}

	resolve := func(setting, raw string) (string, error) {
		raw = strings.ReplaceAll(root.SubstituteTokens(raw), model.TokenOutputFolder, folder)

		p, err := primitive.PlannedPath(raw, folder)
		if err != nil {
			return "", diagnostic.NewUserError("invalid "+setting, err)
		}

		return withSuffix(p, version), nil
	}

	s := root.Settings
	out := Paths{OutputFolder: folder}

	targets := []struct {
		setting string
		raw     string
		dst     *string
	}{
		{"typst_path", s.TypstPath, &out.Typst},
		{"pdf_path", s.PDFPath, &out.PDF},
		{"markdown_path", s.MarkdownPath, &out.Markdown},
		{"html_path", s.HTMLPath, &out.HTML},
		{"png_path", s.PNGPath, &out.PNG},
	}

	for _, t := range targets {
		if *t.dst, err = resolve(t.setting, t.raw); err != nil {
			return Paths{}, err
		}
	}

	ext := filepath.Ext(out.PNG)
	out.PNG = strings.TrimSuffix(out.PNG, ext) + "_" + pagePlaceholder + ext

	return out, nil
}

func withSuffix(p, version string) string {
	if version == "" {
		return p
	}

	ext := filepath.Ext(p)

	return strings.TrimSuffix(p, ext) + "_" + version + ext
}

// pngPages returns the glob matching the pages written for pattern.
func pngPages(pattern string) string {
	return strings.Replace(pattern, pagePlaceholder, "*", 1)
}
