package model

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"rendercv/internal/common"
	"rendercv/internal/diagnostic"
	"rendercv/internal/locale"
	"rendercv/internal/reader"
)

var rootKeys = []string{"cv", "design", "locale", "settings", "versions"}

// Context carries what validation needs besides the document.
type Context struct {
	// InputPath overrides the document path for resolving relative paths.
	InputPath string
	// Today is the current date used when settings.current_date is not
	// given. The zero value means time.Now().
	Today time.Time
}

// RenderCV is the validated document. It is not modified after Build;
// ForVersion returns filtered copies.
type RenderCV struct {
	CV       CV
	Design   Design
	Locale   locale.Locale
	Settings Settings
	Versions []Version

	InputPath string
	InputDir  string
	// Today is the effective current date "present" and TODAY resolve to.
	Today time.Time
	// Version is the name of the active version, empty when unfiltered.
	Version string
	// Warnings are problems that did not fail validation.
	Warnings []diagnostic.Failure
}

// Build validates doc and returns the root model, or a
// *diagnostic.ValidationError listing every problem found.
func Build(doc *reader.Document, ctx Context) (*RenderCV, error) {
	inputPath := doc.Path
	if ctx.InputPath != "" {
		inputPath = ctx.InputPath
	}

	inputDir := doc.Dir()
	if inputPath != "" {
		if abs, err := filepath.Abs(inputPath); err == nil {
			inputPath = abs
		}

		inputDir = filepath.Dir(inputPath)
	}

	today := ctx.Today
	if today.IsZero() {
		today = time.Now()
	}

	if cd := currentDate(doc.Root); !cd.IsZero() {
		today = cd.Resolve(today)
	}

	diags := &diagnostic.Diagnostics{}
	b := &binder{
		diags:     diags,
		today:     today,
		inputDir:  inputDir,
		userFonts: hasUserFonts(inputDir),
	}

	root := &RenderCV{
		Design:    DefaultDesign(),
		Locale:    locale.Default(),
		Settings:  DefaultSettings(),
		InputPath: inputPath,
		InputDir:  inputDir,
		Today:     today,
	}

	if !hasKey(doc.Root, "cv") {
		diags.AddError(diagnostic.Path{"cv"}, diagnostic.KindMissing, `Field "cv" is required.`, "")
	}

	for _, p := range pairs(doc.Root) {
		at := diagnostic.Path{p.key}

		switch p.key {
		case "cv":
			root.CV = b.bindCV(p.value, at)
		case "design":
			root.Design = b.bindDesign(p.value, at)
		case "locale":
			root.Locale = b.bindLocale(p.value, at)
		case "settings":
			root.Settings = b.bindSettings(p.value, at)
		case "versions":
			root.Versions = b.bindVersions(p.value, at)
		default:
			b.unknown(p, nil, rootKeys)
		}
	}

	root.Warnings = diags.Warnings

	if err := diags.Validation(doc, inputPath); err != nil {
		return nil, err
	}

	return root, nil
}

// Year returns the year of the effective current date.
func (r *RenderCV) Year() int {
	return r.Today.Year()
}

// PDFTitle returns the document title stored in the PDF metadata.
func (r *RenderCV) PDFTitle() string {
	if r.Settings.PDFTitle == "" {
		return r.Locale.CVTitle(r.CV.Name)
	}

	return r.SubstituteTokens(r.Settings.PDFTitle)
}

// SubstituteTokens replaces the name and year tokens in s. Longer tokens
// are replaced first.
func (r *RenderCV) SubstituteTokens(s string) string {
	name := r.CV.Name
	snake := common.SnakeCase(name)

	return strings.NewReplacer(
		TokenNameInLowerSnakeCase, strings.ToLower(snake),
		TokenNameInSnakeCase, snake,
		TokenNameInKebabCase, common.KebabCase(name),
		TokenName, name,
		TokenYear, strconv.Itoa(r.Year()),
	).Replace(s)
}

// FindVersion returns the version called name.
func (r *RenderCV) FindVersion(name string) (Version, bool) {
	for _, v := range r.Versions {
		if v.Name == name {
			return v, true
		}
	}

	return Version{}, false
}
