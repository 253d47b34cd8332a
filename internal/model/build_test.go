package model

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rendercv/internal/diagnostic"
	"rendercv/internal/locale"
	"rendercv/internal/primitive"
	"rendercv/internal/reader"
	"rendercv/internal/theme"
)

var testToday = time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

func build(t *testing.T, src string) (*RenderCV, error) {
	t.Helper()

	doc, err := reader.Parse([]byte(src), "")
	require.NoError(t, err)

	return Build(doc, Context{Today: testToday})
}

func mustBuild(t *testing.T, src string) *RenderCV {
	t.Helper()

	root, err := build(t, src)
	require.NoError(t, err)

	return root
}

func records(t *testing.T, src string) []diagnostic.Record {
	t.Helper()

	_, err := build(t, src)
	require.Error(t, err)

	var verr *diagnostic.ValidationError
	require.True(t, errors.As(err, &verr), "expected a validation error, got %v", err)

	return verr.Records
}

func locations(recs []diagnostic.Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = diagnostic.Path(r.Location).String()
	}

	return out
}

func TestBuild_Minimal(t *testing.T) {
	root := mustBuild(t, "cv:\n  name: John Doe\n")

	assert.Equal(t, "John Doe", root.CV.Name)
	assert.Empty(t, root.CV.Sections)
	assert.Equal(t, theme.DefaultTheme, root.Design.Theme.Name)
	assert.Equal(t, "english", root.Locale.Language)
	assert.Equal(t, SortNone, root.Settings.SortEntries)
	assert.Equal(t, DefaultOutputFolder, root.Settings.OutputFolder)
	assert.Equal(t, testToday, root.Today)
	assert.Equal(t, "John Doe's CV", root.PDFTitle())
	assert.Empty(t, root.Warnings)
}

func TestBuild_RootErrors(t *testing.T) {
	recs := records(t, "design:\n  theme: classic\nextra: 1\n")

	assert.Equal(t, []string{"cv", "extra"}, locations(recs))
	assert.Contains(t, recs[0].Message, `"cv" is required`)
	assert.Equal(t, 1, recs[0].YAMLLocation.Start.Line)
}

func TestBuild_DateRange(t *testing.T) {
	accepted := `
cv:
  name: John Doe
  sections:
    experience:
      - company: Acme
        position: Engineer
        start_date: 2020-01-01
        end_date: 2020-01-01
`
	root := mustBuild(t, accepted)
	exp := root.CV.Sections[0].Entries[0].Experience
	require.NotNil(t, exp)
	assert.Equal(t, "2020-01-01", exp.Start.String())
	assert.Equal(t, "2020-01-01", exp.End.String())

	rejected := `cv:
  name: John Doe
  sections:
    experience:
      - company: Acme
        position: Engineer
        start_date: 2023
        end_date: 2021
`
	recs := records(t, rejected)
	require.Len(t, recs, 1)
	assert.Equal(t, []string{"cv", "sections", "experience", "0"}, recs[0].Location)
	assert.Equal(t, diagnostic.Position{Line: 5, Column: 9}, recs[0].YAMLLocation.Start)
	assert.Contains(t, recs[0].Message, "2023")
	assert.Contains(t, recs[0].Message, "2021")
}

func TestBuild_OpenRangeEndsAtPresent(t *testing.T) {
	root := mustBuild(t, `
cv:
  name: John Doe
  sections:
    experience:
      - company: Acme
        position: Engineer
        start_date: 2020-03
`)
	exp := root.CV.Sections[0].Entries[0].Experience
	assert.True(t, exp.End.Present)
}

func TestBuild_DateWinsOverRange(t *testing.T) {
	root := mustBuild(t, `
cv:
  name: John Doe
  sections:
    projects:
      - name: Compiler
        date: 2019
        start_date: 2023
        end_date: 2021
`)
	n := root.CV.Sections[0].Entries[0].Normal
	require.NotNil(t, n)
	assert.False(t, n.IsRange())

	key, ok := root.CV.Sections[0].Entries[0].SortKey(testToday)
	require.True(t, ok)
	assert.Equal(t, 2019, key.Year())
}

func TestBuild_DateErrors(t *testing.T) {
	recs := records(t, `
cv:
  name: John Doe
  sections:
    experience:
      - company: Acme
        position: Engineer
        start_date: present
        end_date: 2020-13
      - company: Beta
        position: Engineer
        date: soon
`)
	require.Len(t, recs, 3)
	assert.Equal(t, []string{
		"cv.sections.experience.0.start_date",
		"cv.sections.experience.0.end_date",
		"cv.sections.experience.1.date",
	}, locations(recs))
	assert.Contains(t, recs[0].Message, "only allowed in end_date")
	assert.Contains(t, recs[1].Message, "present")
	assert.Contains(t, recs[2].Message, "YYYY-MM-DD")
}

func TestBuild_FutureStartWithoutEnd(t *testing.T) {
	tests := []struct {
		name string
		end  string
	}{
		{"omitted", ""},
		{"explicit present", "        end_date: present\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := records(t, `
cv:
  name: John Doe
  sections:
    experience:
      - company: Acme
        position: Engineer
        start_date: 2030-01
`+tt.end)
			require.Len(t, recs, 1)
			assert.Equal(t, []string{"cv", "sections", "experience", "0"}, recs[0].Location)
			assert.Contains(t, recs[0].Message, "start_date (2030-01) is after end_date (present)")
		})
	}
}

func TestBuild_Discrimination(t *testing.T) {
	tests := []struct {
		name  string
		entry string
		kind  EntryKind
	}{
		{"string", `"Just text"`, KindText},
		{"text mapping", `{text: "Hello", tags: [a]}`, KindText},
		{"education", `{institution: MIT, area: Physics, degree: BS}`, KindEducation},
		{"experience", `{company: Acme, position: Engineer}`, KindExperience},
		{"publication", `{title: Paper, authors: [A, B], doi: 10.1109/TASC.2023.3340648}`, KindPublication},
		{"normal", `{name: Project}`, KindNormal},
		{"experience with name", `{name: X, company: Acme, position: Engineer}`, KindExperience},
		{"one line", `{label: Languages, details: Go}`, KindOneLine},
		{"bullet", `{bullet: Something}`, KindBullet},
		{"numbered", `{number: First}`, KindNumbered},
		{"reversed numbered", `{reversed_number: Last}`, KindReversedNumbered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := mustBuild(t, "cv:\n  name: J\n  sections:\n    s:\n      - "+tt.entry+"\n")

			sec := root.CV.Sections[0]
			require.Len(t, sec.Entries, 1)
			assert.Equal(t, tt.kind, sec.Kind)
			assert.Equal(t, tt.kind, sec.Entries[0].Kind)
		})
	}
}

func TestBuild_EntryFields(t *testing.T) {
	root := mustBuild(t, `
cv:
  name: J
  sections:
    publications:
      - title: Paper
        authors: [Alice, Bob]
        doi: 10.1109/TASC.2023.3340648
        journal: IEEE
        date: 2023-10
        tags: [research, research]
        venue: Tokyo
`)
	e := root.CV.Sections[0].Entries[0]
	p := e.Publication
	require.NotNil(t, p)

	assert.Equal(t, []string{"Alice", "Bob"}, p.Authors)
	assert.Equal(t, "https://doi.org/10.1109/TASC.2023.3340648", p.Link())
	assert.Equal(t, "2023-10", p.Date.String())
	assert.Equal(t, []string{"research"}, e.Tags)
	assert.Equal(t, map[string]string{"VENUE": "Tokyo"}, e.Extra)
}

func TestBuild_EntryErrors(t *testing.T) {
	recs := records(t, `
cv:
  name: J
  sections:
    publications:
      - title: Paper
        authors: Alice
        doi: not-a-doi
        url: ftp://example.com
    misc:
      - {foo: bar}
`)
	assert.Equal(t, []string{
		"cv.sections.publications.0.authors",
		"cv.sections.publications.0.doi",
		"cv.sections.publications.0.url",
		"cv.sections.misc.0",
	}, locations(recs))
	assert.Contains(t, recs[3].Message, "ExperienceEntry")
}

func TestBuild_HeterogeneousSection(t *testing.T) {
	recs := records(t, `
cv:
  name: J
  sections:
    experience:
      - company: Acme
        position: Engineer
      - name: Side project
`)
	require.Len(t, recs, 1)
	assert.Equal(t, []string{"cv", "sections", "experience", "1"}, recs[0].Location)
	assert.Contains(t, recs[0].Message, "ExperienceEntry")
	assert.Contains(t, recs[0].Message, "NormalEntry")
}

func TestBuild_Sections(t *testing.T) {
	root := mustBuild(t, `
cv:
  name: J
  sections:
    work_experience: ["a"]
    My Projects: ["b"]
    summary_2024: ["c"]
`)
	titles := make([]string, 0, 3)
	for _, s := range root.CV.Sections {
		titles = append(titles, s.Title)
	}

	assert.Equal(t, []string{"Work Experience", "My Projects", "Summary 2024"}, titles)
}

func TestBuild_SectionErrors(t *testing.T) {
	recs := records(t, `
cv:
  name: J
  sections:
    work_experience: ["a"]
    Work Experience: ["b"]
    empty: []
    nothing:
    scalar: text
`)
	assert.Equal(t, []string{
		"cv.sections.Work Experience",
		"cv.sections.empty",
		"cv.sections.nothing",
		"cv.sections.scalar",
	}, locations(recs))
	assert.Contains(t, recs[0].Message, "already used")
	assert.Contains(t, recs[1].Message, "at least one entry")
}

func TestBuild_CVFields(t *testing.T) {
	root := mustBuild(t, `
cv:
  name: John Doe
  label: Engineer
  location: Istanbul
  email: john@example.com
  phone: "+905419999999"
  website: https://example.com
  social_networks:
    - network: Mastodon
      username: "@alice@example.org"
    - network: GitHub
      username: johndoe
`)
	cv := root.CV
	assert.Equal(t, "john@example.com", cv.Email)
	assert.Equal(t, "+905419999999", cv.Phone)
	require.Len(t, cv.SocialNetworks, 2)
	assert.Equal(t, "https://example.org/@alice", cv.SocialNetworks[0].URL())
	assert.Equal(t, "https://github.com/johndoe", cv.SocialNetworks[1].URL())
}

func TestBuild_CVErrors(t *testing.T) {
	recs := records(t, `
cv:
  nme: John Doe
  email: not an email
  phone: "5419999999"
  website: example.com
  social_networks:
    - network: GitHb
      username: johndoe
    - network: Mastodon
      username: invalidmastodon
    - network: GitHub
`)
	locs := locations(recs)
	assert.Equal(t, []string{
		"cv.name",
		"cv.nme",
		"cv.email",
		"cv.phone",
		"cv.website",
		"cv.social_networks.0.network",
		"cv.social_networks.1.username",
		"cv.social_networks.2.username",
	}, locs)
	assert.Contains(t, recs[1].Message, `"name"`)
	assert.Contains(t, recs[5].Message, `"GitHub"`)
}

func TestBuild_Photo(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "me.png"), []byte("png"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("txt"), 0o644))

	input := filepath.Join(dir, "cv.yaml")
	require.NoError(t, os.WriteFile(input, []byte("cv:\n  name: J\n  photo: me.png\n"), 0o644))

	doc, err := reader.ReadFile(input)
	require.NoError(t, err)

	root, err := Build(doc, Context{Today: testToday})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "me.png"), root.CV.Photo)
	assert.Equal(t, dir, root.InputDir)

	doc, err = reader.Parse([]byte("cv:\n  name: J\n  photo: notes.txt\n"), input)
	require.NoError(t, err)

	_, err = Build(doc, Context{Today: testToday})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "photo")
}

func TestBuild_Design(t *testing.T) {
	root := mustBuild(t, `
cv:
  name: J
design:
  theme: sb2nov
  page:
    size: a4
  colors:
    name: "#ff0000"
`)
	assert.Equal(t, "sb2nov", root.Design.Theme.Name)
	assert.Equal(t, "a4", root.Design.Options.String("page.size"))
	assert.Equal(t, "rgb(255, 0, 0)", root.Design.Options.String("colors.name"))
	assert.Equal(t, "New Computer Modern", root.Design.Options.String("text.font_family"))
}

func TestBuild_DesignErrors(t *testing.T) {
	tests := []struct {
		name    string
		design  string
		loc     string
		message string
	}{
		{"unknown theme", "theme: clasic", "design.theme", `"classic"`},
		{"invalid theme name", "theme: My-Theme", "design.theme", "lowercase"},
		{"unknown option", "page:\n    sise: a4", "design.page.sise", `"size"`},
		{"bad font", "text:\n    font_family: Comic Sans", "design.text.font_family", "fonts folder"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := records(t, "cv:\n  name: J\ndesign:\n  "+tt.design+"\n")
			require.Len(t, recs, 1)
			assert.Equal(t, tt.loc, diagnostic.Path(recs[0].Location).String())
			assert.Contains(t, recs[0].Message, tt.message)
		})
	}
}

func TestBuild_UserFonts(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, FontsDir), 0o755))

	doc, err := reader.Parse([]byte("cv:\n  name: J\ndesign:\n  text:\n    font_family: Comic Sans\n"), filepath.Join(dir, "cv.yaml"))
	require.NoError(t, err)

	root, err := Build(doc, Context{Today: testToday})
	require.NoError(t, err)
	assert.Equal(t, "Comic Sans", root.Design.Options.String("text.font_family"))
}

func TestBuild_Locale(t *testing.T) {
	root := mustBuild(t, `
cv:
  name: J
locale:
  language: turkish
  phone_number_format: international
  to: "-"
`)
	assert.Equal(t, "turkish", root.Locale.Language)
	assert.Equal(t, locale.PhoneInternational, root.Locale.PhoneNumberFormat)
	assert.Equal(t, "-", root.Locale.To)
	assert.Equal(t, "halen", root.Locale.Present)

	root = mustBuild(t, "cv:\n  name: J\nlocale:\n  language: klingon\n")
	assert.Equal(t, "klingon", root.Locale.Language)
	require.Len(t, root.Warnings, 1)
	assert.Contains(t, root.Warnings[0].Message, "klingon")

	root = mustBuild(t, "cv:\n  name: J\nlocale:\n  language: arabic\n")
	assert.True(t, root.Locale.IsRTL())
}

func TestBuild_LocaleErrors(t *testing.T) {
	recs := records(t, `
cv:
  name: J
locale:
  phone_number_format: local
  abbreviations_for_months: [Jan, Feb]
  yearss: years
`)
	assert.Equal(t, []string{
		"locale.phone_number_format",
		"locale.abbreviations_for_months",
		"locale.yearss",
	}, locations(recs))
	assert.Contains(t, recs[1].Message, "12")
	assert.Contains(t, recs[2].Message, `"years"`)
}

func TestBuild_Settings(t *testing.T) {
	root := mustBuild(t, `
cv:
  name: John Doe
settings:
  current_date: 2020-02
  bold_keywords: [Go, Python, Go]
  sort_entries: chronological
  pdf_title: NAME - YEAR
  output_folder: out
  dont_generate_png: true
`)
	s := root.Settings
	assert.Equal(t, time.Date(2020, time.February, 1, 0, 0, 0, 0, time.UTC), root.Today)
	assert.Equal(t, []string{"Go", "Python"}, s.BoldKeywords)
	assert.Equal(t, SortChronological, s.SortEntries)
	assert.Equal(t, "John Doe - 2020", root.PDFTitle())
	assert.Equal(t, "out", s.OutputFolder)
	assert.True(t, s.DontGeneratePNG)
	assert.False(t, s.DontGeneratePDF)
	assert.Equal(t, "OUTPUT_FOLDER/NAME_IN_SNAKE_CASE_CV.pdf", s.PDFPath)

	root = mustBuild(t, "cv:\n  name: J\nsettings:\n  current_date: today\n")
	assert.Equal(t, testToday, root.Today)
}

func TestBuild_SettingsErrors(t *testing.T) {
	recs := records(t, `
cv:
  name: J
settings:
  current_date: yesterday
  sort_entries: newest
  dont_generate_pdf: maybe
  output_folder: ""
  outptu_folder: x
`)
	assert.Equal(t, []string{
		"settings.current_date",
		"settings.sort_entries",
		"settings.dont_generate_pdf",
		"settings.output_folder",
		"settings.outptu_folder",
	}, locations(recs))
	assert.Contains(t, recs[4].Message, `"output_folder"`)
}

func TestSubstituteTokens(t *testing.T) {
	root := mustBuild(t, "cv:\n  name: John Doe\n")

	assert.Equal(t,
		"John_Doe john_doe john-doe John Doe 2024",
		root.SubstituteTokens("NAME_IN_SNAKE_CASE NAME_IN_LOWER_SNAKE_CASE NAME_IN_KEBAB_CASE NAME YEAR"))
}

func TestBuild_Versions(t *testing.T) {
	root := mustBuild(t, `
cv:
  name: J
  sections:
    experience:
      - company: Acme
        position: Engineer
        tags: [industry]
versions:
  - name: academic
    include: [research]
`)
	require.Len(t, root.Versions, 1)

	academic, err := root.ForVersion("academic")
	require.NoError(t, err)
	assert.Equal(t, "academic", academic.Version)
	require.Len(t, academic.CV.Sections, 1)
	assert.Equal(t, "Experience", academic.CV.Sections[0].Title)
	assert.Empty(t, academic.CV.Sections[0].Entries)

	assert.Len(t, root.CV.Sections[0].Entries, 1, "the original stays untouched")

	_, err = root.ForVersion("missing")
	var uerr *diagnostic.UserError
	assert.ErrorAs(t, err, &uerr)
}

func TestBuild_VersionErrors(t *testing.T) {
	recs := records(t, `
cv:
  name: J
versions:
  - name: a
    include: []
  - name: b
  - include: [x]
  - name: a
    exclude: [y]
  - name: "bad name"
    exclude: [y]
`)
	assert.Equal(t, []string{
		"versions.0.include",
		"versions.1",
		"versions.2.name",
		"versions.3.name",
		"versions.4.name",
	}, locations(recs))
}

func TestBuild_MultipleErrorsInDocumentOrder(t *testing.T) {
	recs := records(t, `
settings:
  sort_entries: random
cv:
  name: J
  email: nope
design:
  theme: nope
`)
	assert.Equal(t, []string{"settings.sort_entries", "cv.email", "design.theme"}, locations(recs))

	for i := 1; i < len(recs); i++ {
		assert.Less(t, recs[i-1].YAMLLocation.Start.Line, recs[i].YAMLLocation.Start.Line)
	}
}

func TestBuild_Aliases(t *testing.T) {
	root := mustBuild(t, `
cv:
  name: J
  sections:
    experience:
      - &acme
        company: Acme
        position: Engineer
        start_date: 2020
        end_date: 2021
    again:
      - *acme
`)
	require.Len(t, root.CV.Sections, 2)
	assert.Equal(t, "Acme", root.CV.Sections[1].Entries[0].Experience.Company)
	assert.Equal(t, primitive.PrecisionYear, root.CV.Sections[1].Entries[0].Experience.End.Precision)
}
