package render

import (
	"path/filepath"
	"slices"
	"strings"

	"rendercv/internal/markup"
	"rendercv/internal/model"
	"rendercv/internal/theme"
)

// CVView is the personal information as seen by the Header template.
type CVView struct {
	// Name is ready to print; PlainName is the raw name for metadata.
	Name      string
	PlainName string
	// Title is the CV title from the locale template.
	Title       string
	Label       string
	PhotoFile   string
	Connections []string
}

// DesignView exposes the merged theme options to templates.
type DesignView struct {
	opts *theme.Options
}

// Opt returns the option at a dotted path as text.
func (d DesignView) Opt(path string) string {
	return d.opts.String(path)
}

// Flag returns a boolean option.
func (d DesignView) Flag(path string) bool {
	return d.opts.Bool(path)
}

// Justify reports whether paragraphs are justified.
func (d DesignView) Justify() bool {
	return strings.HasPrefix(d.opts.String("text.alignment"), "justified")
}

// Hyphenate reports whether justified text may be hyphenated.
func (d DesignView) Hyphenate() bool {
	return d.opts.String("text.alignment") == "justified"
}

// Weight returns a Typst font weight string for a boolean bold option.
func (d DesignView) Weight(path string) string {
	if d.opts.Bool(path) {
		return `"bold"`
	}

	return `"regular"`
}

// ConnectionSeparator returns the markup placed between two connections.
func (d DesignView) ConnectionSeparator() string {
	space := "#h(" + d.opts.String("header.horizontal_space_between_connections") + ")"

	sep := d.opts.String("header.separator_between_connections")
	if sep == "" {
		return space
	}

	half := "#h(" + d.opts.String("header.horizontal_space_between_connections") + " / 2)"

	return half + markup.EscapeTypst(sep) + half
}

// SectionTitle styles an already escaped section title.
func (d DesignView) SectionTitle(title string) string {
	if d.opts.Bool("section_titles.small_caps") {
		title = "#smallcaps[" + title + "]"
	}

	return "#text(size: " + d.opts.String("section_titles.font_size") +
		", weight: " + d.Weight("section_titles.bold") +
		", fill: " + d.opts.String("colors.section_titles") + ")[" + title + "]"
}

// LocaleView holds the localized strings the templates print.
type LocaleView struct {
	PageNumbering string
	LastUpdated   string
	Code          string
	Direction     string
}

// SettingsView holds document level values.
type SettingsView struct {
	PDFTitle  string
	InputName string
}

// SectionView is the section being rendered.
type SectionView struct {
	Title  string
	Kind   string
	IsLast bool
}

// EntryView is the entry being rendered. Typst templates use the row
// fields; Markdown templates use the plain fields.
type EntryView struct {
	Index    int
	Reversed int

	Text                string
	MainColumnFirstRow  string
	MainColumnSecondRow string
	DateColumn          string
	DegreeColumn        string

	Title      string
	Date       string
	Location   string
	Summary    string
	Highlights []string
	Authors    string
	URL        string
	Journal    string
}

// format is the target of a conversion.
type format int

const (
	_ format = iota

	formatTypst
	formatMarkdown
)

// converter builds views for one document in one format.
type converter struct {
	root   *model.RenderCV
	format format
	opts   *theme.Options
}

func newConverter(root *model.RenderCV, f format) *converter {
	return &converter{root: root, format: f, opts: root.Design.Options}
}

// inline converts a Markdown fragment to the target format.
func (c *converter) inline(md string) string {
	if c.format == formatTypst {
		return markup.Typst(md)
	}

	return md
}

// plain prints text that is not Markdown.
func (c *converter) plain(s string) string {
	if c.format == formatTypst {
		return markup.EscapeTypst(s)
	}

	return s
}

// rows converts filled lines, bolding keywords first. List lines are
// joined with newlines, other lines with line breaks.
func (c *converter) rows(lines []string) string {
	var b strings.Builder

	prevList := false

	for i, line := range lines {
		line = markup.Bold(line, c.root.Settings.BoldKeywords)
		list := strings.HasPrefix(line, "- ")

		if i > 0 {
			switch {
			case c.format == formatMarkdown:
				b.WriteString("\n")
			case list || prevList:
				b.WriteString("\n")
			default:
				b.WriteString(" \\\n")
			}
		}

		b.WriteString(c.inline(line))

		prevList = strings.Contains(line, "\n- ") || list
	}

	return b.String()
}

func (c *converter) cv() CVView {
	cv := c.root.CV

	v := CVView{
		Name:        c.plain(cv.Name),
		PlainName:   cv.Name,
		Title:       c.root.Locale.CVTitle(cv.Name),
		Label:       c.inline(cv.Label),
		Connections: c.connections(),
	}

	if cv.Photo != "" {
		v.PhotoFile = filepath.Base(cv.Photo)
	}

	return v
}

func (c *converter) design() DesignView {
	return DesignView{opts: c.opts}
}

func (c *converter) locale() LocaleView {
	l := c.root.Locale

	return LocaleView{
		PageNumbering: pageNumbering(l.PageNumbering(c.root.CV.Name, c.root.Today)),
		LastUpdated:   c.plain(l.LastUpdated(c.root.Today)),
		Code:          l.Code(),
		Direction:     l.TextDirection(),
	}
}

func (c *converter) settings() SettingsView {
	name := "input"
	if c.root.InputPath != "" {
		name = filepath.Base(c.root.InputPath)
	}

	return SettingsView{PDFTitle: c.root.PDFTitle(), InputName: name}
}

func (c *converter) section(s model.Section, last bool) SectionView {
	return SectionView{Title: c.plain(s.Title), Kind: s.Kind.String(), IsLast: last}
}

var pageTokens = map[string]string{
	"PAGE_NUMBER": "#context counter(page).display()",
	"TOTAL_PAGES": "#context counter(page).final().first()",
}

// pageNumbering escapes s and turns the page tokens into Typst counters.
func pageNumbering(s string) string {
	var b strings.Builder

	rest := s
	for rest != "" {
		idx, tok := -1, ""

		for t := range pageTokens {
			if i := strings.Index(rest, t); i >= 0 && (idx < 0 || i < idx) {
				idx, tok = i, t
			}
		}

		if idx < 0 {
			b.WriteString(markup.EscapeTypst(rest))
			break
		}

		b.WriteString(markup.EscapeTypst(rest[:idx]))
		b.WriteString(pageTokens[tok])

		rest = rest[idx+len(tok):]
		if rest != "" && (rest[0] == '.' || rest[0] == '(') {
			b.WriteString(";")
		}
	}

	return b.String()
}

var icons = map[string]string{
	"location":                  "location-dot",
	"email":                     "envelope",
	"phone":                     "phone",
	"website":                   "link",
	string(model.LinkedIn):      "linkedin",
	string(model.GitHub):        "github",
	string(model.GitLab):        "gitlab",
	string(model.IMDB):          "imdb",
	string(model.Instagram):     "instagram",
	string(model.ORCID):         "orcid",
	string(model.Mastodon):      "mastodon",
	string(model.StackOverflow): "stack-overflow",
	string(model.ResearchGate):  "researchgate",
	string(model.YouTube):       "youtube",
	string(model.GoogleScholar): "graduation-cap",
	string(model.Telegram):      "telegram",
	string(model.Leetcode):      "code",
	string(model.X):             "x-twitter",
}

type connection struct {
	kind string
	text string
	url  string
}

func (c *converter) connectionList() []connection {
	cv := c.root.CV

	var out []connection

	if cv.Location != "" {
		out = append(out, connection{"location", cv.Location, ""})
	}

	if cv.Email != "" {
		out = append(out, connection{"email", cv.Email, "mailto:" + cv.Email})
	}

	if cv.Phone != "" {
		out = append(out, connection{"phone", model.FormatPhone(cv.Phone, c.root.Locale.PhoneNumberFormat), "tel:" + cv.Phone})
	}

	if cv.Website != "" {
		out = append(out, connection{"website", displayURL(cv.Website), cv.Website})
	}

	for _, sn := range cv.SocialNetworks {
		out = append(out, connection{string(sn.Network), sn.Username, sn.URL()})
	}

	return out
}

func (c *converter) connections() []string {
	list := c.connectionList()
	out := make([]string, 0, len(list))

	icons := c.format == formatTypst && c.opts.Bool("header.use_icons_for_connections")
	links := c.opts.Bool("header.make_connections_links")

	for _, conn := range list {
		if c.format == formatMarkdown {
			if conn.url != "" {
				out = append(out, "["+conn.text+"]("+conn.url+")")
			} else {
				out = append(out, conn.text)
			}

			continue
		}

		body := markup.EscapeTypst(conn.text)
		if links && conn.url != "" {
			body = "#link(" + markup.TypstString(conn.url) + ")[" + body + "]"
		}

		if icons {
			body = "#fa-icon(" + markup.TypstString(iconFor(conn.kind)) + ")#h(0.05cm)" + body
		}

		out = append(out, body)
	}

	return out
}

func iconFor(kind string) string {
	if icon, ok := icons[kind]; ok {
		return icon
	}

	return "link"
}

func displayURL(u string) string {
	u = strings.TrimPrefix(u, "https://")
	u = strings.TrimPrefix(u, "http://")

	return strings.TrimSuffix(u, "/")
}

// entryValues returns the token values of an entry as Markdown.
func (c *converter) entryValues(e model.Entry, section model.Section) map[string]string {
	l := c.root.Locale
	values := map[string]string{}

	for k, v := range e.Extra {
		values[k] = v
	}

	if d, ok := e.Dates(); ok {
		values["DATE"] = c.dateText(d)
		values["START_DATE"] = l.FormatDate(d.Start)
		values["END_DATE"] = l.FormatDate(d.End)
		values["TIME_SPAN"] = ""

		if d.IsRange() && slices.Contains(c.opts.List("entries.show_time_spans_in"), section.Title) {
			values["TIME_SPAN"] = l.TimeSpan(d.Start, d.End, c.root.Today)
		}
	}

	var (
		location, summary string
		highlights        []string
	)

	switch e.Kind {
	case model.KindEducation:
		v := e.Education
		values["INSTITUTION"], values["AREA"], values["DEGREE"] = v.Institution, v.Area, v.Degree
		location, summary, highlights = v.Location, v.Summary, v.Highlights
	case model.KindExperience:
		v := e.Experience
		values["COMPANY"], values["POSITION"] = v.Company, v.Position
		location, summary, highlights = v.Location, v.Summary, v.Highlights
	case model.KindNormal:
		v := e.Normal
		values["NAME"] = v.Name
		location, summary, highlights = v.Location, v.Summary, v.Highlights
	case model.KindPublication:
		v := e.Publication
		values["TITLE"] = v.Title
		values["AUTHORS"] = strings.Join(v.Authors, ", ")
		values["DOI"] = v.DOI
		values["URL"] = publicationLink(v)
		values["JOURNAL"] = v.Journal
		summary = v.Summary
	case model.KindOneLine:
		values["LABEL"], values["DETAILS"] = e.OneLine.Label, e.OneLine.Details
	}

	values["LOCATION"] = location
	values["SUMMARY"] = summary
	values["HIGHLIGHTS"] = highlightList(highlights)

	return values
}

func (c *converter) dateText(d model.Dates) string {
	l := c.root.Locale

	switch {
	case !d.Date.IsZero():
		return l.FormatDate(d.Date)
	case d.IsRange():
		return l.FormatDateRange(d.Start, d.End)
	default:
		return l.FormatDate(d.End)
	}
}

func publicationLink(p *model.PublicationEntry) string {
	switch {
	case p.DOI != "":
		return "[" + p.DOI + "](" + p.DOIURL() + ")"
	case p.URL != "":
		return "[" + displayURL(p.URL) + "](" + p.URL + ")"
	default:
		return ""
	}
}

func highlightList(items []string) string {
	if len(items) == 0 {
		return ""
	}

	lines := make([]string, len(items))
	for i, h := range items {
		lines[i] = "- " + h
	}

	return strings.Join(lines, "\n")
}

// rowTemplates returns the option paths of the field templates of a kind.
func rowTemplates(kind model.EntryKind, p *model.PublicationEntry) (first, second, date, degree string) {
	switch kind {
	case model.KindEducation:
		base := "entry_types.education_entry."
		return base + "main_column_first_row_template", base + "main_column_second_row_template",
			base + "date_and_location_column_template", base + "degree_column_template"
	case model.KindExperience:
		base := "entry_types.experience_entry."
		return base + "main_column_first_row_template", base + "main_column_second_row_template",
			base + "date_and_location_column_template", ""
	case model.KindNormal:
		base := "entry_types.normal_entry."
		return base + "main_column_first_row_template", base + "main_column_second_row_template",
			base + "date_and_location_column_template", ""
	case model.KindPublication:
		base := "entry_types.publication_entry."

		second = base + "main_column_second_row_template"

		switch {
		case p.Link() == "":
			second = base + "main_column_second_row_without_url_template"
		case p.Journal == "":
			second = base + "main_column_second_row_without_journal_template"
		}

		return base + "main_column_first_row_template", second, base + "date_and_location_column_template", ""
	default:
		return "", "", "", ""
	}
}

func (c *converter) template(path string) string {
	if path == "" {
		return ""
	}

	return c.opts.String(path)
}

func (c *converter) entry(e model.Entry, section model.Section, index int) EntryView {
	n := len(section.Entries)
	v := EntryView{Index: index + 1, Reversed: n - index}
	values := c.entryValues(e, section)

	switch e.Kind {
	case model.KindText:
		v.Text = c.rows([]string{e.Text.Content})
	case model.KindOneLine:
		v.Text = c.rows(fill(c.template("entry_types.one_line_entry.template"), values))
	case model.KindBullet:
		v.Text = c.rows([]string{e.Bullet.Bullet})
	case model.KindNumbered:
		v.Text = c.rows([]string{e.Numbered.Number})
	case model.KindReversedNumbered:
		v.Text = c.rows([]string{e.ReversedNumbered.ReversedNumber})
	default:
		first, second, date, degree := rowTemplates(e.Kind, e.Publication)
		v.MainColumnFirstRow = c.rows(fill(c.template(first), values))
		v.MainColumnSecondRow = c.rows(fill(c.template(second), values))
		v.DateColumn = c.rows(fill(c.template(date), values))
		v.DegreeColumn = c.rows(fill(c.template(degree), values))

		v.Title = strings.Join(fill(c.template(first), values), " ")
		if c.format == formatMarkdown {
			v.Title = markup.Bold(v.Title, c.root.Settings.BoldKeywords)
		}
	}

	v.Date = values["DATE"]
	v.Location = values["LOCATION"]
	v.Summary = markup.Bold(values["SUMMARY"], c.root.Settings.BoldKeywords)
	v.Authors = values["AUTHORS"]
	v.URL = values["URL"]
	v.Journal = values["JOURNAL"]

	if hs := highlightsOf(e); len(hs) > 0 {
		v.Highlights = make([]string, len(hs))
		for i, h := range hs {
			v.Highlights[i] = markup.Bold(h, c.root.Settings.BoldKeywords)
		}
	}

	return v
}

func highlightsOf(e model.Entry) []string {
	switch e.Kind {
	case model.KindEducation:
		return e.Education.Highlights
	case model.KindExperience:
		return e.Experience.Highlights
	case model.KindNormal:
		return e.Normal.Highlights
	default:
		return nil
	}
}
