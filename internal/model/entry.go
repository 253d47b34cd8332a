package model

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"rendercv/internal/common"
	"rendercv/internal/diagnostic"
	"rendercv/internal/primitive"
)

var doiPattern = regexp.MustCompile(`^10\.\d{4,9}/[-._;()/:A-Za-z0-9]+$`)

var (
	ErrInvalidDOI = errors.New("invalid DOI")
	ErrInvalidURL = errors.New("invalid URL")
)

// Dates holds the date fields of an entry. Date is a single point in time
// and takes precedence over the Start/End range.
type Dates struct {
	Start primitive.Date
	End   primitive.Date
	Date  primitive.Date
}

// IsZero reports whether no date is set.
func (d Dates) IsZero() bool {
	return d.Start.IsZero() && d.End.IsZero() && d.Date.IsZero()
}

// IsRange reports whether the dates describe a range, i.e. Date is unset and
// Start is set.
func (d Dates) IsRange() bool {
	return d.Date.IsZero() && !d.Start.IsZero()
}

// SortKey returns the point in time an entry is ordered by: Date when given,
// otherwise the later of Start and End.
func (d Dates) SortKey(today time.Time) (time.Time, bool) {
	if !d.Date.IsZero() {
		return d.Date.Resolve(today), true
	}

	var (
		key   time.Time
		found bool
	)

	for _, v := range []primitive.Date{d.Start, d.End} {
		if v.IsZero() {
			continue
		}

		if t := v.Resolve(today); !found || t.After(key) {
			key, found = t, true
		}
	}

	return key, found
}

type TextEntry struct {
	Content string
}

type OneLineEntry struct {
	Label   string
	Details string
}

type BulletEntry struct {
	Bullet string
}

type NumberedEntry struct {
	Number string
}

type ReversedNumberedEntry struct {
	ReversedNumber string
}

type PublicationEntry struct {
	Title   string
	Authors []string
	DOI     string
	URL     string
	Journal string
	Date    primitive.Date
	Summary string
}

// DOIURL returns the resolver URL of the DOI, or "".
func (p *PublicationEntry) DOIURL() string {
	if p.DOI == "" {
		return ""
	}

	return "https://doi.org/" + p.DOI
}

// Link returns the URL to show for the publication: the DOI link when a DOI
// is given, otherwise URL.
func (p *PublicationEntry) Link() string {
	if u := p.DOIURL(); u != "" {
		return u
	}

	return p.URL
}

type EducationEntry struct {
	Institution string
	Area        string
	Degree      string
	Location    string
	Dates
	Summary    string
	Highlights []string
}

type ExperienceEntry struct {
	Company  string
	Position string
	Location string
	Dates
	Summary    string
	Highlights []string
}

type NormalEntry struct {
	Name     string
	Location string
	Dates
	Summary    string
	Highlights []string
}

// Entry is one item of a section. Exactly one variant pointer, the one
// matching Kind, is non-nil.
type Entry struct {
	Kind EntryKind
	Tags []string
	// Extra holds additional scalar fields keyed by their upper-case name.
	// Field templates substitute them like built-in tokens.
	Extra map[string]string

	Text             *TextEntry
	OneLine          *OneLineEntry
	Bullet           *BulletEntry
	Numbered         *NumberedEntry
	ReversedNumbered *ReversedNumberedEntry
	Publication      *PublicationEntry
	Education        *EducationEntry
	Experience       *ExperienceEntry
	Normal           *NormalEntry
}

func NewText(content string, tags ...string) Entry {
	return Entry{Kind: KindText, Tags: tags, Text: &TextEntry{Content: content}}
}

func NewOneLine(e OneLineEntry, tags ...string) Entry {
	return Entry{Kind: KindOneLine, Tags: tags, OneLine: &e}
}

func NewBullet(bullet string, tags ...string) Entry {
	return Entry{Kind: KindBullet, Tags: tags, Bullet: &BulletEntry{Bullet: bullet}}
}

func NewNumbered(number string, tags ...string) Entry {
	return Entry{Kind: KindNumbered, Tags: tags, Numbered: &NumberedEntry{Number: number}}
}

func NewReversedNumbered(number string, tags ...string) Entry {
	return Entry{Kind: KindReversedNumbered, Tags: tags, ReversedNumbered: &ReversedNumberedEntry{ReversedNumber: number}}
}

func NewPublication(e PublicationEntry, tags ...string) Entry {
	return Entry{Kind: KindPublication, Tags: tags, Publication: &e}
}

func NewEducation(e EducationEntry, tags ...string) Entry {
	return Entry{Kind: KindEducation, Tags: tags, Education: &e}
}

func NewExperience(e ExperienceEntry, tags ...string) Entry {
	return Entry{Kind: KindExperience, Tags: tags, Experience: &e}
}

func NewNormal(e NormalEntry, tags ...string) Entry {
	return Entry{Kind: KindNormal, Tags: tags, Normal: &e}
}

// Dates returns the date fields of the entry. Publications only carry a
// point date; kinds without dates report false.
func (e Entry) Dates() (Dates, bool) {
	switch e.Kind {
	case KindEducation:
		return e.Education.Dates, true
	case KindExperience:
		return e.Experience.Dates, true
	case KindNormal:
		return e.Normal.Dates, true
	case KindPublication:
		return Dates{Date: e.Publication.Date}, true
	default:
		return Dates{}, false
	}
}

// SortKey returns the date the entry is ordered by.
func (e Entry) SortKey(today time.Time) (time.Time, bool) {
	d, ok := e.Dates()
	if !ok {
		return time.Time{}, false
	}

	return d.SortKey(today)
}

type fieldType int

const (
	fieldString fieldType = iota
	fieldList
	fieldDate
	fieldEndDate
	fieldDOI
	fieldURL
)

type fieldSpec struct {
	name     string
	typ      fieldType
	required bool
}

var dateFields = []fieldSpec{
	{"start_date", fieldDate, false},
	{"end_date", fieldEndDate, false},
	{"date", fieldDate, false},
}

var entryFields = map[EntryKind][]fieldSpec{
	KindText:             {{"text", fieldString, true}},
	KindOneLine:          {{"label", fieldString, true}, {"details", fieldString, true}},
	KindBullet:           {{"bullet", fieldString, true}},
	KindNumbered:         {{"number", fieldString, true}},
	KindReversedNumbered: {{"reversed_number", fieldString, true}},
	KindPublication: {
		{"title", fieldString, true},
		{"authors", fieldList, true},
		{"doi", fieldDOI, false},
		{"url", fieldURL, false},
		{"journal", fieldString, false},
		{"date", fieldDate, false},
		{"summary", fieldString, false},
	},
	KindEducation: append([]fieldSpec{
		{"institution", fieldString, true},
		{"area", fieldString, true},
		{"degree", fieldString, false},
		{"location", fieldString, false},
		{"summary", fieldString, false},
		{"highlights", fieldList, false},
	}, dateFields...),
	KindExperience: append([]fieldSpec{
		{"company", fieldString, true},
		{"position", fieldString, true},
		{"location", fieldString, false},
		{"summary", fieldString, false},
		{"highlights", fieldList, false},
	}, dateFields...),
	KindNormal: append([]fieldSpec{
		{"name", fieldString, true},
		{"location", fieldString, false},
		{"summary", fieldString, false},
		{"highlights", fieldList, false},
	}, dateFields...),
}

// kindOf discriminates a raw entry. The first kind whose required keys are
// all present wins.
func kindOf(n *yaml.Node) (EntryKind, bool) {
	n = deref(n)
	if n == nil {
		return 0, false
	}

	if n.Kind == yaml.ScalarNode && n.ShortTag() != "!!null" {
		return KindText, true
	}

	if n.Kind != yaml.MappingNode {
		return 0, false
	}

	for _, d := range discriminators {
		matched := true

		for _, key := range d.required {
			if !hasKey(n, key) {
				matched = false
				break
			}
		}

		if matched {
			return d.kind, true
		}
	}

	return 0, false
}

func entryShapes() string {
	shapes := make([]string, 0, len(discriminators))
	for _, d := range discriminators {
		shapes = append(shapes, d.kind.TemplateName()+" ("+strings.Join(d.required, ", ")+")")
	}

	return strings.Join(shapes, "; ")
}

// boundFields holds the typed values of an entry mapping.
type boundFields struct {
	strs  map[string]string
	lists map[string][]string
	dates map[string]primitive.Date
}

// bindEntry binds n as an entry of the given kind.
func (b *binder) bindEntry(n *yaml.Node, kind EntryKind, path diagnostic.Path) (Entry, bool) {
	n = deref(n)
	if n.Kind == yaml.ScalarNode {
		return NewText(n.Value), true
	}

	specs := entryFields[kind]
	bound := boundFields{
		strs:  map[string]string{},
		lists: map[string][]string{},
		dates: map[string]primitive.Date{},
	}
	entry := Entry{Kind: kind}
	ok := true

	for _, p := range pairs(n) {
		at := path.Child(p.key)

		if p.key == "tags" {
			tags, good := b.strList(p.value, at)
			ok = ok && good
			entry.Tags = common.Dedupe(tags)

			continue
		}

		spec, known := findSpec(specs, p.key)
		if !known {
			b.bindExtra(&entry, p, at)
			continue
		}

		if isNull(p.value) {
			if spec.required {
				b.diags.AddError(at, diagnostic.KindMissing, fmt.Sprintf("Field %q is required.", p.key), "")
				ok = false
			}

			continue
		}

		if !b.bindField(spec, p.value, at, &bound) {
			ok = false
		}
	}

	if !ok {
		return Entry{}, false
	}

	if !b.checkRange(kind, bound, path) {
		return Entry{}, false
	}

	return fill(entry, bound), true
}

func findSpec(specs []fieldSpec, key string) (fieldSpec, bool) {
	for _, s := range specs {
		if s.name == key {
			return s, true
		}
	}

	return fieldSpec{}, false
}

func (b *binder) bindField(spec fieldSpec, n *yaml.Node, at diagnostic.Path, bound *boundFields) bool {
	switch spec.typ {
	case fieldList:
		v, good := b.strList(n, at)
		bound.lists[spec.name] = v

		return good

	case fieldDate, fieldEndDate:
		v, good := b.date(n, at, spec.typ == fieldEndDate)
		bound.dates[spec.name] = v

		return good

	case fieldDOI, fieldURL:
		v, good := b.str(n, at)
		if !good {
			return false
		}

		v = strings.TrimSpace(v)
		if err := checkLink(spec.typ, v); err != nil {
			b.diags.AddCause(at, diagnostic.KindValue, err, v)
			return false
		}

		bound.strs[spec.name] = v

		return true

	default:
		v, good := b.str(n, at)
		bound.strs[spec.name] = v

		return good
	}
}

func checkLink(typ fieldType, v string) error {
	if typ == fieldDOI {
		if !doiPattern.MatchString(v) {
			return fmt.Errorf("%w: %q does not look like 10.XXXX/suffix", ErrInvalidDOI, v)
		}

		return nil
	}

	return checkURL(v)
}

func checkURL(v string) error {
	u, err := url.Parse(v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q is not an http or https URL", ErrInvalidURL, v)
	}

	return nil
}

// bindExtra keeps an unknown scalar field for template substitution. Nested
// values cannot be substituted and are only reported as warnings.
func (b *binder) bindExtra(entry *Entry, p pair, at diagnostic.Path) {
	if p.value.Kind != yaml.ScalarNode {
		b.diags.AddWarning(at, fmt.Sprintf("Field %q is ignored because it is not a plain value.", p.key), inputOf(p.value))
		return
	}

	if entry.Extra == nil {
		entry.Extra = map[string]string{}
	}

	entry.Extra[strings.ToUpper(p.key)] = p.value.Value
}

// checkRange enforces start_date <= end_date when no point date overrides
// the range. A missing end_date counts as present.
func (b *binder) checkRange(kind EntryKind, bound boundFields, path diagnostic.Path) bool {
	if !kind.HasDateRange() {
		return true
	}

	start, end := bound.dates["start_date"], bound.dates["end_date"]
	if !bound.dates["date"].IsZero() || start.IsZero() {
		return true
	}

	if end.IsZero() {
		end = primitive.Present()
	}

	if primitive.Compare(start, end, b.today) <= 0 {
		return true
	}

	b.diags.AddError(path, diagnostic.KindValue,
		fmt.Sprintf("start_date (%s) is after end_date (%s)! Please check the dates.", start, end),
		start.String())

	return false
}

func fill(entry Entry, f boundFields) Entry {
	dates := Dates{Start: f.dates["start_date"], End: f.dates["end_date"], Date: f.dates["date"]}
	if dates.IsRange() && dates.End.IsZero() {
		dates.End = primitive.Present()
	}

	switch entry.Kind {
	case KindText:
		entry.Text = &TextEntry{Content: f.strs["text"]}
	case KindOneLine:
		entry.OneLine = &OneLineEntry{Label: f.strs["label"], Details: f.strs["details"]}
	case KindBullet:
		entry.Bullet = &BulletEntry{Bullet: f.strs["bullet"]}
	case KindNumbered:
		entry.Numbered = &NumberedEntry{Number: f.strs["number"]}
	case KindReversedNumbered:
		entry.ReversedNumbered = &ReversedNumberedEntry{ReversedNumber: f.strs["reversed_number"]}
	case KindPublication:
		entry.Publication = &PublicationEntry{
			Title:   f.strs["title"],
			Authors: f.lists["authors"],
			DOI:     f.strs["doi"],
			URL:     f.strs["url"],
			Journal: f.strs["journal"],
			Date:    f.dates["date"],
			Summary: f.strs["summary"],
		}
	case KindEducation:
		entry.Education = &EducationEntry{
			Institution: f.strs["institution"],
			Area:        f.strs["area"],
			Degree:      f.strs["degree"],
			Location:    f.strs["location"],
			Dates:       dates,
			Summary:     f.strs["summary"],
			Highlights:  f.lists["highlights"],
		}
	case KindExperience:
		entry.Experience = &ExperienceEntry{
			Company:    f.strs["company"],
			Position:   f.strs["position"],
			Location:   f.strs["location"],
			Dates:      dates,
			Summary:    f.strs["summary"],
			Highlights: f.lists["highlights"],
		}
	case KindNormal:
		entry.Normal = &NormalEntry{
			Name:       f.strs["name"],
			Location:   f.strs["location"],
			Dates:      dates,
			Summary:    f.strs["summary"],
			Highlights: f.lists["highlights"],
		}
	}

	return entry
}

// Field describes one key of an entry mapping.
type Field struct {
	Name     string
	Required bool
	// List fields hold strings; Date fields accept a year or an ISO date and
	// EndDate fields also accept "present".
	List, Date, EndDate, URL bool
	// Pattern restricts string values when set.
	Pattern string
}

// Fields describes the keys of entries of kind k.
func (k EntryKind) Fields() []Field {
	specs := entryFields[k]
	out := make([]Field, len(specs))

	for i, s := range specs {
		f := Field{Name: s.name, Required: s.required}

		switch s.typ {
		case fieldList:
			f.List = true
		case fieldDate:
			f.Date = true
		case fieldEndDate:
			f.Date, f.EndDate = true, true
		case fieldDOI:
			f.Pattern = doiPattern.String()
		case fieldURL:
			f.URL = true
		}

		out[i] = f
	}

	return out
}
