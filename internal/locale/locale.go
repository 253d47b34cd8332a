package locale

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog/*.yaml
var catalogFS embed.FS

// DefaultLanguage is used when a document does not name a language.
const DefaultLanguage = "english"

// PhoneFormat selects how phone numbers are printed.
type PhoneFormat string

const (
	PhoneNational      PhoneFormat = "national"
	PhoneInternational PhoneFormat = "international"
	PhoneE164          PhoneFormat = "E164"
)

// PhoneFormats lists the accepted phone_number_format values.
var PhoneFormats = []PhoneFormat{PhoneNational, PhoneInternational, PhoneE164}

// Valid reports whether f is one of PhoneFormats.
func (f PhoneFormat) Valid() bool {
	return slices.Contains(PhoneFormats, f)
}

var languageCodes = map[string]string{
	"english": "en", "turkish": "tr", "german": "de", "french": "fr", "spanish": "es",
	"arabic": "ar", "hebrew": "he", "persian": "fa", "urdu": "ur",
}

var rtlLanguages = map[string]struct{}{
	"arabic": {}, "hebrew": {}, "persian": {}, "urdu": {},
	"ar": {}, "he": {}, "fa": {}, "ur": {},
}

// Locale is a resolved set of translations and formatting rules.
type Locale struct {
	Language                string      `yaml:"language"`
	DateTemplate            string      `yaml:"date_template"`
	PhoneNumberFormat       PhoneFormat `yaml:"phone_number_format"`
	PageNumberingTemplate   string      `yaml:"page_numbering_template"`
	LastUpdatedDateTemplate string      `yaml:"last_updated_date_template"`
	CVTitleTemplate         string      `yaml:"cv_title_template"`
	Month                   string      `yaml:"month"`
	Months                  string      `yaml:"months"`
	Year                    string      `yaml:"year"`
	Years                   string      `yaml:"years"`
	Present                 string      `yaml:"present"`
	To                      string      `yaml:"to"`
	AbbreviationsForMonths  []string    `yaml:"abbreviations_for_months"`
	FullNamesOfMonths       []string    `yaml:"full_names_of_months"`

	rtl bool
}

var catalog = mustLoadCatalog()

func mustLoadCatalog() map[string]Locale {
	out, err := loadCatalog(catalogFS)
	if err != nil {
		panic(err)
	}

	return out
}

func loadCatalog(fsys fs.FS) (map[string]Locale, error) {
	names, err := fs.Glob(fsys, "catalog/*.yaml")
	if err != nil {
		return nil, err
	}

	out := make(map[string]Locale, len(names))

	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}

		var l Locale
		if err := yaml.Unmarshal(data, &l); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}

		if err := l.check(); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		lang := strings.TrimSuffix(path.Base(name), path.Ext(name))
		l.Language = lang
		l.rtl = isRTLLanguage(lang)
		out[lang] = l
	}

	return out, nil
}

func (l Locale) check() error {
	if len(l.AbbreviationsForMonths) != 12 {
		return fmt.Errorf("abbreviations_for_months must have 12 items, got %d", len(l.AbbreviationsForMonths))
	}

	if len(l.FullNamesOfMonths) != 12 {
		return fmt.Errorf("full_names_of_months must have 12 items, got %d", len(l.FullNamesOfMonths))
	}

	if !l.PhoneNumberFormat.Valid() {
		return fmt.Errorf("unknown phone_number_format %q", l.PhoneNumberFormat)
	}

	return nil
}

// Languages returns the catalog languages in sorted order.
func Languages() []string {
	out := make([]string, 0, len(catalog))
	for lang := range catalog {
		out = append(out, lang)
	}

	slices.Sort(out)

	return out
}

// Known reports whether the catalog ships translations for language.
func Known(language string) bool {
	_, ok := catalog[strings.ToLower(language)]
	return ok
}

// Default returns the English locale.
func Default() Locale {
	return ForLanguage(DefaultLanguage)
}

// ForLanguage returns the catalog locale for language. Unknown languages get
// the English strings under their own name.
func ForLanguage(language string) Locale {
	lang := strings.ToLower(strings.TrimSpace(language))

	l, ok := catalog[lang]
	if !ok {
		l = catalog[DefaultLanguage]
		l.Language = lang
		l.rtl = isRTLLanguage(lang)
	}

	l.AbbreviationsForMonths = slices.Clone(l.AbbreviationsForMonths)
	l.FullNamesOfMonths = slices.Clone(l.FullNamesOfMonths)

	return l
}

func isRTLLanguage(lang string) bool {
	_, ok := rtlLanguages[lang]
	return ok
}

// IsRTL reports whether the language is written right to left.
func (l Locale) IsRTL() bool {
	return l.rtl
}

// TextDirection returns "rtl" or "ltr".
func (l Locale) TextDirection() string {
	if l.rtl {
		return "rtl"
	}

	return "ltr"
}

// Code returns the ISO 639-1 code of the language. Two letter languages are
// returned as given; unknown names fall back to "en".
func (l Locale) Code() string {
	if code, ok := languageCodes[l.Language]; ok {
		return code
	}

	if len(l.Language) == 2 {
		return l.Language
	}

	return "en"
}

// CVTitle fills the {name} placeholder of the CV title template.
func (l Locale) CVTitle(name string) string {
	return strings.ReplaceAll(l.CVTitleTemplate, "{name}", name)
}
