package model

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"rendercv/internal/diagnostic"
	"rendercv/internal/locale"
)

var localeKeys = []string{
	"language", "date_template", "phone_number_format", "page_numbering_template",
	"last_updated_date_template", "cv_title_template", "month", "months", "year", "years",
	"present", "to", "abbreviations_for_months", "full_names_of_months",
}

// localeStrings maps the plain string keys to their fields.
func localeStrings(l *locale.Locale) map[string]*string {
	return map[string]*string{
		"date_template":              &l.DateTemplate,
		"page_numbering_template":    &l.PageNumberingTemplate,
		"last_updated_date_template": &l.LastUpdatedDateTemplate,
		"cv_title_template":          &l.CVTitleTemplate,
		"month":                      &l.Month,
		"months":                     &l.Months,
		"year":                       &l.Year,
		"years":                      &l.Years,
		"present":                    &l.Present,
		"to":                         &l.To,
	}
}

func (b *binder) bindLocale(n *yaml.Node, path diagnostic.Path) locale.Locale {
	if isNull(n) || !b.mapping(n, path) {
		return locale.Default()
	}

	l := locale.Default()

	for _, p := range pairs(n) {
		if p.key != "language" || isNull(p.value) {
			continue
		}

		lang, ok := b.str(p.value, path.Child(p.key))
		if !ok {
			break
		}

		if !locale.Known(lang) {
			b.diags.AddWarning(path.Child(p.key),
				fmt.Sprintf("There are no translations for %q; English words are used. Override them in the locale field.", lang), lang)
		}

		l = locale.ForLanguage(lang)
	}

	strs := localeStrings(&l)

	for _, p := range pairs(n) {
		at := path.Child(p.key)

		if p.key == "language" || isNull(p.value) {
			continue
		}

		if field, ok := strs[p.key]; ok {
			if v, good := b.str(p.value, at); good {
				*field = v
			}

			continue
		}

		switch p.key {
		case "phone_number_format":
			v, good := b.str(p.value, at)
			if !good {
				continue
			}

			f := locale.PhoneFormat(v)
			if !f.Valid() {
				formats := make([]string, len(locale.PhoneFormats))
				for i, pf := range locale.PhoneFormats {
					formats[i] = string(pf)
				}

				b.diags.AddUnknown(at, diagnostic.KindValue,
					fmt.Sprintf("phone_number_format must be one of %s.", strings.Join(formats, ", ")), v, formats)

				continue
			}

			l.PhoneNumberFormat = f

		case "abbreviations_for_months", "full_names_of_months":
			months, good := b.strList(p.value, at)
			if !good {
				continue
			}

			if len(months) != 12 {
				b.diags.AddError(at, diagnostic.KindValue,
					fmt.Sprintf("Expected 12 month names, got %d.", len(months)), inputOf(p.value))

				continue
			}

			if p.key == "abbreviations_for_months" {
				l.AbbreviationsForMonths = months
			} else {
				l.FullNamesOfMonths = months
			}

		default:
			b.unknown(p, path, localeKeys)
		}
	}

	return l
}
