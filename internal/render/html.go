package render

import (
	"fmt"
	"strings"

	"rendercv/internal/theme"
)

// stylesheet derives the page style of the HTML output from the design
// options so the page resembles the PDF.
func stylesheet(o *theme.Options) string {
	var b strings.Builder

	rule := func(selector string, decls ...string) {
		fmt.Fprintf(&b, "%s { %s }\n", selector, strings.Join(decls, "; "))
	}

	align := "left"
	if strings.HasPrefix(o.String("text.alignment"), "justified") {
		align = "justify"
	}

	rule("body",
		"font-family: "+quoteFont(o.String("text.font_family"))+", sans-serif",
		"font-size: "+o.String("text.font_size"),
		"color: "+o.String("colors.text"),
		"max-width: 50em",
		"margin: "+o.String("page.top_margin")+" auto",
		"padding: 0 "+o.String("page.left_margin"),
		"text-align: "+align,
	)
	rule("h1:first-of-type",
		"color: "+o.String("colors.name"),
		"font-size: "+o.String("header.name_font_size"),
		"text-align: "+o.String("header.alignment"),
	)
	rule("h1", "color: "+o.String("colors.section_titles"), "border-bottom: "+o.String("section_titles.line_thickness")+" solid")
	rule("h2", "font-size: 1.1em", "margin-bottom: 0.2em")
	rule("a", "color: "+o.String("colors.links"), linkDecoration(o.Bool("links.underline")))
	rule("li", "margin-bottom: "+o.String("highlights.vertical_space_between_highlights"))

	return b.String()
}

func quoteFont(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, "") + `"`
}

func linkDecoration(underline bool) string {
	if underline {
		return "text-decoration: underline"
	}

	return "text-decoration: none"
}
