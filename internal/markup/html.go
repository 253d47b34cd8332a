package markup

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

var htmlConverter = goldmark.New(goldmark.WithRendererOptions(html.WithHardWraps()))

// HTML converts a Markdown document to an HTML fragment. Raw HTML in the
// input is omitted.
func HTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := htmlConverter.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}

	return buf.String(), nil
}
