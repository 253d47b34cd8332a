package schema

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"rendercv/internal/reader"
	"rendercv/internal/theme"
)

// Check validates doc against the schema of s and returns one message per
// violation, sorted. A nil slice means the document conforms.
func Check(doc *reader.Document, s *theme.Schema) ([]string, error) {
	if s == nil {
		s = theme.BaseSchema()
	}

	schemaLoader := gojsonschema.NewGoLoader(ForTheme(s))
	docLoader := gojsonschema.NewGoLoader(Plain(doc.Root))

	res, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return nil, fmt.Errorf("schema check: %w", err)
	}

	if res.Valid() {
		return nil, nil
	}

	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}

	return sortedErrors(msgs), nil
}
