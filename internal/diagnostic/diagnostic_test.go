package diagnostic

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rendercv/internal/primitive"
)

type fakeLocator map[string]Span

func (f fakeLocator) Locate(path []string) (Span, bool) {
	s, ok := f[strings.Join(path, ".")]
	return s, ok
}

func span(line, col, endCol int) Span {
	return Span{Start: Position{Line: line, Column: col}, End: Position{Line: line, Column: endCol}}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"a", "b", 1},
		{"ab", "abc", 1},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"linkedin", "linkdin", 1},
		{"türkçe", "turkce", 2},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b))
			assert.Equal(t, tt.want, Levenshtein(tt.b, tt.a))
		})
	}
}

func TestSuggest(t *testing.T) {
	networks := []string{"LinkedIn", "GitHub", "GitLab", "ORCID", "Google Scholar"}

	assert.Equal(t, []string{"GitHub"}, Suggest("github", networks))
	assert.Equal(t, []string{"LinkedIn"}, Suggest("Linkdin", networks))
	assert.Equal(t, []string{"Google Scholar"}, Suggest("google_scholar", networks))
	assert.Nil(t, Suggest("facebook", networks))
	assert.Nil(t, Suggest("", networks))

	themes := []string{"classic", "moderncv", "sb2nov", "engineeringclassic", "engineeringresumes"}
	assert.Equal(t, []string{"classic"}, Suggest("clasic", themes))
}

func TestPath(t *testing.T) {
	p := Path{"cv", "sections"}
	child := p.Child("experience").Index(2).Child("end_date")

	assert.Equal(t, "cv.sections.experience.2.end_date", child.String())
	assert.Equal(t, "end_date", child.Field())
	assert.Equal(t, "experience", Path{"cv", "sections", "experience", "2"}.Field())
	assert.Len(t, p, 2, "Child must not alias the parent")
}

func TestRewrite(t *testing.T) {
	dateErr := fmt.Errorf("%w: %q", primitive.ErrInvalidDate, "2020-13")

	tests := []struct {
		name     string
		failure  Failure
		contains string
	}{
		{
			name:     "end date lists present",
			failure:  Failure{Path: Path{"cv", "sections", "x", "0", "end_date"}, Err: dateErr},
			contains: `"present"`,
		},
		{
			name:     "start date",
			failure:  Failure{Path: Path{"cv", "sections", "x", "0", "start_date"}, Err: dateErr},
			contains: "YYYY-MM-DD, YYYY-MM, or YYYY",
		},
		{
			name:     "present not allowed",
			failure:  Failure{Path: Path{"start_date"}, Err: primitive.ErrPresentNotAllowed},
			contains: "only allowed in end_date",
		},
		{
			name:     "dimension",
			failure:  Failure{Err: fmt.Errorf("%w: 1 cm", primitive.ErrInvalidDimension)},
			contains: "0.7cm",
		},
		{
			name:     "suggestions",
			failure:  Failure{Message: "Unknown theme.", Suggestions: []string{"classic"}},
			contains: `Did you mean "classic"?`,
		},
		{
			name:     "plain message",
			failure:  Failure{Message: "This field is required."},
			contains: "This field is required.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, Rewrite(tt.failure), tt.contains)
		})
	}

	assert.NotContains(t, Rewrite(Failure{Path: Path{"start_date"}, Err: dateErr}), "present")
}

func TestTranslate(t *testing.T) {
	loc := fakeLocator{
		"":                         span(1, 1, 1),
		"cv":                       span(1, 1, 3),
		"cv.sections.x.0":          span(4, 7, 20),
		"cv.sections.x.0.end_date": span(6, 7, 15),
		"cv.sections.x.1":          span(8, 7, 20),
		"design.theme":             span(10, 3, 8),
	}

	var d Diagnostics

	d.AddCause(Path{"cv", "sections", "x", "0", "end_date"}, KindValue,
		fmt.Errorf("%w: %q", primitive.ErrInvalidDate, "2020-13"), "2020-13")
	d.AddError(Path{"cv", "sections", "x", "1", "company"}, KindMissing, "This field is required.", "")
	d.AddError(Path{"cv", "sections", "x", "0", "end_date"}, KindValue, "duplicate", "2020-13")
	d.AddError(Path{"cv", "sections", "x", "0", "end_date"}, KindValue, "duplicate", "2020-13")
	d.AddUnknown(Path{"design", "theme"}, KindValue, "Unknown theme.", "clasic", []string{"classic", "moderncv"})

	records, err := Translate(loc, d.Errors)
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, []string{"cv", "sections", "x", "0", "end_date"}, records[0].Location)
	assert.Equal(t, span(6, 7, 15), records[0].YAMLLocation)
	assert.Equal(t, "2020-13", records[0].Input)

	assert.Equal(t, []string{"cv", "sections", "x", "1", "company"}, records[1].Location)
	assert.Equal(t, span(8, 7, 20), records[1].YAMLLocation, "missing fields point at the parent")

	assert.Equal(t, "duplicate", records[2].Message)
	assert.Contains(t, records[3].Message, `"classic"`)
}

func TestTranslate_UnknownPath(t *testing.T) {
	var d Diagnostics
	d.AddError(Path{"cv", "nope"}, KindValue, "bad", "")

	_, err := Translate(fakeLocator{}, d.Errors)
	require.Error(t, err)

	var internal *InternalError
	assert.True(t, errors.As(err, &internal))
}

func TestDiagnostics_Validation(t *testing.T) {
	var d Diagnostics
	assert.NoError(t, d.Validation(fakeLocator{}, "cv.yaml"))

	d.AddWarning(Path{"locale", "language"}, "unknown language", "klingon")
	assert.NoError(t, d.Validation(fakeLocator{}, "cv.yaml"), "warnings never fail")

	d.AddError(Path{"cv"}, KindMissing, "This field is required.", "")

	err := d.Validation(fakeLocator{"": span(1, 1, 1)}, "cv.yaml")
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Records, 1)
	assert.Contains(t, err.Error(), "cv.yaml:1:1: cv: This field is required.")
}

func TestErrors(t *testing.T) {
	cause := errors.New("exit status 1")

	userErr := NewUserError("typst failed", cause)
	assert.Equal(t, "typst failed: exit status 1", userErr.Error())
	assert.ErrorIs(t, userErr, cause)

	internal := NewInternalError("broken", nil)
	assert.Equal(t, "internal error: broken", internal.Error())

	var target *UserError
	assert.False(t, errors.As(error(internal), &target))
}
