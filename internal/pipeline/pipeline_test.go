package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rendercv/internal/diagnostic"
)

var testToday = time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

// fakeCompiler writes a stub for every job; PNG jobs produce two pages.
type fakeCompiler struct {
	mu   sync.Mutex
	jobs []Job
	err  error
}

func (c *fakeCompiler) Compile(_ context.Context, job Job) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.jobs = append(c.jobs, job)
	if c.err != nil {
		return c.err
	}

	if job.Format == KindPNG {
		for _, page := range []string{"1", "2"} {
			if err := os.WriteFile(strings.Replace(job.Output, pagePlaceholder, page, 1), []byte("png"), filePerm); err != nil {
				return err
			}
		}

		return nil
	}

	return os.WriteFile(job.Output, []byte("pdf"), filePerm)
}

const testCV = `cv:
  name: John Doe
  sections:
    experience:
      - company: Acme
        position: Engineer
        start_date: 2020-01
        end_date: present
        tags: [industry]
    publications:
      - title: Paper
        authors: [John Doe]
        date: 2023
        tags: [research]
versions:
  - name: academic
    include: [research]
  - name: industry
    exclude: [research]
`

func writeInput(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "John_Doe_CV.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), filePerm))

	return path
}

func TestRender(t *testing.T) {
	input := writeInput(t, testCV)
	compiler := &fakeCompiler{}

	var logs bytes.Buffer

	p := New(WithCompiler(compiler), WithLogger(zerolog.New(&logs)))

	res, err := p.Render(context.Background(), Request{Input: input, Today: testToday})
	require.NoError(t, err)

	out := filepath.Join(filepath.Dir(input), "rendercv_output")

	assert.Equal(t, []string{filepath.Join(out, "John_Doe_CV.typ")}, res.Paths(KindTypst))
	assert.Equal(t, []string{filepath.Join(out, "John_Doe_CV.md")}, res.Paths(KindMarkdown))
	assert.Equal(t, []string{filepath.Join(out, "John_Doe_CV.html")}, res.Paths(KindHTML))
	assert.Equal(t, []string{filepath.Join(out, "John_Doe_CV.pdf")}, res.Paths(KindPDF))
	assert.Equal(t, []string{
		filepath.Join(out, "John_Doe_CV_1.png"),
		filepath.Join(out, "John_Doe_CV_2.png"),
	}, res.Paths(KindPNG))

	for _, a := range res.Artifacts {
		assert.FileExists(t, a.Path)
	}

	typ, err := os.ReadFile(filepath.Join(out, "John_Doe_CV.typ"))
	require.NoError(t, err)
	assert.Contains(t, string(typ), "#strong[Acme], Engineer")
	assert.Contains(t, string(typ), "#strong[Paper]")

	require.Len(t, compiler.jobs, 2)
	assert.Equal(t, KindPDF, compiler.jobs[0].Format)
	assert.Equal(t, KindPNG, compiler.jobs[1].Format)

	assert.NotEmpty(t, res.RunID)
	assert.Contains(t, logs.String(), res.RunID)
	assert.Contains(t, logs.String(), `"stage":"write"`)
}

func TestRender_Overrides(t *testing.T) {
	input := writeInput(t, testCV)
	compiler := &fakeCompiler{}

	res, err := New(WithCompiler(compiler)).Render(context.Background(), Request{
		Input: input,
		Overrides: Overrides{
			"output_folder":          "out",
			"dont_generate_png":      true,
			"dont_generate_html":     true,
			"dont_generate_markdown": true,
		},
		Today: testToday,
	})
	require.NoError(t, err)

	out := filepath.Join(filepath.Dir(input), "out")

	kinds := make([]ArtifactKind, 0, len(res.Artifacts))
	for _, a := range res.Artifacts {
		kinds = append(kinds, a.Kind)
		assert.Equal(t, out, filepath.Dir(a.Path))
	}

	assert.Equal(t, []ArtifactKind{KindTypst, KindPDF}, kinds)
	require.Len(t, compiler.jobs, 1)
}

func TestRender_Versions(t *testing.T) {
	input := writeInput(t, testCV)

	res, err := New(WithCompiler(&fakeCompiler{})).Render(context.Background(), Request{
		Input:       input,
		AllVersions: true,
		Overrides:   Overrides{"dont_generate_png": true, "dont_generate_pdf": true},
		Today:       testToday,
	})
	require.NoError(t, err)

	typst := res.Paths(KindTypst)
	require.Len(t, typst, 2)
	assert.Equal(t, "John_Doe_CV_academic.typ", filepath.Base(typst[0]))
	assert.Equal(t, "John_Doe_CV_industry.typ", filepath.Base(typst[1]))

	academic, err := os.ReadFile(typst[0])
	require.NoError(t, err)
	assert.Contains(t, string(academic), "#strong[Paper]")
	assert.NotContains(t, string(academic), "Acme")

	industry, err := os.ReadFile(typst[1])
	require.NoError(t, err)
	assert.Contains(t, string(industry), "Acme")
	assert.NotContains(t, string(industry), "#strong[Paper]")
}

func TestRender_Errors(t *testing.T) {
	t.Run("unknown version", func(t *testing.T) {
		_, err := New(WithCompiler(&fakeCompiler{})).Render(context.Background(), Request{
			Input:    writeInput(t, testCV),
			Versions: []string{"academik"},
			Today:    testToday,
		})

		var uerr *diagnostic.UserError
		require.True(t, errors.As(err, &uerr), "got %v", err)
		assert.Contains(t, err.Error(), `did you mean "academic"?`)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := New(WithCompiler(&fakeCompiler{})).Render(context.Background(), Request{
			Input: writeInput(t, "cv:\n  label: no name\n"),
			Today: testToday,
		})

		var verr *diagnostic.ValidationError
		require.True(t, errors.As(err, &verr), "got %v", err)
	})

	t.Run("invalid override", func(t *testing.T) {
		_, err := New(WithCompiler(&fakeCompiler{})).Render(context.Background(), Request{
			Input:     writeInput(t, testCV),
			Overrides: Overrides{"sort_entries": "newest"},
			Today:     testToday,
		})

		var verr *diagnostic.ValidationError
		require.True(t, errors.As(err, &verr), "got %v", err)
		assert.Equal(t, []string{"settings", "sort_entries"}, verr.Records[0].Location)
	})

	t.Run("compiler failure", func(t *testing.T) {
		failure := diagnostic.NewUserError("typst failed", nil)

		_, err := New(WithCompiler(&fakeCompiler{err: failure})).Render(context.Background(), Request{
			Input: writeInput(t, testCV),
			Today: testToday,
		})
		require.ErrorIs(t, err, failure)
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := New(WithCompiler(&fakeCompiler{})).Render(ctx, Request{Input: writeInput(t, testCV)})
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestRender_CopiesPhoto(t *testing.T) {
	input := writeInput(t, strings.Replace(testCV, "  name: John Doe\n", "  name: John Doe\n  photo: me.png\n", 1))
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(input), "me.png"), []byte("img"), filePerm))

	res, err := New(WithCompiler(&fakeCompiler{})).Render(context.Background(), Request{
		Input:     input,
		Overrides: Overrides{"dont_generate_png": true},
		Today:     testToday,
	})
	require.NoError(t, err)

	typst := res.Paths(KindTypst)
	require.Len(t, typst, 1)
	assert.FileExists(t, filepath.Join(filepath.Dir(typst[0]), "me.png"))
}

func TestValidate(t *testing.T) {
	root, err := New().Validate(context.Background(), Request{
		Input:     "cv:\n  name: John Doe\n",
		Overrides: Overrides{"current_date": "2020-05-01"},
	})
	require.NoError(t, err)

	assert.Equal(t, "John Doe", root.CV.Name)
	assert.Equal(t, 2020, root.Year())
}
