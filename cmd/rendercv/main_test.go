package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rendercv/internal/diagnostic"
)

func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	t.Setenv(envLogLevel, "disabled")

	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)

	return code, out.String(), errOut.String()
}

func TestRun_Usage(t *testing.T) {
	code, _, stderr := runCLI(t)
	assert.Equal(t, exitOK, code)

	for _, name := range commandNames() {
		assert.Contains(t, stderr, name)
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	code, _, stderr := runCLI(t, "rendr")
	assert.Equal(t, exitUser, code)
	assert.Contains(t, stderr, `did you mean "render"?`)
}

func TestNewAndRender(t *testing.T) {
	dir := t.TempDir()

	code, stdout, stderr := runCLI(t, "new", "-dir", dir, "John Doe")
	require.Equal(t, exitOK, code, stderr)

	input := filepath.Join(dir, "John_Doe_CV.yaml")
	assert.Equal(t, input, strings.TrimSpace(stdout))
	assert.FileExists(t, input)

	code, _, stderr = runCLI(t, "new", "-dir", dir, "John Doe")
	assert.Equal(t, exitUser, code)
	assert.Contains(t, stderr, "already exists")

	code, _, stderr = runCLI(t, "validate", input)
	require.Equal(t, exitOK, code, stderr)

	code, _, stderr = runCLI(t, "validate", "-schema", input)
	require.Equal(t, exitOK, code, stderr)

	code, stdout, stderr = runCLI(t, "render",
		"-dont-generate-pdf", "-dont-generate-png", "-output-folder", "out", input)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "typst")
	assert.Contains(t, stdout, "markdown")
	assert.Contains(t, stdout, "html")

	for _, ext := range []string{".typ", ".md", ".html"} {
		assert.FileExists(t, filepath.Join(dir, "out", "John_Doe_CV"+ext))
	}
}

func TestValidate_Errors(t *testing.T) {
	input := filepath.Join(t.TempDir(), "cv.yaml")
	require.NoError(t, os.WriteFile(input, []byte("cv:\n  name: John Doe\n  emial: john@example.com\n"), 0o644))

	code, _, stderr := runCLI(t, "validate", input)
	assert.Equal(t, exitUser, code)
	assert.Contains(t, stderr, "cv.emial:")

	code, stdout, _ := runCLI(t, "validate", "-json", input)
	assert.Equal(t, exitUser, code)

	var records []diagnostic.Record
	require.NoError(t, json.Unmarshal([]byte(stdout), &records))
	require.Len(t, records, 1)
	assert.Equal(t, []string{"cv", "emial"}, records[0].Location)
	assert.Equal(t, 3, records[0].YAMLLocation.Start.Line)
}

func TestValidate_Dump(t *testing.T) {
	input := filepath.Join(t.TempDir(), "cv.yaml")
	require.NoError(t, os.WriteFile(input, []byte("cv:\n  name: John Doe\n"), 0o644))

	code, stdout, stderr := runCLI(t, "validate", "-dump", input)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, `Name: (string) (len=8) "John Doe"`)
	assert.Contains(t, stdout, "valid")
}

func TestValidate_Warnings(t *testing.T) {
	input := filepath.Join(t.TempDir(), "cv.yaml")
	src := "cv:\n  name: John Doe\n  sections:\n    projects:\n      - name: Tool\n        meta: {stars: 10}\n"
	require.NoError(t, os.WriteFile(input, []byte(src), 0o644))

	code, stdout, stderr := runCLI(t, "validate", input)
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "valid")
	assert.Contains(t, stderr, "warning: cv.sections.projects.0.meta: ")
}

func TestCreateTheme(t *testing.T) {
	dir := t.TempDir()

	code, stdout, stderr := runCLI(t, "create-theme", "-dir", dir, "mytheme")
	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t, filepath.Join(dir, "mytheme"), strings.TrimSpace(stdout))
	assert.FileExists(t, filepath.Join(dir, "mytheme", "theme.yaml"))

	code, _, _ = runCLI(t, "create-theme", "-dir", dir, "My Theme")
	assert.Equal(t, exitUser, code)
}

func TestSchema(t *testing.T) {
	code, stdout, stderr := runCLI(t, "schema")
	require.Equal(t, exitOK, code, stderr)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Contains(t, doc, "properties")
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer

	assert.Equal(t, exitOK, report(&buf, nil))
	assert.Equal(t, exitUser, report(&buf, diagnostic.NewUserError("missing file", nil)))
	assert.Equal(t, exitInternal, report(&buf, diagnostic.NewInternalError("broken", nil)))
	assert.Equal(t, exitUser, report(&buf, errors.New("flag provided but not defined")))
	assert.Contains(t, buf.String(), "internal error: broken")
}
