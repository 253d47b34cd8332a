package primitive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDimension(t *testing.T) {
	valid := []string{"0.7in", "10pt", "2cm", "1.5mm", "3ex", "1em", "12.pt"}
	for _, s := range valid {
		t.Run(s, func(t *testing.T) {
			d, err := ParseDimension(s)
			require.NoError(t, err)
			assert.Equal(t, s, d.String())
		})
	}

	invalid := []string{"-1pt", "1 pt", "1px", "pt", "", "1.5", ".5in"}
	for _, s := range invalid {
		t.Run("invalid "+s, func(t *testing.T) {
			_, err := ParseDimension(s)
			assert.ErrorIs(t, err, ErrInvalidDimension)
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"#004f90", "rgb(0, 79, 144)"},
		{"rgb(0,79,144)", "rgb(0, 79, 144)"},
		{"black", "rgb(0, 0, 0)"},
		{"white", "rgb(255, 255, 255)"},
		{"hsl(0, 100%, 50%)", "rgb(255, 0, 0)"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseColor(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, c.String())
		})
	}

	_, err := ParseColor("not-a-color")
	assert.ErrorIs(t, err, ErrInvalidColor)

	_, err = ParseColor("")
	assert.ErrorIs(t, err, ErrInvalidColor)
}

func TestValidateFontFamily(t *testing.T) {
	for _, name := range FontFamilies {
		_, err := ValidateFontFamily(name, false)
		assert.NoError(t, err, name)
	}

	candidates := []string{"Comic Sans", "My Custom Font", "lato"}
	for _, name := range candidates {
		_, err := ValidateFontFamily(name, false)
		assert.ErrorIs(t, err, ErrUnknownFont, name)

		got, err := ValidateFontFamily(name, true)
		require.NoError(t, err)
		assert.Equal(t, name, got)
	}

	_, err := ValidateFontFamily("", true)
	assert.ErrorIs(t, err, ErrUnknownFont)
}

func TestResolvePath(t *testing.T) {
	base := filepath.Join(string(filepath.Separator), "home", "user", "cv")

	for _, rel := range []string{"photo.jpg", "assets/photo.png", "../shared/x.typ"} {
		assert.Equal(t, filepath.Join(base, rel), ResolvePath(rel, base))
	}

	abs := filepath.Join(string(filepath.Separator), "tmp", "x.pdf")
	assert.Equal(t, abs, ResolvePath(abs, base))
}

func TestExistingAndPlannedPath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "photo.jpg")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	got, err := ExistingPath("photo.jpg", dir)
	require.NoError(t, err)
	assert.Equal(t, file, got)

	_, err = ExistingPath("missing.jpg", dir)
	assert.ErrorIs(t, err, ErrPathNotFound)

	_, err = ExistingPath("sub", dir)
	assert.ErrorIs(t, err, ErrNotAFile)

	for _, raw := range []string{"photo.jpg", "missing.jpg", "sub"} {
		got, err := PlannedPath(raw, dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, raw), got)
	}

	_, err = PlannedPath(" ", dir)
	assert.ErrorIs(t, err, ErrEmptyPath)
}

func TestDisplayPath(t *testing.T) {
	cwd := filepath.Join(string(filepath.Separator), "work")

	assert.Equal(t, filepath.Join("out", "cv.pdf"), DisplayPath(filepath.Join(cwd, "out", "cv.pdf"), cwd))

	outside := filepath.Join(string(filepath.Separator), "elsewhere", "cv.pdf")
	assert.Equal(t, outside, DisplayPath(outside, cwd))
	assert.Equal(t, outside, DisplayPath(outside, ""))

	dotted := filepath.Join(cwd, "..cv.pdf")
	assert.Equal(t, "..cv.pdf", DisplayPath(dotted, cwd))
	assert.Equal(t, cwd, DisplayPath(cwd, filepath.Join(cwd, "sub")))
}
