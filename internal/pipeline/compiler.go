package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"rendercv/internal/diagnostic"
)

// DefaultTypstBinary is the compiler looked up on PATH.
const DefaultTypstBinary = "typst"

// Job is one compilation of a Typst source.
type Job struct {
	Source string
	// Output is the target file. PNG outputs contain the {p} placeholder.
	Output string
	Format ArtifactKind
	// FontPaths are extra directories searched for fonts.
	FontPaths []string
}

// Compiler turns Typst sources into PDF or PNG files.
type Compiler interface {
	Compile(ctx context.Context, job Job) error
}

// TypstCompiler runs the typst command line compiler.
type TypstCompiler struct {
	// Binary is the executable, DefaultTypstBinary when empty.
	Binary string
}

// Args returns the command line arguments for job.
func (c TypstCompiler) Args(job Job) []string {
	args := []string{"compile", "--format", string(job.Format)}
	for _, dir := range job.FontPaths {
		args = append(args, "--font-path", dir)
	}

	return append(args, job.Source, job.Output)
}

func (c TypstCompiler) Compile(ctx context.Context, job Job) error {
	bin := c.Binary
	if bin == "" {
		bin = DefaultTypstBinary
	}

	cmd := exec.CommandContext(ctx, bin, c.Args(job)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return diagnostic.NewUserError(fmt.Sprintf(
				"the Typst compiler %q was not found; install it or set RENDERCV_TYPST_PATH", bin), err)
		}

		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}

		return diagnostic.NewUserError(fmt.Sprintf("typst failed to compile %s: %s", job.Source, msg), err)
	}

	return nil
}
