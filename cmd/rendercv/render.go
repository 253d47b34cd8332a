package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"rendercv/internal/diagnostic"
	"rendercv/internal/pipeline"
	"rendercv/internal/primitive"
)

// watchDelay coalesces the bursts of events editors produce on save.
const watchDelay = 200 * time.Millisecond

type renderFlags struct {
	outputFolder string
	currentDate  string
	sortEntries  string
	noPDF        bool
	noPNG        bool
	noMarkdown   bool
	noHTML       bool
	versions     []string
	allVersions  bool
	watch        bool
}

func (f *renderFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.outputFolder, "output-folder", "", "replace settings.output_folder")
	fs.StringVar(&f.currentDate, "current-date", "", "replace settings.current_date (YYYY-MM-DD, YYYY-MM, YYYY or today)")
	fs.StringVar(&f.sortEntries, "sort-entries", "", "replace settings.sort_entries")
	fs.BoolVar(&f.noPDF, "dont-generate-pdf", false, "skip the PDF")
	fs.BoolVar(&f.noPNG, "dont-generate-png", false, "skip the PNG pages")
	fs.BoolVar(&f.noMarkdown, "dont-generate-markdown", false, "skip the Markdown file")
	fs.BoolVar(&f.noHTML, "dont-generate-html", false, "skip the HTML file")
	fs.Func("version", "render the named version; may be repeated", func(s string) error {
		f.versions = append(f.versions, s)
		return nil
	})
	fs.BoolVar(&f.allVersions, "all-versions", false, "render every version of the input")
	fs.BoolVar(&f.watch, "watch", false, "render again whenever the input file changes")
}

// overrides turns the flags that were set into settings overrides.
func (f *renderFlags) overrides() pipeline.Overrides {
	o := pipeline.Overrides{}

	set := func(key, v string) {
		if v != "" {
			o[key] = v
		}
	}

	set("output_folder", f.outputFolder)
	set("current_date", f.currentDate)
	set("sort_entries", f.sortEntries)

	for key, v := range map[string]bool{
		"dont_generate_pdf":      f.noPDF,
		"dont_generate_png":      f.noPNG,
		"dont_generate_markdown": f.noMarkdown,
		"dont_generate_html":     f.noHTML,
	} {
		if v {
			o[key] = true
		}
	}

	return o
}

func newFlagSet(e *env, name, args string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	fs.Usage = func() {
		fmt.Fprintf(e.stderr, "usage: rendercv %s [flags] %s\n", name, args)
		fs.PrintDefaults()
	}

	return fs
}

// inputArg returns the single positional argument of fs.
func inputArg(fs *flag.FlagSet, what string) (string, error) {
	if fs.NArg() != 1 {
		fs.Usage()
		return "", diagnostic.NewUserError(fmt.Sprintf("%s expects exactly one %s", fs.Name(), what), nil)
	}

	return fs.Arg(0), nil
}

func runRender(e *env, args []string) error {
	var f renderFlags

	fs := newFlagSet(e, "render", "<input.yaml>")
	f.register(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}

	input, err := inputArg(fs, "input file")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	p := pipeline.New(
		pipeline.WithLogger(e.log),
		pipeline.WithCompiler(pipeline.TypstCompiler{Binary: e.cfg.TypstPath}),
	)

	req := pipeline.Request{
		Input:       input,
		Overrides:   f.overrides(),
		Versions:    f.versions,
		AllVersions: f.allVersions,
	}

	if !f.watch {
		return renderOnce(ctx, e, p, req)
	}

	return watch(ctx, e, p, req)
}

func renderOnce(ctx context.Context, e *env, p *pipeline.Pipeline, req pipeline.Request) error {
	start := time.Now()

	res, err := p.Render(ctx, req)
	if err != nil {
		return err
	}

	cwd, _ := os.Getwd()
	for _, a := range res.Artifacts {
		fmt.Fprintf(e.stdout, "%-8s %s\n", a.Kind, primitive.DisplayPath(a.Path, cwd))
	}

	e.log.Info().Dur("took", time.Since(start)).Int("artifacts", len(res.Artifacts)).Msg("rendered")

	return nil
}

// watch renders req and renders it again after every change to the input
// file until ctx is canceled. Failures are reported and watching goes on.
func watch(ctx context.Context, e *env, p *pipeline.Pipeline, req pipeline.Request) error {
	if _, err := os.Stat(req.Input); err != nil {
		return diagnostic.NewUserError("--watch needs an input file", err)
	}

	input, err := filepath.Abs(req.Input)
	if err != nil {
		return diagnostic.NewUserError("cannot resolve "+req.Input, err)
	}

	req.Input = input

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return diagnostic.NewUserError("cannot watch the input file", err)
	}
	defer watcher.Close()

	// Editors often replace the file on save, so the directory is watched.
	if err := watcher.Add(filepath.Dir(input)); err != nil {
		return diagnostic.NewUserError("cannot watch "+filepath.Dir(input), err)
	}

	render := func() {
		if err := renderOnce(ctx, e, p, req); err != nil {
			report(e.stderr, err)
		}
	}

	render()
	e.log.Info().Str("input", input).Msg("watching for changes")

	var timer <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != input || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			timer = time.After(watchDelay)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			e.log.Warn().Err(err).Msg("watch error")
		case <-timer:
			timer = nil
			render()
		}
	}
}
