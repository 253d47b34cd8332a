// Package main provides the rendercv command.
//
// rendercv turns a CV written in YAML, JSON or JSON5 into a Typst source
// and from there into PDF and PNG files, plus Markdown and HTML versions:
//
//	rendercv new "John Doe"           writes John_Doe_CV.yaml
//	rendercv render John_Doe_CV.yaml  renders every artifact
//	rendercv validate John_Doe_CV.yaml
//	rendercv create-theme mytheme
//	rendercv schema > rendercv.schema.json
//
// Exit status is 0 on success, 1 for problems with the input and 2 for
// internal errors.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"rendercv/internal/diagnostic"
)

const (
	exitOK       = 0
	exitUser     = 1
	exitInternal = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// env is what every command runs with.
type env struct {
	stdout io.Writer
	stderr io.Writer
	cfg    config
	log    zerolog.Logger
}

type command struct {
	summary string
	run     func(e *env, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"render":       {"render an input file into Typst, PDF, PNG, Markdown and HTML", runRender},
		"new":          {"write a sample input file", runNew},
		"create-theme": {"write a custom theme skeleton", runCreateTheme},
		"validate":     {"check an input file without rendering it", runValidate},
		"schema":       {"print the JSON Schema of input files", runSchema},
	}
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || slices.Contains([]string{"help", "-h", "-help", "--help"}, args[0]) {
		usage(stderr)
		return exitOK
	}

	cfg, cfgErr := loadConfig()

	e := &env{stdout: stdout, stderr: stderr, cfg: cfg, log: newLogger(cfg, stderr)}
	if cfgErr != nil {
		e.log.Warn().Err(cfgErr).Msg("ignoring .env")
	}

	cmd, ok := commands[args[0]]
	if !ok {
		msg := fmt.Sprintf("rendercv %s: unknown command", args[0])
		if s := diagnostic.Suggest(args[0], commandNames()); len(s) > 0 {
			msg += fmt.Sprintf(", did you mean %q?", s[0])
		}

		fmt.Fprintln(stderr, msg)
		fmt.Fprintln(stderr, "Run 'rendercv help' for usage.")

		return exitUser
	}

	return report(stderr, cmd.run(e, args[1:]))
}

func commandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "rendercv renders CVs written in YAML.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "\trendercv <command> [arguments]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "The commands are:")
	fmt.Fprintln(w)

	for _, name := range commandNames() {
		fmt.Fprintf(w, "\t%-13s %s\n", name, commands[name].summary)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, `Use "rendercv <command> -h" for the flags of a command.`)
}

// report prints err and returns the exit status it maps to.
func report(w io.Writer, err error) int {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return exitOK
	}

	var (
		verr *diagnostic.ValidationError
		ierr *diagnostic.InternalError
	)

	switch {
	case errors.As(err, &verr):
		fmt.Fprintln(w, verr.Error())
		return exitUser
	case errors.As(err, &ierr):
		fmt.Fprintln(w, ierr.Error())
		fmt.Fprintln(w, "This is a bug in rendercv; please report it with the input that caused it.")

		return exitInternal
	default:
		fmt.Fprintln(w, "error: "+strings.TrimSpace(err.Error()))
		return exitUser
	}
}
