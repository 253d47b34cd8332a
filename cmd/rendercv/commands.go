package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/davecgh/go-spew/spew"

	"rendercv/internal/diagnostic"
	"rendercv/internal/pipeline"
	"rendercv/internal/reader"
	"rendercv/internal/scaffold"
	"rendercv/internal/schema"
	"rendercv/internal/theme"
)

func runNew(e *env, args []string) error {
	flags := newFlagSet(e, "new", `"Full Name"`)
	themeName := flags.String("theme", theme.DefaultTheme, "theme of the sample")
	language := flags.String("language", "", "locale language of the sample")
	dir := flags.String("dir", ".", "directory to write the file to")

	if err := flags.Parse(args); err != nil {
		return err
	}

	name, err := inputArg(flags, "name")
	if err != nil {
		return err
	}

	data, err := scaffold.Sample(name, *themeName, *language)
	if err != nil {
		return err
	}

	path := filepath.Join(*dir, scaffold.FileName(name))
	if _, err := os.Stat(path); err == nil {
		return diagnostic.NewUserError(path+" already exists", fs.ErrExist)
	}

	if err := os.MkdirAll(*dir, 0o755); err != nil {
		return diagnostic.NewUserError("cannot create "+*dir, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return diagnostic.NewUserError("cannot write "+path, err)
	}

	fmt.Fprintln(e.stdout, path)

	return nil
}

func runCreateTheme(e *env, args []string) error {
	flags := newFlagSet(e, "create-theme", "<name>")
	basedOn := flags.String("based-on", theme.DefaultTheme, "built-in theme to start from")
	dir := flags.String("dir", ".", "directory to create the theme in")

	if err := flags.Parse(args); err != nil {
		return err
	}

	name, err := inputArg(flags, "theme name")
	if err != nil {
		return err
	}

	created, err := theme.Scaffold(*dir, name, *basedOn)
	if err != nil {
		if errors.Is(err, theme.ErrInvalidName) || errors.Is(err, theme.ErrUnknownTheme) || errors.Is(err, theme.ErrThemeExists) {
			return diagnostic.NewUserError("cannot create the theme", err)
		}

		return err
	}

	fmt.Fprintln(e.stdout, created)

	return nil
}

func runValidate(e *env, args []string) error {
	flags := newFlagSet(e, "validate", "<input.yaml>")
	withSchema := flags.Bool("schema", false, "also check the input against the JSON Schema")
	asJSON := flags.Bool("json", false, "print validation errors as JSON records")
	dump := flags.Bool("dump", false, "print the validated document")

	if err := flags.Parse(args); err != nil {
		return err
	}

	input, err := inputArg(flags, "input file")
	if err != nil {
		return err
	}

	root, err := pipeline.New(pipeline.WithLogger(e.log)).Validate(context.Background(), pipeline.Request{Input: input})
	if err != nil {
		var verr *diagnostic.ValidationError
		if *asJSON && errors.As(err, &verr) {
			enc := json.NewEncoder(e.stdout)
			enc.SetIndent("", "  ")

			if jerr := enc.Encode(verr.Records); jerr != nil {
				return jerr
			}
		}

		return err
	}

	for _, w := range root.Warnings {
		fmt.Fprintf(e.stderr, "%s: %s\n", w.Severity, w)
	}

	if *withSchema {
		doc, err := reader.Read(input)
		if err != nil {
			return err
		}

		msgs, err := schema.Check(doc, root.Design.Theme.Schema)
		if err != nil {
			return diagnostic.NewInternalError("schema check", err)
		}

		for _, m := range msgs {
			fmt.Fprintln(e.stderr, m)
		}

		if len(msgs) > 0 {
			return diagnostic.NewUserError(fmt.Sprintf("the input does not match the JSON Schema (%d problems)", len(msgs)), nil)
		}
	}

	if *dump {
		cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
		cfg.Fdump(e.stdout, root.CV, root.Settings, root.Versions)
	}

	fmt.Fprintln(e.stdout, "valid")

	return nil
}

func runSchema(e *env, args []string) error {
	flags := newFlagSet(e, "schema", "")
	output := flags.String("o", "", "write the schema to this file instead of stdout")

	if err := flags.Parse(args); err != nil {
		return err
	}

	data, err := schema.JSON()
	if err != nil {
		return diagnostic.NewInternalError("encode schema", err)
	}

	data = append(data, '\n')

	if *output == "" {
		_, err = e.stdout.Write(data)
		return err
	}

	if err := os.WriteFile(*output, data, 0o644); err != nil {
		return diagnostic.NewUserError("cannot write "+*output, err)
	}

	return nil
}
