package main

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Environment variables read by the command.
const (
	envTypstPath = "RENDERCV_TYPST_PATH"
	envLogLevel  = "RENDERCV_LOG_LEVEL"
	envLogFormat = "RENDERCV_LOG_FORMAT"
)

type config struct {
	TypstPath string
	LogLevel  zerolog.Level
	LogJSON   bool
}

// loadConfig reads an optional .env file and the environment. The returned
// error concerns the .env file only; config is always usable.
func loadConfig() (config, error) {
	var envErr error
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		envErr = err
	}

	cfg := config{
		TypstPath: os.Getenv(envTypstPath),
		LogLevel:  zerolog.InfoLevel,
		LogJSON:   strings.EqualFold(os.Getenv(envLogFormat), "json"),
	}

	if raw := os.Getenv(envLogLevel); raw != "" {
		level, err := zerolog.ParseLevel(strings.ToLower(raw))
		if err != nil {
			return cfg, errors.Join(envErr, err)
		}

		cfg.LogLevel = level
	}

	return cfg, envErr
}

func newLogger(cfg config, w io.Writer) zerolog.Logger {
	out := w
	if !cfg.LogJSON {
		out = zerolog.ConsoleWriter{Out: w, NoColor: true, PartsExclude: []string{zerolog.TimestampFieldName}}
	}

	return zerolog.New(out).Level(cfg.LogLevel).With().Timestamp().Logger()
}
