// Package logging builds the logrus loggers used across tidyrun.
//
// Loggers are created once by the CLI and passed down explicitly;
// packages never log through a process-wide default.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Supported log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Options configures a logger.
type Options struct {
	// Level is a logrus level name (debug, info, warn, error). Empty means info.
	Level string
	// Format is "text" or "json". Empty means text.
	Format string
	// Writer defaults to os.Stderr.
	Writer io.Writer
	// Color forces colored text output on or off. Nil leaves it to logrus.
	Color *bool
}

// New creates a logger from options.
func New(opts Options) (*logrus.Logger, error) {
	logger := logrus.New()

	logger.SetOutput(os.Stderr)
	if opts.Writer != nil {
		logger.SetOutput(opts.Writer)
	}

	level := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}
	logger.SetLevel(level)

	switch strings.ToLower(opts.Format) {
	case FormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{})
	case FormatText, "":
		text := &logrus.TextFormatter{FullTimestamp: true}
		if opts.Color != nil {
			text.ForceColors = *opts.Color
			text.DisableColors = !*opts.Color
		}
		logger.SetFormatter(text)
	default:
		return nil, fmt.Errorf("unknown log format: %q (valid: text, json)", opts.Format)
	}

	return logger, nil
}

// Component returns an entry tagged with the component name.
func Component(logger logrus.FieldLogger, name string) logrus.FieldLogger {
	if logger == nil {
		logger = Discard()
	}
	return logger.WithField("component", name)
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.PanicLevel)
	return logger
}
