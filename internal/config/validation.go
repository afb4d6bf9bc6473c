package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sirupsen/logrus"
	"mvdan.cc/sh/v3/shell"
)

// MaxWorkers is the largest accepted explicit worker count.
const MaxWorkers = 32

// Formats lists the accepted output.format values.
var Formats = []string{"text", "json", "sarif", "github-actions", "github", "markdown", "md", "auto"}

// FailLevels lists the accepted output.fail-level values.
var FailLevels = []string{"error", "warning", "none"}

// LogFormats lists the accepted log.format values.
var LogFormats = []string{"text", "json"}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Workers < 0 || c.Workers > MaxWorkers {
		errs = append(errs, fmt.Errorf("workers: must be between 0 and %d, got %d", MaxWorkers, c.Workers))
	}
	if c.WorkDir == "" {
		errs = append(errs, errors.New("work-dir: must not be empty"))
	}
	if c.Tool.Binary == "" {
		errs = append(errs, errors.New("tool.binary: must not be empty"))
	}
	if _, err := c.ExtraArgs(); err != nil {
		errs = append(errs, fmt.Errorf("tool.extra-args: %w", err))
	}
	if !slices.Contains(Formats, c.Output.Format) {
		errs = append(errs, oneOf("output.format", c.Output.Format, Formats))
	}
	if !slices.Contains(FailLevels, c.Output.FailLevel) {
		errs = append(errs, oneOf("output.fail-level", c.Output.FailLevel, FailLevels))
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if !slices.Contains(LogFormats, c.Log.Format) {
		errs = append(errs, oneOf("log.format", c.Log.Format, LogFormats))
	}
	for _, p := range c.Exclude {
		if !doublestar.ValidatePattern(p) {
			errs = append(errs, fmt.Errorf("exclude: invalid pattern %q", p))
		}
	}
	for _, p := range c.IgnoreChecks {
		if !doublestar.ValidatePattern(p) {
			errs = append(errs, fmt.Errorf("ignore-checks: invalid pattern %q", p))
		}
	}

	return errors.Join(errs...)
}

// ExtraArgs splits tool.extra-args the way a POSIX shell would.
func (c *Config) ExtraArgs() ([]string, error) {
	if strings.TrimSpace(c.Tool.ExtraArgs) == "" {
		return nil, nil
	}
	return shell.Fields(c.Tool.ExtraArgs, nil)
}

func oneOf(key, got string, allowed []string) error {
	return fmt.Errorf("%s: %q is not one of %s", key, got, strings.Join(allowed, ", "))
}
