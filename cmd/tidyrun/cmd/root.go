package cmd

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/wharflab/tidyrun/internal/version"
)

// Exit codes
const (
	ExitSuccess         = 0   // No diagnostics (or below fail-level threshold)
	ExitDiagnostics     = 1   // Diagnostics found at or above fail-level
	ExitConfigError     = 2   // Config, compile database or flag error
	ExitInvocationError = 3   // clang-tidy failed on a file
	ExitInterrupted     = 130 // SIGINT or SIGTERM
)

// NewApp creates the CLI application
func NewApp() *cli.Command {
	return &cli.Command{
		Name:    "tidyrun",
		Usage:   "Run clang-tidy in parallel on the files of a change",
		Version: version.Version(),
		Description: `tidyrun runs clang-tidy over the translation units of a compile database
whose path contains one of the given fragments, using a pool of workers,
and reports the diagnostics and their notes.

Examples:
  tidyrun run --checks 'modernize-use-nullptr' dom/base/ layout/
  git diff HEAD~1 | tidyrun run --diff - --format markdown
  tidyrun config`,
		Commands: []*cli.Command{
			runCommand(),
			configCommand(),
			versionCommand(),
		},
	}
}

// Execute runs the CLI application
func Execute() error {
	return NewApp().Run(context.Background(), os.Args)
}
