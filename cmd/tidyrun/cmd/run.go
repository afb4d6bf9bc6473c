package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wharflab/tidyrun/internal/changes"
	"github.com/wharflab/tidyrun/internal/compiledb"
	"github.com/wharflab/tidyrun/internal/config"
	"github.com/wharflab/tidyrun/internal/diag"
	"github.com/wharflab/tidyrun/internal/logging"
	"github.com/wharflab/tidyrun/internal/processor"
	"github.com/wharflab/tidyrun/internal/reporter"
	"github.com/wharflab/tidyrun/internal/runner"
	"github.com/wharflab/tidyrun/internal/version"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Run clang-tidy on the compile database files matching the fragments",
		ArgsUsage: "[FILE-FRAGMENT...]",
		Flags: []cli.Flag{
			configFlag(),
			workDirFlag(),
			&cli.StringFlag{
				Name:    "build-dir",
				Aliases: []string{"B"},
				Usage:   "Directory holding compile_commands.json (default: discover below work dir)",
				Sources: cli.EnvVars("TIDYRUN_BUILD_DIR"),
			},
			&cli.StringSliceFlag{
				Name:    "checks",
				Usage:   "clang-tidy checks, repeatable or comma separated (e.g. -*,modernize-*)",
				Sources: cli.EnvVars("TIDYRUN_CHECKS"),
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"j"},
				Usage:   "Number of concurrent clang-tidy processes, 1-32 (0 = one per CPU)",
				Sources: cli.EnvVars("TIDYRUN_WORKERS"),
			},
			&cli.StringFlag{
				Name:    "diff",
				Usage:   "Read the files to analyse from a git or unified diff (path or - for stdin)",
				Sources: cli.EnvVars("TIDYRUN_DIFF"),
			},
			&cli.StringSliceFlag{
				Name:    "exclude",
				Usage:   "Glob of source files never analysed, relative to the work dir (repeatable)",
				Sources: cli.EnvVars("TIDYRUN_EXCLUDE"),
			},
			&cli.StringSliceFlag{
				Name:    "ignore-checks",
				Usage:   "Glob of checks dropped from the report (repeatable)",
				Sources: cli.EnvVars("TIDYRUN_IGNORE_CHECKS"),
			},
			&cli.StringFlag{
				Name:    "binary",
				Usage:   "clang-tidy executable",
				Sources: cli.EnvVars("TIDYRUN_TOOL_BINARY"),
			},
			&cli.StringFlag{
				Name:    "extra-args",
				Usage:   "Extra clang-tidy arguments, shell quoted",
				Sources: cli.EnvVars("TIDYRUN_TOOL_EXTRA_ARGS"),
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, sarif, github-actions, markdown, auto",
				Sources: cli.EnvVars("TIDYRUN_FORMAT", "TIDYRUN_OUTPUT_FORMAT"),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output path: stdout, stderr, or file path",
				Sources: cli.EnvVars("TIDYRUN_OUTPUT_PATH"),
			},
			&cli.StringFlag{
				Name:    "fail-level",
				Usage:   "Minimum kind to cause non-zero exit: error, warning, none",
				Sources: cli.EnvVars("TIDYRUN_OUTPUT_FAIL_LEVEL"),
			},
			&cli.BoolFlag{
				Name:    "no-color",
				Usage:   "Disable colored output",
				Sources: cli.EnvVars("NO_COLOR"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level: debug, info, warning, error",
				Sources: cli.EnvVars("TIDYRUN_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "Log format: text, json",
				Sources: cli.EnvVars("TIDYRUN_LOG_FORMAT"),
			},
		},
		Action: runAction,
	}
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	noColor := cmd.IsSet("no-color") && cmd.Bool("no-color")
	logger, err := newLogger(cfg, noColor)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	fragments, err := collectFragments(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	r, err := newRunner(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	selected, err := r.Select(fragments)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}
	if len(selected) == 0 {
		logger.WithField("fragments", len(fragments)).Warn("No compile database file matches the given fragments")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	diagnostics, err := r.Run(ctx, cfg.Checks, fragments)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", exitCodeForRunError(err))
	}

	procCtx := processor.NewContext(cfg, logger)
	diagnostics = processor.DefaultChain().Process(diagnostics, procCtx)

	return writeReport(cfg, noColor, diagnostics, reporter.ReportMetadata{
		FilesAnalyzed: len(selected),
		Checks:        cfg.Checks,
	})
}

// newLogger builds the stderr logger. Colors follow the terminal unless
// --no-color is given.
func newLogger(cfg *config.Config, noColor bool) (*logrus.Logger, error) {
	color := !noColor && (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()))
	return logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Writer: os.Stderr,
		Color:  &color,
	})
}

// collectFragments merges positional fragments with the files of --diff.
func collectFragments(cmd *cli.Command) ([]string, error) {
	fragments := cmd.Args().Slice()

	diffPath := cmd.String("diff")
	if diffPath == "" {
		if len(fragments) == 0 {
			return nil, errors.New("no file fragments given (pass FILE-FRAGMENT arguments or --diff)")
		}
		return fragments, nil
	}

	var r io.Reader
	if diffPath == "-" {
		r = cmd.Root().Reader
	} else {
		f, err := os.Open(diffPath)
		if err != nil {
			return nil, fmt.Errorf("open diff: %w", err)
		}
		defer f.Close()
		r = f
	}

	files, err := changes.FromDiff(r)
	if err != nil {
		return nil, err
	}
	return append(fragments, files...), nil
}

func newRunner(cfg *config.Config, logger logrus.FieldLogger) (*runner.Runner, error) {
	buildDir := cfg.BuildDir
	if buildDir == "" {
		found, err := compiledb.Discover(cfg.WorkDir)
		if err != nil {
			return nil, err
		}
		buildDir = found
		logger.WithField("build_dir", buildDir).Debug("Discovered compile database")
	}

	extraArgs, err := cfg.ExtraArgs()
	if err != nil {
		return nil, err
	}

	return runner.New(runner.Options{
		WorkDir:   cfg.WorkDir,
		BuildDir:  buildDir,
		Database:  cfg.Tool.Database,
		Workers:   cfg.Workers,
		Exclude:   cfg.Exclude,
		Binary:    cfg.Tool.Binary,
		ExtraArgs: extraArgs,
		Logger:    logger,
	})
}

// writeReport formats and writes the diagnostics report.
func writeReport(cfg *config.Config, noColor bool, diagnostics []diag.Diagnostic, metadata reporter.ReportMetadata) error {
	formatType, err := reporter.ParseFormat(cfg.Output.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	writer, closeWriter, err := reporter.GetWriter(cfg.Output.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}
	defer func() {
		if err := closeWriter(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close output: %v\n", err)
		}
	}()

	opts := reporter.Options{
		Format:      formatType,
		Writer:      writer,
		ToolName:    "tidyrun",
		ToolVersion: version.Version(),
		ToolURI:     "https://github.com/wharflab/tidyrun",
	}
	if noColor {
		color := false
		opts.Color = &color
	}

	rep, err := reporter.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create reporter: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	if err := rep.Report(diagnostics, metadata); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to write output: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	exitCode := determineExitCode(diagnostics, cfg.Output.FailLevel)
	if exitCode != ExitSuccess {
		return cli.Exit("", exitCode)
	}

	return nil
}

// exitCodeForRunError maps a Runner.Run error to an exit code.
func exitCodeForRunError(err error) int {
	var cfgErr *runner.ConfigError
	switch {
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.As(err, &cfgErr):
		return ExitConfigError
	default:
		// *runner.InvocationError or *runner.NotUTF8Error
		return ExitInvocationError
	}
}

// determineExitCode returns the appropriate exit code based on diagnostics and fail-level.
func determineExitCode(diagnostics []diag.Diagnostic, failLevel string) int {
	// "none" means never fail due to diagnostics
	if failLevel == "none" {
		return ExitSuccess
	}

	threshold, err := parseFailLevel(failLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid --fail-level %q\n", failLevel)
		return ExitConfigError
	}

	for _, d := range diagnostics {
		if d.Kind.IsAtLeast(threshold) {
			return ExitDiagnostics
		}
	}

	return ExitSuccess
}

// parseFailLevel parses a fail-level string to a Kind.
func parseFailLevel(level string) (diag.Kind, error) {
	switch level {
	case "", "warning":
		// Default: any diagnostic fails
		return diag.KindWarning, nil
	case "error":
		return diag.KindError, nil
	default:
		return diag.KindError, fmt.Errorf("unknown fail level: %q", level)
	}
}
