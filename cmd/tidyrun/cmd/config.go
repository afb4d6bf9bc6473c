package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wharflab/tidyrun/internal/config"
)

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Print the effective configuration as TOML",
		Flags: []cli.Flag{
			configFlag(),
			workDirFlag(),
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return cli.Exit("", ExitConfigError)
			}

			out := cmd.Root().Writer
			if cfg.ConfigFile != "" {
				fmt.Fprintf(out, "# loaded from %s\n", cfg.ConfigFile)
			}
			data, err := cfg.TOML()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return cli.Exit("", ExitConfigError)
			}
			_, err = out.Write(data)
			return err
		},
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to config file (default: auto-discover)",
		Sources: cli.EnvVars("TIDYRUN_CONFIG"),
	}
}

func workDirFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "work-dir",
		Aliases: []string{"C"},
		Usage:   "Project root clang-tidy runs from (default: config file directory or .)",
		Sources: cli.EnvVars("TIDYRUN_WORK_DIR"),
	}
}

// loadConfig loads configuration, applying CLI flags as the highest layer,
// and validates it.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	configPath := cmd.String("config")
	if configPath == "" {
		start := cmd.String("work-dir")
		if start == "" {
			start = "."
		}
		configPath = config.Discover(start)
	}

	cfg, err := config.LoadWithOverrides(configPath, flagOverrides(cmd))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.WorkDir = resolveWorkDir(cfg, cmd.IsSet("work-dir"))

	if err := cfg.Validate(); err != nil {
		source := "configuration"
		if cfg.ConfigFile != "" {
			source = cfg.ConfigFile
		}
		return nil, fmt.Errorf("invalid %s:\n%w", source, err)
	}
	return cfg, nil
}

// resolveWorkDir makes a relative work-dir from a config file relative to
// that file's directory. A work-dir given on the command line is relative
// to the current directory.
func resolveWorkDir(cfg *config.Config, fromFlag bool) string {
	if fromFlag || cfg.ConfigFile == "" || filepath.IsAbs(cfg.WorkDir) {
		return cfg.WorkDir
	}
	return filepath.Join(filepath.Dir(cfg.ConfigFile), cfg.WorkDir)
}

// flagOverrides collects explicitly set flags as flat config keys.
func flagOverrides(cmd *cli.Command) map[string]any {
	overrides := make(map[string]any)

	stringFlags := map[string]string{
		"work-dir":   "work-dir",
		"build-dir":  "build-dir",
		"format":     "output.format",
		"output":     "output.path",
		"fail-level": "output.fail-level",
		"log-level":  "log.level",
		"log-format": "log.format",
		"binary":     "tool.binary",
		"extra-args": "tool.extra-args",
	}
	for flag, key := range stringFlags {
		if hasFlag(cmd, flag) && cmd.IsSet(flag) {
			overrides[key] = cmd.String(flag)
		}
	}

	if hasFlag(cmd, "workers") && cmd.IsSet("workers") {
		overrides["workers"] = cmd.Int("workers")
	}
	for _, flag := range []string{"checks", "exclude", "ignore-checks"} {
		if hasFlag(cmd, flag) && cmd.IsSet(flag) {
			overrides[flag] = splitList(cmd.StringSlice(flag))
		}
	}

	return overrides
}

func hasFlag(cmd *cli.Command, name string) bool {
	for _, f := range cmd.Flags {
		for _, n := range f.Names() {
			if n == name {
				return true
			}
		}
	}
	return false
}

// splitList flattens comma separated values: ["a,b", " c"] -> ["a", "b", "c"].
func splitList(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		for part := range strings.SplitSeq(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				result = append(result, part)
			}
		}
	}
	return result
}
