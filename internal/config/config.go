// Package config provides configuration loading and discovery for tidyrun.
//
// Configuration is loaded from multiple sources with the following priority
// (highest to lowest):
//  1. CLI flags (passed as overrides)
//  2. Environment variables (TIDYRUN_* prefix)
//  3. Config file (closest .tidyrun.toml or tidyrun.toml)
//  4. Built-in defaults
//
// Config file discovery starts from the work directory and walks up the
// filesystem until a config file is found. The closest config wins (no merging).
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigFileNames defines the config file names to search for, in priority order.
var ConfigFileNames = []string{".tidyrun.toml", "tidyrun.toml"}

// EnvPrefix is the prefix for environment variables.
const EnvPrefix = "TIDYRUN_"

// Config represents the complete tidyrun configuration.
type Config struct {
	// WorkDir is the project root clang-tidy runs from.
	WorkDir string `json:"work-dir" koanf:"work-dir"`

	// BuildDir holds compile_commands.json. Empty means discover it below WorkDir.
	BuildDir string `json:"build-dir,omitempty" koanf:"build-dir"`

	// Workers is the number of concurrent clang-tidy processes (0 = one per CPU).
	Workers int `json:"workers" koanf:"workers"`

	// Checks are passed to clang-tidy as -checks=a,b.
	Checks []string `json:"checks" koanf:"checks"`

	// Exclude are doublestar globs of source files never analysed.
	Exclude []string `json:"exclude" koanf:"exclude"`

	// IgnoreChecks are doublestar globs of check names dropped from reports.
	IgnoreChecks []string `json:"ignore-checks" koanf:"ignore-checks"`

	Tool   ToolConfig   `json:"tool" koanf:"tool"`
	Output OutputConfig `json:"output" koanf:"output"`
	Log    LogConfig    `json:"log" koanf:"log"`

	// ConfigFile is the path to the config file that was loaded (if any).
	// This is metadata, not loaded from config.
	ConfigFile string `json:"-" koanf:"-"`
}

// ToolConfig configures the clang-tidy program.
//
// Example TOML configuration:
//
//	[tool]
//	binary = "clang-tidy-18"
//	extra-args = "--quiet --extra-arg=-Wno-unknown-warning-option"
type ToolConfig struct {
	// Binary is the clang-tidy executable, looked up in $PATH.
	Binary string `json:"binary" koanf:"binary"`

	// Database is the compile database file name inside BuildDir.
	Database string `json:"database" koanf:"database"`

	// ExtraArgs is a shell-quoted argument string appended to every invocation.
	ExtraArgs string `json:"extra-args,omitempty" koanf:"extra-args"`
}

// OutputConfig configures output formatting and behavior.
type OutputConfig struct {
	// Format specifies the output format.
	Format string `json:"format" koanf:"format"`

	// Path specifies where to write output.
	Path string `json:"path" koanf:"path"`

	// FailLevel sets the minimum kind that causes a non-zero exit code.
	FailLevel string `json:"fail-level" koanf:"fail-level"`
}

// LogConfig configures diagnostic logging on stderr.
type LogConfig struct {
	Level  string `json:"level" koanf:"level"`
	Format string `json:"format" koanf:"format"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		WorkDir:      ".",
		Workers:      0,
		Checks:       []string{},
		Exclude:      []string{},
		IgnoreChecks: []string{},
		Tool: ToolConfig{
			Binary:   "clang-tidy",
			Database: "compile_commands.json",
		},
		Output: OutputConfig{
			Format:    "text",
			Path:      "stdout",
			FailLevel: "warning", // Any diagnostic causes exit code 1
		},
		Log: LogConfig{
			Level:  "warning",
			Format: "text",
		},
	}
}

// Load loads configuration for a work directory.
// It discovers the closest config file, loads it, and applies
// environment variable overrides.
func Load(workDir string) (*Config, error) {
	return LoadWithOverrides(Discover(workDir), nil)
}

// LoadFromFile loads configuration from a specific config file path.
// Unlike Load, it does not perform config discovery.
func LoadFromFile(configPath string) (*Config, error) {
	return LoadWithOverrides(configPath, nil)
}

// LoadWithOverrides loads configuration from configPath (may be empty)
// and applies overrides last. Overrides use flat dotted keys, for example:
//
//	overrides := map[string]any{
//	  "output.format": "json",
//	  "workers":       8,
//	}
func LoadWithOverrides(configPath string, overrides map[string]any) (*Config, error) {
	k, err := load(configPath, overrides)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	cfg.ConfigFile = configPath
	return cfg, nil
}

func load(configPath string, overrides map[string]any) (*koanf.Koanf, error) {
	k := koanf.New(".")

	// 1. Load defaults
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, err
	}

	// 2. Load config file if provided
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, err
		}
	}

	// 3. Load environment variables (TIDYRUN_* prefix)
	// TIDYRUN_OUTPUT_FAIL_LEVEL -> output.fail-level
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKeyTransform,
	}), nil); err != nil {
		return nil, err
	}

	// 4. CLI flags
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, err
		}
	}

	return k, nil
}

// TOML renders the configuration the way it would be written in a config file.
func (c *Config) TOML() ([]byte, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(c, "koanf"), nil); err != nil {
		return nil, err
	}
	return k.Marshal(toml.Parser())
}

// knownHyphenatedKeys maps dot-separated patterns to their hyphenated equivalents.
var knownHyphenatedKeys = map[string]string{
	"work.dir":      "work-dir",
	"build.dir":     "build-dir",
	"ignore.checks": "ignore-checks",
	"extra.args":    "extra-args",
	"fail.level":    "fail-level",
}

var allowedEnvTopLevelKeys = map[string]struct{}{
	"work-dir":      {},
	"build-dir":     {},
	"workers":       {},
	"checks":        {},
	"exclude":       {},
	"ignore-checks": {},
	"tool":          {},
	"output":        {},
	"log":           {},
}

// envKeyTransform converts environment variable names to config keys.
// TIDYRUN_WORKERS -> workers
// TIDYRUN_TOOL_EXTRA_ARGS -> tool.extra-args
func envKeyTransform(k, v string) (string, any) {
	s := strings.TrimPrefix(k, EnvPrefix)
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "_", ".")
	for pattern, replacement := range knownHyphenatedKeys {
		s = strings.ReplaceAll(s, pattern, replacement)
	}

	topLevel := s
	if before, _, ok := strings.Cut(s, "."); ok {
		topLevel = before
	}
	if _, ok := allowedEnvTopLevelKeys[topLevel]; !ok {
		return "", nil
	}

	return s, v
}

// Discover finds the closest config file for a work directory.
// It walks up the directory tree starting at dir itself.
// Returns empty string if no config file is found.
func Discover(dir string) string {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}

	for {
		for _, name := range ConfigFileNames {
			configPath := filepath.Join(absDir, name)
			if fileExists(configPath) {
				return configPath
			}
		}

		parent := filepath.Dir(absDir)
		if parent == absDir {
			// Reached filesystem root
			break
		}
		absDir = parent
	}

	return ""
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
