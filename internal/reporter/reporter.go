// Package reporter provides output formatters for clang-tidy diagnostics.
//
// The package supports multiple output formats:
//   - text: Human-readable terminal output with colors
//   - json: Machine-readable JSON output
//   - sarif: Static Analysis Results Interchange Format for CI/CD integration
//   - github-actions: Native GitHub Actions workflow annotations
//   - markdown: One block per diagnostic, suitable for review comments
package reporter

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/gkampitakis/ciinfo"

	"github.com/wharflab/tidyrun/internal/diag"
)

// ReportMetadata contains contextual information about the run.
type ReportMetadata struct {
	// FilesAnalyzed is the number of translation units clang-tidy ran on.
	FilesAnalyzed int
	// Checks is the -checks list passed to clang-tidy.
	Checks []string
}

// Reporter formats and outputs diagnostics.
type Reporter interface {
	// Report writes diagnostics to the configured output.
	Report(diagnostics []diag.Diagnostic, metadata ReportMetadata) error
}

// SortDiagnostics sorts diagnostics by path, line, column, check and message for stable output.
func SortDiagnostics(diagnostics []diag.Diagnostic) []diag.Diagnostic {
	sorted := slices.Clone(diagnostics)
	slices.SortStableFunc(sorted, func(a, b diag.Diagnostic) int {
		if c := a.Location.Compare(b.Location); c != 0 {
			return c
		}
		if c := strings.Compare(a.Check, b.Check); c != 0 {
			return c
		}
		return strings.Compare(a.Message, b.Message)
	})
	return sorted
}

// Format represents an output format type.
type Format string

const (
	// FormatText is human-readable terminal output.
	FormatText Format = "text"
	// FormatJSON is machine-readable JSON output.
	FormatJSON Format = "json"
	// FormatSARIF is Static Analysis Results Interchange Format.
	FormatSARIF Format = "sarif"
	// FormatGitHubActions is GitHub Actions workflow command output.
	FormatGitHubActions Format = "github-actions"
	// FormatMarkdown is one markdown block per diagnostic.
	FormatMarkdown Format = "markdown"
	// FormatAuto picks github-actions inside GitHub Actions and text elsewhere.
	FormatAuto Format = "auto"
)

// ParseFormat parses a format string into a Format type.
// Returns an error if the format is unknown.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "sarif":
		return FormatSARIF, nil
	case "github-actions", "github":
		return FormatGitHubActions, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "auto":
		return FormatAuto, nil
	default:
		return "", fmt.Errorf("unknown format: %q (valid: text, json, sarif, github-actions, markdown, auto)", s)
	}
}

// Resolve replaces FormatAuto with a concrete format for the current environment.
func (f Format) Resolve() Format {
	return f.resolve(ciinfo.IsCI, ciinfo.Name)
}

func (f Format) resolve(isCI bool, ciName string) Format {
	if f != FormatAuto {
		return f
	}
	if isCI && ciName == "GitHub Actions" {
		return FormatGitHubActions
	}
	return FormatText
}

// Options configures reporter creation.
type Options struct {
	// Format specifies the output format.
	Format Format

	// Writer is the output destination.
	Writer io.Writer

	// Color enables/disables colored output (text format only).
	// nil means auto-detect.
	Color *bool

	// ToolVersion is included in SARIF output.
	ToolVersion string

	// ToolName is the tool name for SARIF output.
	ToolName string

	// ToolURI is the tool information URI for SARIF output.
	ToolURI string
}

// DefaultOptions returns sensible defaults for reporter options.
func DefaultOptions() Options {
	return Options{
		Format:      FormatText,
		Writer:      os.Stdout,
		Color:       nil, // auto-detect
		ToolName:    defaultToolName,
		ToolURI:     defaultToolURI,
		ToolVersion: "dev",
	}
}

// New creates a reporter based on the format specified in options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	switch opts.Format.Resolve() {
	case FormatText, "":
		return NewTextReporter(opts.Writer, TextOptions{Color: opts.Color}), nil

	case FormatJSON:
		return NewJSONReporter(opts.Writer), nil

	case FormatSARIF:
		return NewSARIFReporter(opts.Writer, opts.ToolName, opts.ToolVersion, opts.ToolURI), nil

	case FormatGitHubActions:
		return NewGitHubActionsReporter(opts.Writer), nil

	case FormatMarkdown:
		return NewMarkdownReporter(opts.Writer), nil

	default:
		return nil, fmt.Errorf("unknown format: %q", opts.Format)
	}
}

// GetWriter returns an io.Writer for the given output path.
// Supports "stdout", "stderr", or file paths.
func GetWriter(path string) (io.Writer, func() error, error) {
	switch path {
	case "stdout", "":
		return os.Stdout, func() error { return nil }, nil
	case "stderr":
		return os.Stderr, func() error { return nil }, nil
	default:
		f, err := os.Create(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create output file: %w", err)
		}
		return f, f.Close, nil
	}
}

// pluralize returns singular or plural form based on count.
func pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}

// countFiles returns the number of distinct diagnostic paths.
func countFiles(diagnostics []diag.Diagnostic) int {
	files := make(map[string]struct{})
	for _, d := range diagnostics {
		files[d.Location.Path] = struct{}{}
	}
	return len(files)
}
