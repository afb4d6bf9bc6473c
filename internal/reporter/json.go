package reporter

import (
	"encoding/json"
	"io"

	"github.com/wharflab/tidyrun/internal/diag"
)

// JSONOutput is the top-level structure for JSON output.
type JSONOutput struct {
	// Files contains results grouped by file.
	Files []FileResult `json:"files"`
	// Summary contains aggregate statistics.
	Summary Summary `json:"summary"`
	// FilesAnalyzed is the number of translation units clang-tidy ran on.
	FilesAnalyzed int `json:"files_analyzed"`
	// Checks is the -checks list used for the run.
	Checks []string `json:"checks"`
}

// FileResult contains the diagnostics for a single file.
type FileResult struct {
	File        string            `json:"file"`
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
}

// Summary contains aggregate statistics about diagnostics.
type Summary struct {
	Total    int `json:"total"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Notes    int `json:"notes"`
	Files    int `json:"files"`
}

// JSONReporter formats diagnostics as JSON output.
type JSONReporter struct {
	writer io.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{writer: w}
}

// Report implements Reporter.
func (r *JSONReporter) Report(diagnostics []diag.Diagnostic, metadata ReportMetadata) error {
	// Group diagnostics by file (deterministic order)
	byFile := make(map[string][]diag.Diagnostic)
	filesOrder := make([]string, 0)

	for _, d := range SortDiagnostics(diagnostics) {
		file := d.Location.Path
		if _, exists := byFile[file]; !exists {
			filesOrder = append(filesOrder, file)
		}
		byFile[file] = append(byFile[file], d)
	}

	checks := metadata.Checks
	if checks == nil {
		checks = []string{}
	}

	output := JSONOutput{
		Files:         make([]FileResult, 0, len(filesOrder)),
		Summary:       calculateSummary(diagnostics, len(filesOrder)),
		FilesAnalyzed: metadata.FilesAnalyzed,
		Checks:        checks,
	}

	for _, file := range filesOrder {
		output.Files = append(output.Files, FileResult{
			File:        file,
			Diagnostics: byFile[file],
		})
	}

	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

// calculateSummary computes aggregate statistics from diagnostics.
func calculateSummary(diagnostics []diag.Diagnostic, fileCount int) Summary {
	summary := Summary{
		Total: len(diagnostics),
		Files: fileCount,
	}

	for _, d := range diagnostics {
		switch d.Kind {
		case diag.KindError:
			summary.Errors++
		case diag.KindWarning:
			summary.Warnings++
		case diag.KindNote:
			// Should never reach here - notes are attached to diagnostics
		}
		summary.Notes += len(d.Notes)
	}

	return summary
}
