package reporter

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/muesli/termenv"

	"github.com/wharflab/tidyrun/internal/diag"
)

// Styles for different parts of the output
var (
	// Check name style
	checkStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")) // Blue

	// Message style
	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")) // White

	// File location style
	fileLocStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")) // Light gray

	// Source excerpt style
	bodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")) // Gray

	// Separator style
	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")) // Darker gray

	kindStyles = map[diag.Kind]lipgloss.Style{
		diag.KindError: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")), // Red
		diag.KindWarning: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")), // Orange
		diag.KindNote: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("245")), // Gray
	}
)

// TextOptions configures the text reporter output.
type TextOptions struct {
	// Color enables/disables colored output. Default: auto-detect.
	Color *bool
}

// TextReporter formats diagnostics as styled text output.
type TextReporter struct {
	writer io.Writer
	color  bool
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(w io.Writer, opts TextOptions) *TextReporter {
	// termenv respects NO_COLOR, CLICOLOR_FORCE and terminal detection
	color := termenv.EnvColorProfile() != termenv.Ascii
	if opts.Color != nil {
		color = *opts.Color
	}
	return &TextReporter{writer: w, color: color}
}

// Report implements Reporter.
func (r *TextReporter) Report(diagnostics []diag.Diagnostic, metadata ReportMetadata) error {
	w := &errWriter{w: r.writer}

	for _, d := range SortDiagnostics(diagnostics) {
		r.printDiagnostic(w, d)
	}

	r.printSummary(w, diagnostics, metadata)
	return w.err
}

// printDiagnostic formats a single diagnostic and its notes.
//
//	WARNING: modernize-use-nullptr
//	use nullptr
//	src/a.cpp:3:12
//	--------------------
//	  int *p = 0;
//	           ^
//	--------------------
func (r *TextReporter) printDiagnostic(w *errWriter, d diag.Diagnostic) {
	label := strings.ToUpper(d.Kind.String()) + ":"
	check := d.Check
	if check == "" {
		check = "(no check)"
	}

	w.println()
	w.println(r.style(kindStyles[d.Kind], label), r.style(checkStyle, check))
	w.println(r.style(messageStyle, d.Message))
	w.println(r.style(fileLocStyle, d.Location.String()))
	r.printBody(w, d.Body, "")

	for _, n := range d.Notes {
		w.println(
			"  "+r.style(kindStyles[diag.KindNote], "NOTE:"),
			r.style(fileLocStyle, n.Location.String())+":",
			r.style(messageStyle, n.Message),
		)
		r.printBody(w, n.Body, "  ")
	}
}

func (r *TextReporter) printBody(w *errWriter, body, indent string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	separator := "--------------------"
	if r.color {
		separator = "────────────────────"
	}

	w.println(indent + r.style(separatorStyle, separator))
	for _, line := range strings.Split(body, "\n") {
		w.println(indent + r.style(bodyStyle, strings.TrimSuffix(line, "\r")))
	}
	w.println(indent + r.style(separatorStyle, separator))
}

func (r *TextReporter) printSummary(w *errWriter, diagnostics []diag.Diagnostic, metadata ReportMetadata) {
	if len(diagnostics) == 0 {
		w.println(fmt.Sprintf("No issues found in %d %s", metadata.FilesAnalyzed,
			pluralize(metadata.FilesAnalyzed, "file", "files")))
		return
	}

	summary := calculateSummary(diagnostics, countFiles(diagnostics))
	w.println()
	w.println(fmt.Sprintf("%d %s (%d %s, %d %s) in %d %s, %d %s analyzed",
		summary.Total, pluralize(summary.Total, "issue", "issues"),
		summary.Errors, pluralize(summary.Errors, "error", "errors"),
		summary.Warnings, pluralize(summary.Warnings, "warning", "warnings"),
		summary.Files, pluralize(summary.Files, "file", "files"),
		metadata.FilesAnalyzed, pluralize(metadata.FilesAnalyzed, "file", "files"),
	))
}

func (r *TextReporter) style(s lipgloss.Style, text string) string {
	if !r.color || text == "" {
		return text
	}
	return s.Render(text)
}

// errWriter remembers the first write error so printing code stays linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) println(parts ...string) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintln(e.w, strings.Join(parts, " "))
}
