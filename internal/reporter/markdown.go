package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/wharflab/tidyrun/internal/diag"
)

// MarkdownReporter writes one markdown block per diagnostic, followed by
// a block per note. The layout is meant to be pasted into a code review:
//
//	## warning
//	**Message**: use nullptr
//	**Location**: src/a.cpp:3:12
//	**Clang check**: modernize-use-nullptr
//	```
//	  int *p = 0;
//	           ^
//	```
type MarkdownReporter struct {
	writer io.Writer
}

// NewMarkdownReporter creates a new Markdown reporter.
func NewMarkdownReporter(w io.Writer) *MarkdownReporter {
	return &MarkdownReporter{writer: w}
}

// Report implements Reporter.
func (r *MarkdownReporter) Report(diagnostics []diag.Diagnostic, _ ReportMetadata) error {
	if len(diagnostics) == 0 {
		_, err := fmt.Fprintln(r.writer, "**No issues found**")
		return err
	}

	var b strings.Builder
	files := countFiles(diagnostics)
	fmt.Fprintf(&b, "**%d %s** across %d %s\n",
		len(diagnostics), pluralize(len(diagnostics), "issue", "issues"),
		files, pluralize(files, "file", "files"))

	for _, d := range SortDiagnostics(diagnostics) {
		writeMarkdownDiagnostic(&b, d)
	}

	_, err := io.WriteString(r.writer, b.String())
	return err
}

func writeMarkdownDiagnostic(b *strings.Builder, d diag.Diagnostic) {
	fmt.Fprintf(b, "\n## %s\n", d.Kind)
	fmt.Fprintf(b, "**Message**: %s\n", d.Message)
	fmt.Fprintf(b, "**Location**: %s\n", d.Location)
	fmt.Fprintf(b, "**Clang check**: %s\n", d.Check)
	writeFence(b, d.Body)

	for _, n := range d.Notes {
		fmt.Fprintf(b, "\n**Note**: %s\n", n.Message)
		fmt.Fprintf(b, "**Location**: %s\n", n.Location)
		writeFence(b, n.Body)
	}
}

// writeFence writes body as a fenced code block. The fence grows when the
// body itself contains backtick runs.
func writeFence(b *strings.Builder, body string) {
	fence := "```"
	for strings.Contains(body, fence) {
		fence += "`"
	}
	b.WriteString(fence + "\n")
	if body != "" {
		b.WriteString(body + "\n")
	}
	b.WriteString(fence + "\n")
}
