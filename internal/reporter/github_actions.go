package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/wharflab/tidyrun/internal/diag"
)

// GitHubActionsReporter formats diagnostics as GitHub Actions workflow commands.
// These commands appear as annotations in the GitHub Actions UI.
//
// Format: ::{level} file={file},line={line},col={col},title={check}::{message}
//
// Notes are appended to the annotation message, one per line.
//
// See: https://docs.github.com/actions/using-workflows/workflow-commands-for-github-actions#setting-an-error-message
type GitHubActionsReporter struct {
	writer io.Writer
}

// NewGitHubActionsReporter creates a new GitHub Actions reporter.
func NewGitHubActionsReporter(w io.Writer) *GitHubActionsReporter {
	return &GitHubActionsReporter{writer: w}
}

// Report implements Reporter.
func (r *GitHubActionsReporter) Report(diagnostics []diag.Diagnostic, _ ReportMetadata) error {
	for _, d := range SortDiagnostics(diagnostics) {
		parts := []string{
			"file=" + escapeGitHubProperty(d.Location.Path),
			fmt.Sprintf("line=%d", d.Location.Line),
			fmt.Sprintf("col=%d", d.Location.Column),
		}
		if d.Check != "" {
			parts = append(parts, "title="+escapeGitHubProperty(d.Check))
		}

		message := d.Message
		for _, n := range d.Notes {
			message += fmt.Sprintf("\nnote: %s: %s", n.Location, n.Message)
		}

		if _, err := fmt.Fprintf(r.writer, "::%s %s::%s\n",
			kindToGitHubLevel(d.Kind),
			strings.Join(parts, ","),
			escapeGitHubMessage(message),
		); err != nil {
			return err
		}
	}

	return nil
}

// GitHub Actions annotation levels.
const (
	ghLevelError   = "error"
	ghLevelWarning = "warning"
	ghLevelNotice  = "notice"
)

// kindToGitHubLevel maps a diagnostic kind to GitHub Actions levels.
func kindToGitHubLevel(k diag.Kind) string {
	switch k {
	case diag.KindError:
		return ghLevelError
	case diag.KindWarning:
		return ghLevelWarning
	case diag.KindNote:
		return ghLevelNotice
	default:
		return ghLevelWarning
	}
}

// escapeGitHubMessage escapes special characters in GitHub Actions workflow command messages.
// Messages use escapeData() rules which escape "%", "\r", "\n" but NOT ":" or ",".
// See: https://github.com/actions/toolkit/blob/main/packages/core/src/command.ts
func escapeGitHubMessage(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}

// escapeGitHubProperty escapes special characters in GitHub Actions workflow command properties.
// Properties (file, title, etc.) use escapeProperty() rules which escape "%", "\r", "\n", ":", and ",".
func escapeGitHubProperty(s string) string {
	s = escapeGitHubMessage(s)
	s = strings.ReplaceAll(s, ":", "%3A")
	s = strings.ReplaceAll(s, ",", "%2C")
	return s
}
