package reporter

import (
	"io"
	"slices"
	"strings"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/wharflab/tidyrun/internal/diag"
)

// Default SARIF tool information.
const (
	defaultToolName = "tidyrun"
	defaultToolURI  = "https://github.com/wharflab/tidyrun"
)

// noCheckRuleID is the SARIF rule id for diagnostics printed without a check.
const noCheckRuleID = "clang-tidy"

// SARIFReporter formats diagnostics as SARIF (Static Analysis Results Interchange Format).
// Notes become related locations of their diagnostic's result.
//
// See: https://docs.oasis-open.org/sarif/sarif/v2.1.0/
type SARIFReporter struct {
	writer      io.Writer
	toolName    string
	toolVersion string
	toolURI     string
}

// NewSARIFReporter creates a new SARIF reporter.
func NewSARIFReporter(w io.Writer, toolName, toolVersion, toolURI string) *SARIFReporter {
	if toolName == "" {
		toolName = defaultToolName
	}
	if toolURI == "" {
		toolURI = defaultToolURI
	}
	return &SARIFReporter{
		writer:      w,
		toolName:    toolName,
		toolVersion: toolVersion,
		toolURI:     toolURI,
	}
}

// Report implements Reporter.
func (r *SARIFReporter) Report(diagnostics []diag.Diagnostic, _ ReportMetadata) error {
	report := sarif.NewReport()

	run := sarif.NewRunWithInformationURI(r.toolName, r.toolURI)
	if r.toolVersion != "" {
		run.Tool.Driver.WithVersion(r.toolVersion)
	}

	sorted := SortDiagnostics(diagnostics)

	// Collect unique rule ids and files
	ruleSet := make(map[string]struct{})
	fileSet := make(map[string]struct{})
	for _, d := range sorted {
		ruleSet[ruleID(d)] = struct{}{}
		fileSet[d.Location.Path] = struct{}{}
		for _, n := range d.Notes {
			fileSet[n.Location.Path] = struct{}{}
		}
	}

	for _, id := range sortedKeys(ruleSet) {
		rule := run.AddRule(id)
		if id != noCheckRuleID {
			rule.WithHelpURI(checkDocURL(id))
		}
	}
	for _, file := range sortedKeys(fileSet) {
		run.AddDistinctArtifact(file)
	}

	for _, d := range sorted {
		result := sarif.NewRuleResult(ruleID(d)).
			WithMessage(sarif.NewTextMessage(d.Message)).
			WithLevel(kindToSARIFLevel(d.Kind)).
			WithLocations([]*sarif.Location{sarifLocation(d.Location, d.Body)})

		if len(d.Notes) > 0 {
			related := make([]*sarif.Location, 0, len(d.Notes))
			for _, n := range d.Notes {
				related = append(related,
					sarifLocation(n.Location, n.Body).WithMessage(sarif.NewTextMessage(n.Message)))
			}
			result.WithRelatedLocations(related)
		}

		run.AddResult(result)
	}

	report.AddRun(run)

	// Write with pretty formatting for readability
	return report.PrettyWrite(r.writer)
}

func sarifLocation(loc diag.Location, body string) *sarif.Location {
	region := sarif.NewRegion().
		WithStartLine(loc.Line).
		WithStartColumn(loc.Column)
	if body != "" {
		region.WithSnippet(sarif.NewArtifactContent().WithText(body))
	}

	physicalLocation := sarif.NewPhysicalLocation().
		WithArtifactLocation(sarif.NewSimpleArtifactLocation(loc.Path)).
		WithRegion(region)

	return sarif.NewLocationWithPhysicalLocation(physicalLocation)
}

func ruleID(d diag.Diagnostic) string {
	if d.Check == "" {
		return noCheckRuleID
	}
	return d.Check
}

// checkDocURL returns the clang-tidy documentation page of a check.
// clang-tidy groups checks by the prefix before the first dash.
func checkDocURL(check string) string {
	const base = "https://clang.llvm.org/extra/clang-tidy/checks/"
	group, name, ok := cutCheckGroup(check)
	if !ok {
		return base + "list.html"
	}
	return base + group + "/" + name + ".html"
}

func cutCheckGroup(check string) (group, name string, ok bool) {
	// clang-analyzer and clang-diagnostic use a two-word prefix
	for _, prefix := range []string{"clang-analyzer-", "clang-diagnostic-"} {
		if rest, found := strings.CutPrefix(check, prefix); found && rest != "" {
			return strings.TrimSuffix(prefix, "-"), rest, true
		}
	}
	group, name, ok = strings.Cut(check, "-")
	return group, name, ok && group != "" && name != ""
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// SARIF severity levels.
const (
	sarifLevelError   = "error"
	sarifLevelWarning = "warning"
	sarifLevelNote    = "note"
)

// kindToSARIFLevel maps a diagnostic kind to SARIF levels.
func kindToSARIFLevel(k diag.Kind) string {
	switch k {
	case diag.KindError:
		return sarifLevelError
	case diag.KindWarning:
		return sarifLevelWarning
	case diag.KindNote:
		return sarifLevelNote
	default:
		return sarifLevelWarning
	}
}
