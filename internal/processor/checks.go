package processor

import (
	"github.com/bmatcuk/doublestar/v4"

	"github.com/wharflab/tidyrun/internal/diag"
)

// CheckExclusion removes diagnostics whose check matches one of the
// configured ignore-checks patterns (e.g. "clang-analyzer-*").
// Diagnostics without a check are never excluded.
type CheckExclusion struct{}

// NewCheckExclusion creates a new check exclusion processor.
func NewCheckExclusion() *CheckExclusion {
	return &CheckExclusion{}
}

// Name returns the processor's identifier.
func (p *CheckExclusion) Name() string {
	return "check-exclusion"
}

// Process filters out diagnostics for ignored checks.
func (p *CheckExclusion) Process(diagnostics []diag.Diagnostic, ctx *Context) []diag.Diagnostic {
	patterns := ctx.Config.IgnoreChecks
	if len(patterns) == 0 {
		return diagnostics
	}

	return filterDiagnostics(diagnostics, func(d diag.Diagnostic) bool {
		if d.Check == "" {
			return true
		}
		for _, pattern := range patterns {
			matched, err := doublestar.Match(pattern, d.Check)
			if err != nil {
				// Invalid pattern - skip this check
				continue
			}
			if matched {
				return false
			}
		}
		return true
	})
}
