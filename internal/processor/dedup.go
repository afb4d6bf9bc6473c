package processor

import (
	"github.com/wharflab/tidyrun/internal/diag"
)

// Deduplication removes duplicate diagnostics.
// A diagnostic in a shared header is printed once by every translation
// unit that includes it; two diagnostics are duplicates when they have
// the same location, kind, check and message.
type Deduplication struct{}

// NewDeduplication creates a new deduplication processor.
func NewDeduplication() *Deduplication {
	return &Deduplication{}
}

// Name returns the processor's identifier.
func (p *Deduplication) Name() string {
	return "deduplication"
}

// Process keeps the first occurrence of each diagnostic.
func (p *Deduplication) Process(diagnostics []diag.Diagnostic, _ *Context) []diag.Diagnostic {
	seen := make(map[string]bool)
	return filterDiagnostics(diagnostics, func(d diag.Diagnostic) bool {
		key := d.Key()
		if seen[key] {
			return false
		}
		seen[key] = true
		return true
	})
}
