package processor

import (
	"github.com/wharflab/tidyrun/internal/diag"
	"github.com/wharflab/tidyrun/internal/reporter"
)

// Sorting ensures stable, deterministic output ordering.
// Order: path, line, column, then check and message.
// Runner results arrive in completion order, so this makes reports
// identical across runs and worker counts.
type Sorting struct{}

// NewSorting creates a new sorting processor.
func NewSorting() *Sorting {
	return &Sorting{}
}

// Name returns the processor's identifier.
func (p *Sorting) Name() string {
	return "sorting"
}

// Process sorts diagnostics in a stable order.
// Uses the existing reporter.SortDiagnostics implementation.
func (p *Sorting) Process(diagnostics []diag.Diagnostic, _ *Context) []diag.Diagnostic {
	return reporter.SortDiagnostics(diagnostics)
}
