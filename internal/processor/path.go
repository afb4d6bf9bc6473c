package processor

import (
	"strings"

	"github.com/wharflab/tidyrun/internal/diag"
)

// PathNormalization converts file paths to forward slashes for cross-platform consistency.
type PathNormalization struct{}

// NewPathNormalization creates a new path normalization processor.
func NewPathNormalization() *PathNormalization {
	return &PathNormalization{}
}

// Name returns the processor's identifier.
func (p *PathNormalization) Name() string {
	return "path-normalization"
}

// Process normalizes the paths of diagnostics and their notes.
func (p *PathNormalization) Process(diagnostics []diag.Diagnostic, _ *Context) []diag.Diagnostic {
	return transformDiagnostics(diagnostics, func(d diag.Diagnostic) diag.Diagnostic {
		d.Location.Path = toSlash(d.Location.Path)
		for i := range d.Notes {
			d.Notes[i].Location.Path = toSlash(d.Notes[i].Location.Path)
		}
		return d
	})
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
