// Package processor provides a composable diagnostic processing pipeline.
//
// Diagnostics flow through a sequence of processors after the runner has
// collected them, each transforming the slice (filtering or modifying).
//
// Standard pipeline order:
//  1. PathNormalization - Cross-platform path consistency
//  2. CheckExclusion - Remove diagnostics for ignored checks
//  3. Deduplication - Header diagnostics reported by several translation units
//  4. Sorting - Stable output ordering
package processor

import (
	"github.com/sirupsen/logrus"

	"github.com/wharflab/tidyrun/internal/config"
	"github.com/wharflab/tidyrun/internal/diag"
	"github.com/wharflab/tidyrun/internal/logging"
)

// Processor transforms a slice of diagnostics.
type Processor interface {
	// Name returns the processor's identifier (for debugging/logging).
	Name() string

	// Process applies the processor's logic to diagnostics.
	// Must not modify the input slice; return a new slice if filtering.
	Process(diagnostics []diag.Diagnostic, ctx *Context) []diag.Diagnostic
}

// Context provides shared state for processors.
type Context struct {
	// Config is the loaded configuration.
	Config *config.Config

	// Logger receives per-processor debug output.
	Logger logrus.FieldLogger
}

// NewContext creates a new processor context.
func NewContext(cfg *config.Config, logger logrus.FieldLogger) *Context {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Context{
		Config: cfg,
		Logger: logging.Component(logger, "processor"),
	}
}

// Chain runs processors in sequence.
type Chain struct {
	processors []Processor
}

// NewChain creates a new processor chain.
func NewChain(processors ...Processor) *Chain {
	return &Chain{processors: processors}
}

// DefaultChain returns the standard pipeline.
func DefaultChain() *Chain {
	return NewChain(
		NewPathNormalization(),
		NewCheckExclusion(),
		NewDeduplication(),
		NewSorting(),
	)
}

// Process runs all processors in sequence.
func (c *Chain) Process(diagnostics []diag.Diagnostic, ctx *Context) []diag.Diagnostic {
	for _, p := range c.processors {
		before := len(diagnostics)
		diagnostics = p.Process(diagnostics, ctx)
		if dropped := before - len(diagnostics); dropped > 0 {
			ctx.Logger.WithFields(logrus.Fields{
				"processor": p.Name(),
				"dropped":   dropped,
			}).Debug("Processor removed diagnostics")
		}
	}
	return diagnostics
}

// filterDiagnostics returns a new slice containing only diagnostics where keep() returns true.
func filterDiagnostics(diagnostics []diag.Diagnostic, keep func(d diag.Diagnostic) bool) []diag.Diagnostic {
	result := make([]diag.Diagnostic, 0, len(diagnostics))
	for _, d := range diagnostics {
		if keep(d) {
			result = append(result, d)
		}
	}
	return result
}

// transformDiagnostics returns a new slice with each diagnostic transformed by transform().
// transform receives a clone, so it may modify notes in place.
func transformDiagnostics(
	diagnostics []diag.Diagnostic,
	transform func(d diag.Diagnostic) diag.Diagnostic,
) []diag.Diagnostic {
	result := make([]diag.Diagnostic, len(diagnostics))
	for i, d := range diagnostics {
		result[i] = transform(d.Clone())
	}
	return result
}
