package diag

import (
	"fmt"
	"slices"
)

// DiagnosticErrorCheck is the check id clang-tidy attaches to compiler
// errors it hit while building the AST. These describe the build, not the
// code under review, and are never reported.
const DiagnosticErrorCheck = "clang-diagnostic-error"

// Note is a secondary annotation attached to the Diagnostic printed
// before it. Kind is always KindNote.
type Note struct {
	Location Location `json:"location"`
	Kind     Kind     `json:"kind"`
	Message  string   `json:"message"`

	// Check is usually empty for notes.
	Check string `json:"check,omitempty"`

	// Body is the raw text between the note header and the next header.
	Body string `json:"body"`
}

// Diagnostic is a warning or error reported by clang-tidy together with
// the notes printed after it.
type Diagnostic struct {
	Location Location `json:"location"`
	Kind     Kind     `json:"kind"`
	Message  string   `json:"message"`

	// Check is the rule that fired (e.g. "modernize-use-nullptr").
	// Empty when the header had no bracketed suffix.
	Check string `json:"check,omitempty"`

	// Body is the raw text between the header and the next header:
	// the source excerpt and caret lines.
	Body string `json:"body"`

	// Notes in the order clang-tidy printed them.
	Notes []Note `json:"notes,omitempty"`
}

// String returns a compact one-line description.
func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s", d.Kind, d.Location)
}

// IsDiagnosticError reports whether this is a build error rather than a code issue.
func (d Diagnostic) IsDiagnosticError() bool {
	return d.Check == DiagnosticErrorCheck
}

// Clone returns a copy that shares no slices with d.
func (d Diagnostic) Clone() Diagnostic {
	d.Notes = slices.Clone(d.Notes)
	return d
}

// Key identifies a diagnostic independently of which translation unit
// produced it.
func (d Diagnostic) Key() string {
	return fmt.Sprintf("%s:%s:%s:%s", d.Location, d.Kind, d.Check, d.Message)
}
