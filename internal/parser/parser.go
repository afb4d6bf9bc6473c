// Package parser reconstructs clang-tidy diagnostics from its text output.
//
// clang-tidy prints each diagnostic as a header line followed by free-form
// text (the offending source line, caret markers, fix-it hints). Entries are
// not delimited, so the parser walks the output line by line:
//
//	header(warning|error) -> collect body -> header(note) -> collect body -> ...
//
// Notes attach to the last kept Diagnostic. Lines that do not match the
// header grammar are never an error; they become part of the current body.
package parser

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/wharflab/tidyrun/internal/diag"
	"github.com/wharflab/tidyrun/internal/logging"
)

// Options configures a parse.
type Options struct {
	// Root is stripped from header paths that start with it.
	// It is treated as a directory: "/work" strips "/work/".
	Root string

	// Logger receives debug output about kept and skipped diagnostics.
	// Nil means silent.
	Logger logrus.FieldLogger
}

type state int

const (
	// stateIdle: no header seen yet; text is discarded.
	stateIdle state = iota
	// stateDiagnostic: collecting the body of the last kept Diagnostic.
	stateDiagnostic
	// stateNote: collecting the body of a Note that will attach to the last kept Diagnostic.
	stateNote
	// stateDiscard: collecting the body of a dropped record.
	stateDiscard
)

// machine holds the parse state for one output stream.
type machine struct {
	root   string
	logger logrus.FieldLogger

	state       state
	body        []string
	note        diag.Note
	diagnostics []diag.Diagnostic
}

// Parse converts the output of one clang-tidy invocation into Diagnostics,
// in the order their headers appear. It returns nil when the output has no
// warning or error headers.
func Parse(output string, opts Options) []diag.Diagnostic {
	m := &machine{
		root:   normalizeRoot(opts.Root),
		logger: opts.Logger,
	}
	if m.logger == nil {
		m.logger = logging.Discard()
	}

	tok := newTokenizer(output)
	for {
		t := tok.next()
		switch t.kind {
		case tokenHeader:
			m.finish()
			m.open(t.header)
		case tokenText:
			if m.state != stateIdle {
				m.body = append(m.body, t.text)
			}
		case tokenEnd:
			m.finish()
			return m.diagnostics
		}
	}
}

// open starts a new record for h and selects where its body goes.
func (m *machine) open(h header) {
	loc := diag.NewLocation(m.normalizePath(h.path), h.line, h.column)

	if h.kind.IsProblem() {
		if h.check == diag.DiagnosticErrorCheck {
			m.logger.WithField("location", loc.String()).Debug("Skipping " + diag.DiagnosticErrorCheck)
			m.state = stateDiscard
			return
		}
		d := diag.Diagnostic{
			Location: loc,
			Kind:     h.kind,
			Message:  h.message,
			Check:    h.check,
		}
		m.logger.WithField("check", d.Check).Debugf("Found code issue %s", d)
		m.diagnostics = append(m.diagnostics, d)
		m.state = stateDiagnostic
		return
	}

	if len(m.diagnostics) == 0 {
		// Nothing to attach to.
		m.state = stateDiscard
		return
	}
	m.note = diag.Note{
		Location: loc,
		Kind:     h.kind,
		Message:  h.message,
		Check:    h.check,
	}
	m.state = stateNote
}

// finish closes the current record, storing its body.
func (m *machine) finish() {
	body := strings.Join(m.body, "\n")
	m.body = m.body[:0]

	switch m.state {
	case stateDiagnostic:
		m.diagnostics[len(m.diagnostics)-1].Body = body
	case stateNote:
		m.note.Body = body
		last := &m.diagnostics[len(m.diagnostics)-1]
		last.Notes = append(last.Notes, m.note)
		m.note = diag.Note{}
	case stateIdle, stateDiscard:
	}
	m.state = stateIdle
}

func (m *machine) normalizePath(path string) string {
	if m.root != "" && strings.HasPrefix(path, m.root) {
		return path[len(m.root):]
	}
	return path
}

func normalizeRoot(root string) string {
	if root == "" || strings.HasSuffix(root, "/") {
		return root
	}
	return root + "/"
}
