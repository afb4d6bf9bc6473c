package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/wharflab/tidyrun/internal/diag"
)

// EnabledChecksMarker introduces the list of enabled checks that
// clang-tidy prints with --list-checks or --explain-config. The list can
// contain lines that look like headers, so scanning stops there.
const EnabledChecksMarker = "Enabled checks:"

// headerPattern matches one diagnostic header line without its newline:
//
//	path:line:column: kind: message [check-id]
//
// The message class is deliberately narrow; lines with other characters
// are not headers and end up in the surrounding body. Letters and digits
// are matched in any script, since identifiers in messages may be non-ASCII.
var headerPattern = regexp.MustCompile(
	`^(.+):(\d+):(\d+): (warning|error|note): ([\p{L}\p{N}_ \t\v\f\r.'"^,-<=>()]+)(?: \[([.\p{L}\p{N}_-]+)\])?$`,
)

type tokenKind int

const (
	tokenEnd tokenKind = iota
	tokenHeader
	tokenText
)

// header is a parsed diagnostic header line.
type header struct {
	path    string
	line    int
	column  int
	kind    diag.Kind
	message string
	check   string
}

type token struct {
	kind   tokenKind
	header header // tokenHeader
	text   string // tokenText
}

// tokenizer splits clang-tidy output into header and text lines.
type tokenizer struct {
	rest string
	done bool
}

func newTokenizer(output string) *tokenizer {
	return &tokenizer{rest: output}
}

// next returns the next token. After tokenEnd it keeps returning tokenEnd.
func (t *tokenizer) next() token {
	if t.done || t.rest == "" {
		t.done = true
		return token{kind: tokenEnd}
	}

	line, rest, terminated := strings.Cut(t.rest, "\n")
	t.rest = rest

	if line == EnabledChecksMarker {
		t.done = true
		return token{kind: tokenEnd}
	}

	// A header must be followed by a newline; a trailing unterminated
	// line is always body text.
	if terminated {
		if h, ok := parseHeader(line); ok {
			return token{kind: tokenHeader, header: h}
		}
	}
	return token{kind: tokenText, text: line}
}

// parseHeader matches a single line against the header grammar.
func parseHeader(line string) (header, bool) {
	m := headerPattern.FindStringSubmatch(line)
	if m == nil {
		return header{}, false
	}

	lineNo, err := strconv.Atoi(m[2])
	if err != nil {
		return header{}, false
	}
	column, err := strconv.Atoi(m[3])
	if err != nil {
		return header{}, false
	}
	kind, err := diag.ParseKind(m[4])
	if err != nil {
		return header{}, false
	}

	return header{
		path:    m[1],
		line:    lineNo,
		column:  column,
		kind:    kind,
		message: m[5],
		check:   m[6],
	}, true
}
