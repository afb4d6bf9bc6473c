package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/tidyrun/internal/diag"
)

func collect(output string) []token {
	tok := newTokenizer(output)
	var tokens []token
	for {
		t := tok.next()
		tokens = append(tokens, t)
		if t.kind == tokenEnd {
			return tokens
		}
	}
}

func TestTokenizer_Sequence(t *testing.T) {
	t.Parallel()

	tokens := collect("pre\na.cpp:1:2: note: n\nbody\n")
	require.Len(t, tokens, 4)
	assert.Equal(t, tokenText, tokens[0].kind)
	assert.Equal(t, "pre", tokens[0].text)
	assert.Equal(t, tokenHeader, tokens[1].kind)
	assert.Equal(t, header{path: "a.cpp", line: 1, column: 2, kind: diag.KindNote, message: "n"}, tokens[1].header)
	assert.Equal(t, tokenText, tokens[2].kind)
	assert.Equal(t, tokenEnd, tokens[3].kind)
}

func TestTokenizer_EndIsSticky(t *testing.T) {
	t.Parallel()

	tok := newTokenizer("x\nEnabled checks:\ny\n")
	assert.Equal(t, tokenText, tok.next().kind)
	assert.Equal(t, tokenEnd, tok.next().kind)
	assert.Equal(t, tokenEnd, tok.next().kind)
}

func TestTokenizer_MarkerAtStart(t *testing.T) {
	t.Parallel()

	tokens := collect("Enabled checks:\n    a.cpp:1:1: warning: w\n")
	require.Len(t, tokens, 1)
	assert.Equal(t, tokenEnd, tokens[0].kind)
}

func TestParseHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		ok   bool
		want header
	}{
		{
			line: "dom/base/Element.cpp:10:3: error: no member named 'Foo' [clang-diagnostic-error]",
			ok:   true,
			want: header{
				path: "dom/base/Element.cpp", line: 10, column: 3, kind: diag.KindError,
				message: "no member named 'Foo'", check: "clang-diagnostic-error",
			},
		},
		{
			line: "C:/src/a.cpp:1:1: warning: w",
			ok:   true,
			want: header{path: "C:/src/a.cpp", line: 1, column: 1, kind: diag.KindWarning, message: "w"},
		},
		{line: "a.cpp:1:1: warning:", ok: false},
		{line: "a.cpp:1:1: warning: bad check [check!]", ok: false},
		{line: "a.cpp:99999999999999999999:1: warning: overflow", ok: false},
		{line: "   ^~~~~", ok: false},
	}

	for _, tt := range tests {
		got, ok := parseHeader(tt.line)
		assert.Equal(t, tt.ok, ok, tt.line)
		if tt.ok {
			assert.Equal(t, tt.want, got, tt.line)
		}
	}
}
