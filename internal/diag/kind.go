// Package diag provides the in-memory model of clang-tidy diagnostics and
// the notes that elaborate them.
package diag

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind is the severity keyword clang-tidy prints in a diagnostic header.
//
//nolint:recvcheck // UnmarshalJSON requires pointer receiver per json.Unmarshaler interface
type Kind int

const (
	// KindError is a compiler or check error.
	KindError Kind = iota
	// KindWarning is a check warning.
	KindWarning
	// KindNote elaborates the preceding warning or error.
	KindNote
)

// String returns the keyword as printed by clang-tidy.
func (k Kind) String() string {
	switch k {
	case KindError:
		return "error"
	case KindWarning:
		return "warning"
	case KindNote:
		return "note"
	default:
		return "unknown"
	}
}

// IsProblem reports whether headers of this kind open a new Diagnostic.
func (k Kind) IsProblem() bool {
	return k == KindError || k == KindWarning
}

// IsAtLeast returns true if k is at least as severe as threshold.
func (k Kind) IsAtLeast(threshold Kind) bool {
	return k <= threshold
}

// MarshalJSON implements json.Marshaler.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseKind(str)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind parses a header keyword into a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "error":
		return KindError, nil
	case "warning", "warn":
		return KindWarning, nil
	case "note":
		return KindNote, nil
	default:
		return KindError, fmt.Errorf("unknown diagnostic kind: %q", s)
	}
}
