package diag

import (
	"strconv"
	"strings"
)

// Location is the source position a header points at.
// Line and Column are 1-based, as printed by clang-tidy.
type Location struct {
	// Path is relative to the analysis root when it was under it,
	// otherwise the path as printed.
	Path   string `json:"path"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// NewLocation creates a location.
func NewLocation(path string, line, column int) Location {
	return Location{Path: path, Line: line, Column: column}
}

// String renders the location as path:line:column.
func (l Location) String() string {
	var b strings.Builder
	b.WriteString(l.Path)
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(l.Line))
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(l.Column))
	return b.String()
}

// Compare orders locations by path, line, then column.
func (l Location) Compare(other Location) int {
	if c := strings.Compare(l.Path, other.Path); c != 0 {
		return c
	}
	if l.Line != other.Line {
		if l.Line < other.Line {
			return -1
		}
		return 1
	}
	if l.Column != other.Column {
		if l.Column < other.Column {
			return -1
		}
		return 1
	}
	return 0
}
