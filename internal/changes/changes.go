// Package changes extracts the files touched by a patch, which are the
// fragments tidyrun matches against the compile database.
package changes

import (
	"fmt"
	"io"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

// FromDiff parses a git or unified diff and returns the new-side path of
// every added, modified, renamed or copied file, in patch order and
// without duplicates. Deleted and binary-only files are skipped.
func FromDiff(r io.Reader) ([]string, error) {
	files, _, err := gitdiff.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse diff: %w", err)
	}

	seen := make(map[string]bool, len(files))
	var paths []string
	for _, f := range files {
		if f.IsDelete || f.IsBinary || f.NewName == "" {
			continue
		}
		if seen[f.NewName] {
			continue
		}
		seen[f.NewName] = true
		paths = append(paths, f.NewName)
	}
	return paths, nil
}
