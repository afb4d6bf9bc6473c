package compiledb

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FilterOptions narrows the files selected by Filter.
type FilterOptions struct {
	// Exclude are doublestar patterns matched against the file path
	// relative to Root (or the full path when the file is outside Root).
	Exclude []string

	// Root is the project root used to relativize paths for Exclude.
	Root string
}

// Filter keeps the files whose path contains at least one of the fragments.
// An empty fragment list keeps nothing. Order is preserved.
func Filter(files, fragments []string, opts FilterOptions) ([]string, error) {
	for _, pattern := range opts.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern: %q", pattern)
		}
	}

	var result []string
	for _, file := range files {
		if !containsAny(file, fragments) {
			continue
		}
		if excluded(file, opts) {
			continue
		}
		result = append(result, file)
	}
	return result, nil
}

func containsAny(file string, fragments []string) bool {
	for _, f := range fragments {
		if f != "" && strings.Contains(file, f) {
			return true
		}
	}
	return false
}

func excluded(file string, opts FilterOptions) bool {
	if len(opts.Exclude) == 0 {
		return false
	}

	rel := file
	if opts.Root != "" {
		if r, err := filepath.Rel(opts.Root, file); err == nil && !strings.HasPrefix(r, "..") {
			rel = r
		}
	}
	rel = filepath.ToSlash(rel)

	for _, pattern := range opts.Exclude {
		// Patterns were validated by Filter.
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
