package compiledb

import (
	"cmp"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Discover finds the shallowest compile database below workDir and
// returns the directory containing it. Ties are broken by path.
func Discover(workDir string) (string, error) {
	matches, err := doublestar.Glob(os.DirFS(workDir), "**/"+DefaultFileName)
	if err != nil {
		return "", fmt.Errorf("search %s for %s: %w", workDir, DefaultFileName, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no %s found under %s", DefaultFileName, workDir)
	}

	slices.SortFunc(matches, func(a, b string) int {
		if c := cmp.Compare(strings.Count(a, "/"), strings.Count(b, "/")); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	return filepath.Join(workDir, filepath.FromSlash(path.Dir(matches[0]))), nil
}
