package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotPath(t *testing.T) {
	t.Parallel()

	got := SnapshotPath("pkg", "TestReport/with_tabs", ".txt")
	assert.Equal(t, filepath.Join("pkg", "__snapshots__", "TestReport_with_tabs_1.snap.txt"), got)
}

func TestDiff(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Diff("a\tb\n", "a\tb\n"))

	diff := Diff("int x;\n", "int y;\n")
	assert.NotEmpty(t, diff)
	assert.Contains(t, diff, "@@")
}
