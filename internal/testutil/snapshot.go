// Package testutil provides test helpers shared by tidyrun packages.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// MatchRawSnapshot compares content against a standalone snapshot file,
// byte for byte.
//
// go-snaps' MatchStandaloneSnapshot passes content through pretty.Sprint
// whose tabwriter expands tab bytes into spaces. clang-tidy source excerpts
// keep the tabs of the analysed file, so reports containing them are
// compared here instead.
//
// Follows go-snaps' naming convention for standalone snapshots:
//
//	__snapshots__/<TestName>_1.snap<ext>
//
// Set UPDATE_SNAPS=true to create or update snapshot files.
func MatchRawSnapshot(tb testing.TB, ext, content string) {
	tb.Helper()

	_, callerFile, _, ok := runtime.Caller(1)
	if !ok {
		tb.Fatal("testutil.MatchRawSnapshot: unable to determine caller")
	}

	snapFile := SnapshotPath(filepath.Dir(callerFile), tb.Name(), ext)

	if os.Getenv("UPDATE_SNAPS") == "true" {
		if err := os.MkdirAll(filepath.Dir(snapFile), 0o750); err != nil {
			tb.Fatalf("mkdir snapshot dir: %v", err)
		}
		if err := os.WriteFile(snapFile, []byte(content), 0o644); err != nil { //nolint:gosec // test-only snapshot
			tb.Fatalf("write snapshot: %v", err)
		}
		return
	}

	prev, err := os.ReadFile(snapFile)
	if err != nil {
		tb.Fatalf("snapshot not found: %s\nRun with UPDATE_SNAPS=true to create", snapFile)
	}
	if diff := Diff(string(prev), content); diff != "" {
		tb.Errorf("snapshot mismatch: %s\n%s", snapFile, diff)
	}
}

// SnapshotPath returns the standalone snapshot file for a test.
func SnapshotPath(dir, testName, ext string) string {
	name := strings.ReplaceAll(testName, "/", "_")
	return filepath.Join(dir, "__snapshots__", name+"_1.snap"+ext)
}

// Diff renders a patch from want to got, or "" when they are equal.
func Diff(want, got string) string {
	if want == got {
		return ""
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(want, got, true)
	diffs = dmp.DiffCleanupSemanticLossless(diffs)
	return dmp.PatchToText(dmp.PatchMake(want, diffs))
}
