package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/tidyrun/internal/compiledb"
	"github.com/wharflab/tidyrun/internal/diag"
)

// fakeExecutor implements Executor for testing.
type fakeExecutor struct {
	mu    sync.Mutex
	calls []Invocation

	output func(inv Invocation) ([]byte, error)
}

func (e *fakeExecutor) Execute(ctx context.Context, inv Invocation) ([]byte, error) {
	e.mu.Lock()
	e.calls = append(e.calls, inv)
	e.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.output(inv)
}

func (e *fakeExecutor) files() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	files := make([]string, len(e.calls))
	for i, c := range e.calls {
		files[i] = c.File
	}
	return files
}

// echoOutput reports one warning with a note per file, plus a sentinel error.
func echoOutput(inv Invocation) ([]byte, error) {
	out := fmt.Sprintf("%[1]s:1:2: warning: first issue [check-a]\n"+
		"  int *p = 0;\n"+
		"           ^\n"+
		"%[1]s:3:4: note: declared here\n"+
		"  void f();\n"+
		"%[1]s:5:6: error: broken [clang-diagnostic-error]\n"+
		"%[1]s:7:8: error: second issue [check-b]\n", inv.File)
	return []byte(out), nil
}

// setupProject creates a work dir with an obj/compile_commands.json listing files.
func setupProject(t *testing.T, files []string) string {
	t.Helper()

	workDir := t.TempDir()
	buildDir := filepath.Join(workDir, "obj")
	require.NoError(t, os.MkdirAll(buildDir, 0o750))

	var entries []string
	for _, f := range files {
		entries = append(entries, fmt.Sprintf(`{"directory": %q, "file": %q, "command": "clang++ -c %s"}`,
			buildDir, filepath.Join(workDir, f), f))
	}
	db := "[" + strings.Join(entries, ",\n") + "]"
	require.NoError(t, os.WriteFile(filepath.Join(buildDir, compiledb.DefaultFileName), []byte(db), 0o600))
	return workDir
}

func newTestRunner(t *testing.T, workDir string, workers int, exec Executor) *Runner {
	t.Helper()
	r, err := New(Options{
		WorkDir:  workDir,
		BuildDir: "obj",
		Workers:  workers,
		Executor: exec,
	})
	require.NoError(t, err)
	return r
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	workDir := setupProject(t, []string{"src/a.cpp"})
	exec := &fakeExecutor{output: echoOutput}

	tests := []struct {
		name string
		opts Options
	}{
		{"negative workers", Options{WorkDir: workDir, BuildDir: "obj", Workers: -1, Executor: exec}},
		{"too many workers", Options{WorkDir: workDir, BuildDir: "obj", Workers: 33, Executor: exec}},
		{"missing work dir", Options{WorkDir: filepath.Join(workDir, "missing"), BuildDir: "obj", Executor: exec}},
		{"missing database", Options{WorkDir: workDir, BuildDir: "nowhere", Executor: exec}},
		{"missing binary", Options{WorkDir: workDir, BuildDir: "obj", Binary: "tidyrun-no-such-binary"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(tt.opts)
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestNew_Workers(t *testing.T) {
	t.Parallel()

	workDir := setupProject(t, []string{"src/a.cpp"})
	exec := &fakeExecutor{output: echoOutput}

	assert.Equal(t, 32, newTestRunner(t, workDir, 32, exec).Workers())
	assert.Equal(t, 1, newTestRunner(t, workDir, 1, exec).Workers())
	assert.Positive(t, newTestRunner(t, workDir, 0, exec).Workers())
}

func TestRunner_Invocation(t *testing.T) {
	t.Parallel()

	workDir := setupProject(t, []string{"src/a.cpp"})
	r, err := New(Options{
		WorkDir:   workDir,
		BuildDir:  "obj",
		Workers:   1,
		ExtraArgs: []string{"--quiet"},
		Executor:  &fakeExecutor{output: echoOutput},
	})
	require.NoError(t, err)

	file := filepath.Join(workDir, "src", "a.cpp")
	inv := r.Invocation([]string{"-*", "modernize-use-nullptr"}, file)

	assert.Equal(t, []string{
		"clang-tidy",
		"-header-filter=^obj/.*",
		"-checks=-*,modernize-use-nullptr",
		"-p=" + filepath.Join(r.WorkDir(), "obj"),
		"--quiet",
		file,
	}, inv.Argv())
	assert.Equal(t, r.WorkDir(), inv.Dir)
	assert.Equal(t, file, inv.File)
}

func TestRun_ParsesAndStripsRoot(t *testing.T) {
	t.Parallel()

	workDir := setupProject(t, []string{"src/a.cpp"})
	r := newTestRunner(t, workDir, 2, &fakeExecutor{output: echoOutput})

	got, err := r.Run(context.Background(), []string{"check-a", "check-b"}, []string{"src/a.cpp"})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, diag.NewLocation("src/a.cpp", 1, 2), got[0].Location)
	assert.Equal(t, "check-a", got[0].Check)
	assert.Equal(t, "  int *p = 0;\n           ^", got[0].Body)
	require.Len(t, got[0].Notes, 1)
	assert.Equal(t, "  void f();", got[0].Notes[0].Body)
	assert.Equal(t, "check-b", got[1].Check)
	assert.Empty(t, got[1].Notes)
}

func TestRun_OnlyMatchingFilesDispatched(t *testing.T) {
	t.Parallel()

	workDir := setupProject(t, []string{
		"dom/base/Node.cpp",
		"dom/base/Element.cpp",
		"layout/Frame.cpp",
		"gfx/Layers.cpp",
	})
	exec := &fakeExecutor{output: echoOutput}
	r := newTestRunner(t, workDir, 3, exec)

	_, err := r.Run(context.Background(), nil, []string{"dom/base/Node", "layout/"})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		filepath.Join(r.WorkDir(), "dom/base/Node.cpp"),
		filepath.Join(r.WorkDir(), "layout/Frame.cpp"),
	}, exec.files())
}

func TestRun_NoMatches(t *testing.T) {
	t.Parallel()

	workDir := setupProject(t, []string{"src/a.cpp"})
	exec := &fakeExecutor{output: echoOutput}
	r := newTestRunner(t, workDir, 2, exec)

	got, err := r.Run(context.Background(), nil, []string{"other/"})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, exec.files())
}

func TestRun_WorkerCountDoesNotChangeResults(t *testing.T) {
	t.Parallel()

	files := make([]string, 100)
	for i := range files {
		files[i] = fmt.Sprintf("src/file%03d.cpp", i)
	}
	workDir := setupProject(t, files)

	run := func(workers int) []diag.Diagnostic {
		r := newTestRunner(t, workDir, workers, &fakeExecutor{output: echoOutput})
		got, err := r.Run(context.Background(), []string{"*"}, []string{"src/"})
		require.NoError(t, err)
		return got
	}

	serial := run(1)
	parallel := run(4)

	require.Len(t, serial, 200)
	assert.ElementsMatch(t, serial, parallel)
}

func TestRun_FailureAbortsRun(t *testing.T) {
	t.Parallel()

	files := make([]string, 20)
	for i := range files {
		files[i] = fmt.Sprintf("src/file%02d.cpp", i)
	}
	workDir := setupProject(t, files)

	exec := &fakeExecutor{output: func(inv Invocation) ([]byte, error) {
		if strings.HasSuffix(inv.File, "file07.cpp") {
			return nil, &InvocationError{File: inv.File, Command: inv.String(), ExitCode: 1, Stderr: "fatal error"}
		}
		return echoOutput(inv)
	}}
	r := newTestRunner(t, workDir, 4, exec)

	got, err := r.Run(context.Background(), nil, []string{"src/"})
	require.Error(t, err)
	assert.Nil(t, got)

	var invErr *InvocationError
	require.ErrorAs(t, err, &invErr)
	assert.True(t, strings.HasSuffix(invErr.File, "file07.cpp"))
	assert.Equal(t, 1, invErr.ExitCode)
	assert.Contains(t, err.Error(), "file07.cpp")
	assert.Contains(t, err.Error(), "clang-tidy")
}

func TestRun_ExecutorErrorIsAttributed(t *testing.T) {
	t.Parallel()

	workDir := setupProject(t, []string{"src/a.cpp"})
	exec := &fakeExecutor{output: func(Invocation) ([]byte, error) {
		return nil, errors.New("exec format error")
	}}
	r := newTestRunner(t, workDir, 1, exec)

	_, err := r.Run(context.Background(), []string{"c"}, []string{"a.cpp"})
	var invErr *InvocationError
	require.ErrorAs(t, err, &invErr)
	assert.Contains(t, invErr.Command, "-checks=c")
	assert.Contains(t, invErr.File, "a.cpp")
}

func TestRun_InvalidUTF8(t *testing.T) {
	t.Parallel()

	workDir := setupProject(t, []string{"src/a.cpp"})
	exec := &fakeExecutor{output: func(Invocation) ([]byte, error) {
		return []byte("a.cpp:1:1: warning: w\n\xff\xfe\n"), nil
	}}
	r := newTestRunner(t, workDir, 1, exec)

	got, err := r.Run(context.Background(), nil, []string{"a.cpp"})
	assert.Nil(t, got)
	var utfErr *NotUTF8Error
	require.ErrorAs(t, err, &utfErr)
	assert.Contains(t, utfErr.File, "a.cpp")
}

func TestRun_Cancellation(t *testing.T) {
	t.Parallel()

	files := make([]string, 10)
	for i := range files {
		files[i] = fmt.Sprintf("src/file%02d.cpp", i)
	}
	workDir := setupProject(t, files)

	started := make(chan struct{}, len(files))
	exec := &fakeExecutor{}
	ctx, cancel := context.WithCancel(context.Background())
	exec.output = func(Invocation) ([]byte, error) {
		started <- struct{}{}
		<-ctx.Done()
		return nil, ctx.Err()
	}
	r := newTestRunner(t, workDir, 2, exec)

	go func() {
		<-started
		cancel()
	}()

	done := make(chan struct{})
	var (
		got []diag.Diagnostic
		err error
	)
	go func() {
		got, err = r.Run(ctx, nil, []string{"src/"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}

	assert.Nil(t, got)
	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, len(exec.files()), len(files))
}

func TestRun_InvalidExcludePattern(t *testing.T) {
	t.Parallel()

	workDir := setupProject(t, []string{"src/a.cpp"})
	r, err := New(Options{
		WorkDir:  workDir,
		BuildDir: "obj",
		Workers:  1,
		Exclude:  []string{"[oops"},
		Executor: &fakeExecutor{output: echoOutput},
	})
	require.NoError(t, err)

	_, err = r.Run(context.Background(), nil, []string{"src/"})
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}
