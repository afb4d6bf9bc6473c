// Package runner runs clang-tidy over the translation units of a compile
// database with a fixed pool of workers and collects the parsed diagnostics.
//
// The runner owns its work queue and result queue; the logger and the
// process executor are passed in. Any clang-tidy failure or cancellation
// aborts the whole run: there is no partial result.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/wharflab/tidyrun/internal/compiledb"
	"github.com/wharflab/tidyrun/internal/diag"
	"github.com/wharflab/tidyrun/internal/logging"
	"github.com/wharflab/tidyrun/internal/parser"
)

// MaxWorkers is the largest accepted explicit worker count.
const MaxWorkers = 32

// Options configures a Runner.
type Options struct {
	// WorkDir is the project root. clang-tidy runs from here and the
	// prefix is stripped from reported paths.
	WorkDir string

	// BuildDir holds the compile database, relative to WorkDir or absolute.
	BuildDir string

	// Database is the compile database file name inside BuildDir.
	// Default: compile_commands.json.
	Database string

	// Workers is the pool size. 0 means one per CPU; otherwise 1..32.
	Workers int

	// Exclude are doublestar patterns (relative to WorkDir) of files never analysed.
	Exclude []string

	// Binary is the clang-tidy program. Default: clang-tidy from $PATH.
	Binary string

	// ExtraArgs are appended before the file name.
	ExtraArgs []string

	// Executor runs invocations. Default: a ProcessExecutor for Binary.
	Executor Executor

	// Logger defaults to a silent logger.
	Logger logrus.FieldLogger
}

// Runner dispatches clang-tidy invocations over a worker pool.
type Runner struct {
	workDir      string
	buildDir     string
	buildDirName string
	binary       string
	extraArgs    []string
	exclude      []string
	workers      int
	files        []string
	executor     Executor
	logger       logrus.FieldLogger
}

// New validates the options and loads the compile database.
func New(opts Options) (*Runner, error) {
	logger := logging.Component(opts.Logger, "runner")

	workDir, err := filepath.Abs(opts.WorkDir)
	if err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("work dir %q: %w", opts.WorkDir, err)}
	}
	info, err := os.Stat(workDir)
	if err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("work dir %q: %w", workDir, err)}
	}
	if !info.IsDir() {
		return nil, &ConfigError{Err: fmt.Errorf("work dir %q is not a directory", workDir)}
	}

	buildDir := opts.BuildDir
	if !filepath.IsAbs(buildDir) {
		buildDir = filepath.Join(workDir, buildDir)
	}

	workers := opts.Workers
	switch {
	case workers == 0:
		workers = runtime.NumCPU()
	case workers < 0 || workers > MaxWorkers:
		return nil, &ConfigError{Err: fmt.Errorf("workers must be between 1 and %d, got %d", MaxWorkers, workers)}
	}

	dbName := opts.Database
	if dbName == "" {
		dbName = compiledb.DefaultFileName
	}
	db, err := compiledb.Load(filepath.Join(buildDir, dbName))
	if err != nil {
		return nil, &ConfigError{Err: err}
	}

	binary := opts.Binary
	if binary == "" {
		binary = DefaultBinary
	}
	executor := opts.Executor
	if executor == nil {
		pe, err := NewProcessExecutor(binary)
		if err != nil {
			return nil, &ConfigError{Err: err}
		}
		executor = pe
	}

	logger.WithField("nb", workers).Info("Clang tidy will spawn workers")

	return &Runner{
		workDir:      workDir,
		buildDir:     buildDir,
		buildDirName: filepath.Base(buildDir),
		binary:       binary,
		extraArgs:    opts.ExtraArgs,
		exclude:      opts.Exclude,
		workers:      workers,
		files:        db.Files(),
		executor:     executor,
		logger:       logger,
	}, nil
}

// Workers returns the pool size.
func (r *Runner) Workers() int {
	return r.workers
}

// WorkDir returns the absolute project root.
func (r *Runner) WorkDir() string {
	return r.workDir
}

// Select returns the database files a run with these fragments would analyse.
func (r *Runner) Select(fragments []string) ([]string, error) {
	selected, err := compiledb.Filter(r.files, fragments, compiledb.FilterOptions{
		Exclude: r.exclude,
		Root:    r.workDir,
	})
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	return selected, nil
}

// Invocation returns the command used to analyse file with checks.
func (r *Runner) Invocation(checks []string, file string) Invocation {
	return Invocation{
		Binary: r.binary,
		Args:   buildArgs(r.buildDir, r.buildDirName, checks, r.extraArgs, file),
		Dir:    r.workDir,
		File:   file,
	}
}

// Run analyses every database file matching one of the fragments with
// the given checks. Diagnostics are returned in completion order.
//
// The first failing invocation cancels all others and is returned;
// cancelling ctx kills in-flight invocations and returns ctx's error.
func (r *Runner) Run(ctx context.Context, checks, fragments []string) ([]diag.Diagnostic, error) {
	selected, err := r.Select(fragments)
	if err != nil {
		return nil, err
	}
	r.logger.WithField("files", len(selected)).Info("Selected files from compile database")

	queue := make(chan string, r.workers)
	results := &resultQueue{}

	g, gctx := errgroup.WithContext(ctx)
	for range r.workers {
		g.Go(func() error {
			return r.work(gctx, checks, queue, results)
		})
	}
	g.Go(func() error {
		defer close(queue)
		for _, file := range selected {
			select {
			case queue <- file:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			r.logger.Warn("Run cancelled, in-flight clang-tidy processes were killed")
			return nil, fmt.Errorf("clang-tidy run cancelled: %w", ctxErr)
		}
		return nil, err
	}

	return results.drain(), nil
}

// work is one worker: it analyses files from queue until it is closed.
func (r *Runner) work(ctx context.Context, checks []string, queue <-chan string, results *resultQueue) error {
	for file := range queue {
		if err := ctx.Err(); err != nil {
			return err
		}
		diagnostics, err := r.analyze(ctx, checks, file)
		if err != nil {
			return err
		}
		results.push(diagnostics)
	}
	return nil
}

func (r *Runner) analyze(ctx context.Context, checks []string, file string) ([]diag.Diagnostic, error) {
	inv := r.Invocation(checks, file)
	r.logger.WithField("cmd", inv.String()).Info("Running clang-tidy")

	out, err := r.executor.Execute(ctx, inv)
	if err != nil {
		var invErr *InvocationError
		if !errors.As(err, &invErr) && ctx.Err() == nil {
			err = &InvocationError{File: file, Command: inv.String(), ExitCode: -1, Err: err}
		}
		return nil, err
	}
	if !utf8.Valid(out) {
		return nil, &NotUTF8Error{File: file, Command: inv.String()}
	}

	return parser.Parse(string(out), parser.Options{
		Root:   r.workDir,
		Logger: r.logger.WithField("file", file),
	}), nil
}

// resultQueue collects diagnostics from all workers.
type resultQueue struct {
	mu    sync.Mutex
	items []diag.Diagnostic
}

func (q *resultQueue) push(diagnostics []diag.Diagnostic) {
	if len(diagnostics) == 0 {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, diagnostics...)
}

func (q *resultQueue) drain() []diag.Diagnostic {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	if items == nil {
		items = []diag.Diagnostic{}
	}
	return items
}
