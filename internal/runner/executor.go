package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// Executor runs one invocation and returns its standard output.
// A non-zero exit must be reported as an error.
type Executor interface {
	Execute(ctx context.Context, inv Invocation) ([]byte, error)
}

// Defaults for ProcessExecutor.
const (
	defaultStderrLimit = 16 * 1024
	defaultWaitDelay   = 5 * time.Second
)

// ProcessExecutor runs clang-tidy as a child process.
//
// Each child gets its own process group so that cancelling the context
// kills clang-tidy together with anything it spawned.
type ProcessExecutor struct {
	path        string
	stderrLimit int64
	waitDelay   time.Duration
}

// NewProcessExecutor resolves binary in $PATH.
func NewProcessExecutor(binary string) (*ProcessExecutor, error) {
	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("cannot find %s: %w", binary, err)
	}
	return &ProcessExecutor{
		path:        path,
		stderrLimit: defaultStderrLimit,
		waitDelay:   defaultWaitDelay,
	}, nil
}

// Path returns the resolved executable path.
func (e *ProcessExecutor) Path() string {
	return e.path
}

// Execute implements Executor.
func (e *ProcessExecutor) Execute(ctx context.Context, inv Invocation) ([]byte, error) {
	cmd := exec.CommandContext(ctx, e.path, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.WaitDelay = e.waitDelay
	configureProcessGroup(cmd)

	var stdout bytes.Buffer
	stderr := newTailBuffer(e.stderrLimit)
	cmd.Stdout = &stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		invErr := &InvocationError{
			File:     inv.File,
			Command:  inv.String(),
			ExitCode: -1,
			Stderr:   stderr.String(),
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			invErr.ExitCode = exitErr.ExitCode()
		}
		return nil, invErr
	}

	return stdout.Bytes(), nil
}
