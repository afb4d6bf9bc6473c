package runner

import (
	"fmt"
	"strings"
)

// ConfigError is returned by New when the runner cannot be set up.
// No work has started when it is returned.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return "invalid runner configuration: " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// InvocationError is returned when clang-tidy fails on a file. It aborts
// the whole run.
type InvocationError struct {
	// File is the translation unit being analysed.
	File string
	// Command is the shell-quoted command line.
	Command string
	// ExitCode is -1 when the process did not exit normally.
	ExitCode int
	// Stderr holds the tail of the process's standard error.
	Stderr string
	Err    error
}

func (e *InvocationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "clang-tidy failed on %s (exit code %d): %s", e.File, e.ExitCode, e.Command)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		b.WriteString("\n")
		b.WriteString(stderr)
	}
	return b.String()
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// NotUTF8Error is returned when clang-tidy's output is not valid UTF-8.
type NotUTF8Error struct {
	File    string
	Command string
}

func (e *NotUTF8Error) Error() string {
	return fmt.Sprintf("clang-tidy output for %s is not valid UTF-8: %s", e.File, e.Command)
}
