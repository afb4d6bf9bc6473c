package runner

import (
	"strconv"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// DefaultBinary is looked up in $PATH.
const DefaultBinary = "clang-tidy"

// Invocation is a single clang-tidy run on one translation unit.
type Invocation struct {
	// Binary is the program name, as configured.
	Binary string
	// Args excludes the program name.
	Args []string
	// Dir is the working directory (the project root).
	Dir string
	// File is the translation unit being analysed.
	File string
}

// Argv returns the program name followed by its arguments.
func (inv Invocation) Argv() []string {
	return append([]string{inv.Binary}, inv.Args...)
}

// String renders the command line shell-quoted, suitable for logs and
// for pasting into a terminal.
func (inv Invocation) String() string {
	argv := inv.Argv()
	quoted := make([]string, len(argv))
	for i, arg := range argv {
		q, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			q = strconv.Quote(arg)
		}
		quoted[i] = q
	}
	return strings.Join(quoted, " ")
}

// buildArgs assembles clang-tidy's arguments for file.
// Warnings from headers under the build directory are shown as well.
func buildArgs(buildDir, buildDirName string, checks, extra []string, file string) []string {
	args := make([]string, 0, 4+len(extra))
	args = append(args,
		"-header-filter=^"+buildDirName+"/.*",
		"-checks="+strings.Join(checks, ","),
		"-p="+buildDir,
	)
	args = append(args, extra...)
	return append(args, file)
}
