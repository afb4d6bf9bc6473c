//go:build !unix

package runner

import "os/exec"

// configureProcessGroup keeps exec's default: only the child is killed.
func configureProcessGroup(*exec.Cmd) {}
