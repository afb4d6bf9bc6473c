package runner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvocation_String(t *testing.T) {
	t.Parallel()

	inv := Invocation{
		Binary: "clang-tidy",
		Args: []string{
			"-header-filter=^obj/.*",
			"-checks=-*,bugprone-*",
			"-p=/work/obj",
			"/work/src/my file.cpp",
		},
	}

	got := inv.String()
	assert.True(t, strings.HasPrefix(got, "clang-tidy "), got)
	assert.True(t, strings.HasSuffix(got, ` '/work/src/my file.cpp'`), got)
	assert.Contains(t, got, `'-checks=-*,bugprone-*'`)
}

func TestBuildArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		checks []string
		extra  []string
		want   []string
	}{
		{
			name:   "single check",
			checks: []string{"modernize-use-nullptr"},
			want: []string{
				"-header-filter=^obj-x86/.*",
				"-checks=modernize-use-nullptr",
				"-p=/src/obj-x86",
				"/src/a.cpp",
			},
		},
		{
			name:   "no checks",
			checks: nil,
			want: []string{
				"-header-filter=^obj-x86/.*",
				"-checks=",
				"-p=/src/obj-x86",
				"/src/a.cpp",
			},
		},
		{
			name:   "extra args precede file",
			checks: []string{"-*", "bugprone-*"},
			extra:  []string{"--quiet", "--extra-arg=-std=c++17"},
			want: []string{
				"-header-filter=^obj-x86/.*",
				"-checks=-*,bugprone-*",
				"-p=/src/obj-x86",
				"--quiet",
				"--extra-arg=-std=c++17",
				"/src/a.cpp",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := buildArgs("/src/obj-x86", "obj-x86", tt.checks, tt.extra, "/src/a.cpp")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTailBuffer(t *testing.T) {
	t.Parallel()

	b := newTailBuffer(8)
	n, err := b.Write([]byte("0123456789abcdef"))
	assert.NoError(t, err)
	assert.Equal(t, 16, n)
	assert.Equal(t, "89abcdef", b.String())

	_, _ = b.Write([]byte("XY"))
	assert.Equal(t, "abcdefXY", b.String())

	disabled := newTailBuffer(0)
	n, err = disabled.Write([]byte("ignored"))
	assert.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Empty(t, disabled.String())
}
