// Package version reports the tidyrun build.
package version

import (
	"runtime"
	"runtime/debug"
	"slices"
)

// version is set at link time: -ldflags "-X github.com/wharflab/tidyrun/internal/version.version=v1.2.3".
var version = "dev"

// Version returns the current version string.
// For `go install`ed binaries without a link-time version, the module
// version from the build info is used.
func Version() string {
	if version != "dev" {
		return version
	}
	if v, _ := readBuildInfo(); v != "" {
		return v
	}
	return version
}

// GoVersion returns the Go toolchain version used for the build.
func GoVersion() string {
	return runtime.Version()
}

// readBuildInfo reads debug.ReadBuildInfo and extracts the main module
// version and the VCS revision.
func readBuildInfo() (string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}
	var modVersion, commit string
	if v := info.Main.Version; v != "" && v != "(devel)" {
		modVersion = v
	}
	if idx := slices.IndexFunc(info.Settings, func(s debug.BuildSetting) bool {
		return s.Key == "vcs.revision"
	}); idx >= 0 {
		val := info.Settings[idx].Value
		if len(val) > 12 {
			commit = val[:12]
		} else {
			commit = val
		}
	}
	return modVersion, commit
}

// Info holds structured version information for machine-readable output.
type Info struct {
	Version   string   `json:"version"`
	Platform  Platform `json:"platform"`
	GoVersion string   `json:"goVersion"`
	GitCommit string   `json:"gitCommit,omitempty"`
}

// Platform describes the OS and architecture.
type Platform struct {
	OS   string `json:"os"`
	Arch string `json:"arch"`
}

// GetInfo returns structured version information.
func GetInfo() Info {
	_, commit := readBuildInfo()
	return Info{
		Version: Version(),
		Platform: Platform{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
		GoVersion: GoVersion(),
		GitCommit: commit,
	}
}
