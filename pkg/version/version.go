// Package version exposes build metadata injected via -ldflags.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set with -ldflags "-X github.com/rshade/spritebatch/pkg/version.version=v1.2.3".
//
//nolint:gochecknoglobals // ldflags targets
var (
	version   = ""
	gitCommit = ""
	buildDate = ""
)

// GetVersion returns the build version. Without ldflags it falls back to the
// module version recorded by "go install", then to "dev".
func GetVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

// GetGitCommit returns the commit the binary was built from, or "unknown".
func GetGitCommit() string {
	if gitCommit != "" {
		return gitCommit
	}
	return "unknown"
}

// GetBuildDate returns the build date, or "unknown".
func GetBuildDate() string {
	if buildDate != "" {
		return buildDate
	}
	return "unknown"
}

// String returns a one-line description of the build.
func String() string {
	return fmt.Sprintf("spritebatch %s (commit %s, built %s, %s %s/%s)",
		GetVersion(), GetGitCommit(), GetBuildDate(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
