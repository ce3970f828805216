// pkg/version/version.go
// Package version provides version metadata for the application.
package version

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

// These variables are typically injected at build time using -ldflags
var (
	// Version holds the current version of typedjob.
	Version = "dev"
	// Commit holds the current version commit of typedjob.
	Commit = "none"
	// BuildDate holds the build date of typedjob.
	BuildDate = "unknown"
	// StartDate holds the start date of typedjob.
	StartDate = time.Now()
)

// Info is the version information printed by 'typedjob version'.
type Info struct {
	Version   string `json:"version" yaml:"version"`
	Tag       string `json:"tag,omitempty" yaml:"tag,omitempty"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildDate string `json:"buildDate" yaml:"buildDate"`
	GoVersion string `json:"goVersion" yaml:"goVersion"`
	Compiler  string `json:"compiler" yaml:"compiler"`
	Platform  string `json:"platform" yaml:"platform"`
}

// String returns a formatted one-line version string.
func String() string {
	return fmt.Sprintf("typedjob %s (commit: %s, date: %s)", Version, Commit, BuildDate)
}

// GetVersion returns the build metadata. Tag is the canonical semver form of
// Version ("1.2" -> "v1.2.0") and is empty for non-release builds.
func GetVersion() Info {
	return Info{
		Version:   Version,
		Tag:       Tag(Version),
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Compiler:  runtime.Compiler,
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Tag canonicalises v as a semver tag, accepting it with or without the
// leading "v". It returns "" when v is not a valid semantic version.
func Tag(v string) string {
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return semver.Canonical(v)
}

// IsRelease reports whether this build carries a release (non-prerelease) version.
func IsRelease() bool {
	tag := Tag(Version)
	return tag != "" && semver.Prerelease(tag) == ""
}
