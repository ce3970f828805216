// pkg/version/version_test.go
package version

import (
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestString_ReturnsFormattedString(t *testing.T) {
	// vars set at build-time, here using default "dev"
	info := String()

	if !strings.Contains(info, "typedjob") {
		t.Errorf("Expected info to contain 'typedjob', got: %s", info)
	}
	if !strings.Contains(info, Version) {
		t.Errorf("Expected info to contain version '%s'", Version)
	}
	if !strings.Contains(info, Commit) {
		t.Errorf("Expected info to contain commit '%s'", Commit)
	}
}

func TestGetVersion(t *testing.T) {
	v := GetVersion()

	if v.Version != Version {
		t.Errorf("Expected version %s, got %s", Version, v.Version)
	}
	if v.Tag != "" {
		t.Errorf("Expected empty tag for dev build, got %s", v.Tag)
	}
	if v.GoVersion != runtime.Version() {
		t.Errorf("Expected go version %s, got %s", runtime.Version(), v.GoVersion)
	}
	if v.Platform != runtime.GOOS+"/"+runtime.GOARCH {
		t.Errorf("unexpected platform %s", v.Platform)
	}
}

func TestTag(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"1.2.3", "v1.2.3"},
		{"v1.2", "v1.2.0"},
		{"v2", "v2.0.0"},
		{"1.0.0-rc.1", "v1.0.0-rc.1"},
		{"dev", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Tag(tt.in); got != tt.want {
			t.Errorf("Tag(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsRelease(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "dev"
	if IsRelease() {
		t.Error("dev build must not be a release")
	}

	Version = "1.4.0-beta.2"
	if IsRelease() {
		t.Error("prerelease must not be a release")
	}

	Version = "1.4.0"
	if !IsRelease() {
		t.Error("1.4.0 is a release")
	}
}

func TestStartDate_IsInitialized(t *testing.T) {
	if time.Since(StartDate) > time.Minute {
		t.Errorf("StartDate is too old: %s", StartDate)
	}
}
