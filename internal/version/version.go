package version

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// Version is the service current released version.
// This value can be overridden at build time using ldflags:
//
//	go build -ldflags "-X github.com/hrygo/complaintdesk/internal/version.Version=0.3.0"
var Version = "0.0.0-dev"

// GitCommit is the git commit hash at build time.
// Set via ldflags: -X github.com/hrygo/complaintdesk/internal/version.GitCommit=$(git rev-parse HEAD)
var GitCommit = "unknown"

// BuildTime is the build timestamp in RFC3339 format.
// Set via ldflags: -X github.com/hrygo/complaintdesk/internal/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)
var BuildTime = "unknown"

func canonical(v string) string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// IsRelease reports whether Version is a valid semantic version without a
// pre-release suffix.
func IsRelease() bool {
	v := canonical(Version)
	return semver.IsValid(v) && semver.Prerelease(v) == ""
}

// AtLeast reports whether Version is greater than or equal to target.
// Both may be written with or without a leading "v".
func AtLeast(target string) (bool, error) {
	t := canonical(target)
	if !semver.IsValid(t) {
		return false, fmt.Errorf("invalid version %q", target)
	}
	return semver.Compare(canonical(Version), t) >= 0, nil
}

// String returns the version string with optional commit hash.
func String() string {
	v := Version
	if c := shortCommit(); c != "" {
		v = fmt.Sprintf("%s-%s", v, c)
	}
	return v
}

// StringFull returns the complete version information including build metadata.
func StringFull() string {
	parts := []string{fmt.Sprintf("Version=%s", Version)}
	if c := shortCommit(); c != "" {
		parts = append(parts, fmt.Sprintf("Commit=%s", c))
	}
	if BuildTime != "" && BuildTime != "unknown" {
		parts = append(parts, fmt.Sprintf("BuildTime=%s", BuildTime))
	}
	return strings.Join(parts, " ")
}

func shortCommit() string {
	if GitCommit == "" || GitCommit == "unknown" {
		return ""
	}
	if len(GitCommit) > 8 {
		return GitCommit[:8]
	}
	return GitCommit
}
