// Package version provides build version information for wanna.
// Values are injected at build time via -ldflags and validated as semantic versions.
package version

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Build information that can be set at compile time via -ldflags
var (
	// Version is the semantic version of the application
	Version = "0.3.0"

	// GitCommit is the git commit hash when the binary was built
	GitCommit = "unknown"

	// BuildDate is the date when the binary was built
	BuildDate = "unknown"
)

// Info represents comprehensive version information
type Info struct {
	Version   string          `json:"version"`
	GitCommit string          `json:"gitCommit"`
	BuildDate string          `json:"buildDate"`
	GoVersion string          `json:"goVersion"`
	Platform  string          `json:"platform"`
	SemVer    *semver.Version `json:"-"`
}

// GetInfo returns comprehensive version information
func GetInfo() (*Info, error) {
	sv, err := semver.NewVersion(Version)
	if err != nil {
		return nil, fmt.Errorf("invalid semantic version '%s': %w", Version, err)
	}

	return &Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		SemVer:    sv,
	}, nil
}

// GetFormattedVersion returns a one-line version string
func GetFormattedVersion() string {
	info, err := GetInfo()
	if err != nil {
		return fmt.Sprintf("wanna v%s (invalid version)", Version)
	}

	parts := []string{fmt.Sprintf("wanna v%s", info.Version)}

	if info.GitCommit != "unknown" && info.GitCommit != "" {
		shortCommit := info.GitCommit
		if len(shortCommit) > 7 {
			shortCommit = shortCommit[:7]
		}
		parts = append(parts, fmt.Sprintf("commit %s", shortCommit))
	}

	if info.BuildDate != "unknown" && info.BuildDate != "" {
		parts = append(parts, fmt.Sprintf("built %s", info.BuildDate))
	}

	parts = append(parts, info.Platform)
	if IsPrerelease() {
		parts = append(parts, "prerelease")
	}

	return strings.Join(parts, ", ")
}

// ShortVersion returns the canonical "major.minor.patch[-pre]" form, or the raw value when invalid.
func ShortVersion() string {
	sv, err := semver.NewVersion(Version)
	if err != nil {
		return Version
	}
	return sv.String()
}

// IsPrerelease reports whether the current version carries a prerelease tag.
func IsPrerelease() bool {
	sv, err := semver.NewVersion(Version)
	if err != nil {
		return false
	}
	return sv.Prerelease() != ""
}

// SetBuildInfo sets build information (used for testing)
func SetBuildInfo(version, gitCommit, buildDate string) {
	Version = version
	GitCommit = gitCommit
	BuildDate = buildDate
}
