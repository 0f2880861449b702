// Package version carries build-time metadata injected via ldflags.
package version

import "fmt"

var (
	// Version is the release version, "dev" for local builds.
	Version = "dev"
	// CommitHash is the git commit the binary was built from.
	CommitHash = "unknown"
	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// Summary returns a one-line version string for CLI output.
func Summary() string {
	if CommitHash == "unknown" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, CommitHash)
}
