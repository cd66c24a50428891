// Package version contains build information for the data2crm CLI.
// The variables are overridden at link time with -ldflags "-X ...".
package version

import "fmt"

var (
	// Version is the current version of the CLI.
	Version = "dev"
	// BuildTime is the time when the binary was built.
	BuildTime = "unknown"
	// GitCommit is the git commit hash of the build.
	GitCommit = "unknown"
)

// String returns the version line printed by --version
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
