// Package version holds the wirc CLI's build fingerprints, overridable at
// build time via -ldflags.
package version

var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// VersionString returns Version, used as cobra's --version output.
func VersionString() string { return Version }
