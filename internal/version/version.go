// Package version holds build-time version information injected via ldflags.
package version

import "fmt"

// These variables are set at build time via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns the one-line version banner printed by `svcboard version`.
func String() string {
	return fmt.Sprintf("svcboard %s (commit %s, built %s)", Version, Commit, Date)
}
