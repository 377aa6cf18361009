// Package version holds niksi's build identity.
package version

import "fmt"

// These variables are injected at build time via -ldflags, e.g.
//
//	-X github.com/niksi-aalto/niksi/src/version.Version=v0.3.0
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// String returns a human-readable version string.
func String() string {
	return fmt.Sprintf("niksi %s (%s, %s)", Version, Commit, BuildDate)
}
