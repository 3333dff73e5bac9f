// Package version exposes the build information stamped into the binary.
package version

//nolint:revive // Overwritten by -ldflags at release time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
