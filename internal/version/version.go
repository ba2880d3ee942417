// Package version exposes build metadata stamped in with -ldflags:
//
//	-X github.com/maxviazov/openapi-skeleton/internal/version.Version=1.2.3
//	-X github.com/maxviazov/openapi-skeleton/internal/version.Commit=abc123
//	-X github.com/maxviazov/openapi-skeleton/internal/version.BuiltAt=2024-01-01T00:00:00Z
package version

import "runtime/debug"

var (
	Version = "dev"
	Commit  = ""
	BuiltAt = ""
)

// Revision is the commit the binary was built from: the ldflags value if
// set, else the VCS revision the Go toolchain recorded, else "unknown".
func Revision() string {
	if Commit != "" {
		return Commit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				return s.Value
			}
		}
	}
	return "unknown"
}
