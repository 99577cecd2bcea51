// Package version holds build information set at link time:
//
//	go build -ldflags "-X marketproxy/internal/version.Version=1.0.0 \
//	                   -X marketproxy/internal/version.Commit=$(git rev-parse --short HEAD)"
package version

var (
	// Version is the release version.
	Version = "dev"

	// Commit is the short git commit hash.
	Commit = "unknown"
)

// String returns "version (commit)".
func String() string {
	return Version + " (" + Commit + ")"
}
