// Package version holds the build version of the service.
package version

// Version is set at build time with
// -ldflags "-X github.com/umd-lib/iiif/internal/version.Version=...".
var Version = "0.0.0-dev"
