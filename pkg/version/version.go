// Package version holds the build version of cvefocus.
package version

// version is set at build time with
// -ldflags "-X github.com/rshade/cvefocus/pkg/version.version=v1.2.3".
var version = "dev" //nolint:gochecknoglobals // Overridden by the linker.

// GetVersion returns the build version, "dev" for untagged builds.
func GetVersion() string {
	return version
}
