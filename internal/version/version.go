// Package version exposes build version information.
package version

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = ""
)

// String returns the human-readable version.
func String() string {
	if commit == "" {
		return version
	}
	return version + " (" + commit + ")"
}
