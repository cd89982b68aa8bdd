// Package version carries the build identity reported by the status API.
package version

// Stamped at build time via:
//
//	-ldflags "-X github.com/coreman2200/funtimes-ledmatrix/internal/version.Number=..."
var (
	// Number is the release version.
	Number = "0.3.0"
	// GitHash is the short commit the binary was built from.
	GitHash = "unknown"
)
