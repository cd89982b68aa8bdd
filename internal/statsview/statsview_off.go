//go:build !statsview

package statsview

const Address = ""

// Launch does nothing without the statsview build tag.
func Launch() {
}

// Available reports whether a stats server can be launched.
func Available() bool {
	return false
}
