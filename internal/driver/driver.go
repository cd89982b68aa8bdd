// Package driver contains the output backends a matrix pushes frames to:
// SPI-attached NRZ chains, Open Pixel Control servers, a terminal
// preview, and an in-memory simulator.
package driver

// Driver accepts serialized RGB frames. Implementations are not safe for
// concurrent use; the render engine goroutine owns the only handle.
type Driver interface {
	// Write pushes one frame in chain order, three bytes per LED.
	Write(rgb []byte) error
	// Close releases the device, blanking it where the hardware allows.
	Close() error
}

var (
	_ Driver = (*Sim)(nil)
	_ Driver = (*NRZ)(nil)
	_ Driver = (*Term)(nil)
	_ Driver = (*OPC)(nil)
)
