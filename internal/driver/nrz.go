package driver

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"
)

// DefaultNRZFreq clocks the SPI bus fast enough for an 800kHz NRZ chain
// with headroom.
const DefaultNRZFreq = 2500 * physic.KiloHertz

// NRZ drives a WS2812-style chain through a SPI port, using the MOSI line
// for the NRZ bit timing.
type NRZ struct {
	dev    *nrzled.Dev
	port   spi.PortCloser
	pixels int
}

// OpenNRZ initializes the host and opens the named SPI port. An empty
// name selects the first port registered.
func OpenNRZ(portName string, pixels int, freq physic.Frequency) (*NRZ, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	port, err := spireg.Open(portName)
	if err != nil {
		return nil, fmt.Errorf("open spi %q: %w", portName, err)
	}
	d, err := newNRZ(port, pixels, freq)
	if err != nil {
		port.Close()
		return nil, err
	}
	d.port = port
	return d, nil
}

func newNRZ(port spi.Port, pixels int, freq physic.Frequency) (*NRZ, error) {
	opts := nrzled.Opts{
		NumPixels: pixels,
		Channels:  3,
		Freq:      freq,
	}
	dev, err := nrzled.NewSPI(port, &opts)
	if err != nil {
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	// Blank whatever the chain was left showing.
	if err := dev.Halt(); err != nil {
		log.Warn().Err(err).Msg("could not blank LED chain")
	}
	return &NRZ{dev: dev, pixels: pixels}, nil
}

func (d *NRZ) Write(rgb []byte) error {
	if _, err := d.dev.Write(rgb); err != nil {
		return fmt.Errorf("spi write: %w", err)
	}
	return nil
}

func (d *NRZ) Close() error {
	err := d.dev.Halt()
	if d.port != nil {
		if cerr := d.port.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
