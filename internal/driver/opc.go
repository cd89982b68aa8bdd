package driver

import (
	"fmt"

	opc "github.com/kellydunn/go-opc"
)

// OPC forwards frames to an Open Pixel Control server, typically a
// Fadecandy daemon.
type OPC struct {
	client  *opc.Client
	channel uint8
	pixels  int
}

func OpenOPC(addr string, channel uint8, pixels int) (*OPC, error) {
	c := opc.NewClient()
	if err := c.Connect("tcp", addr); err != nil {
		return nil, fmt.Errorf("opc connect %s: %w", addr, err)
	}
	return &OPC{client: c, channel: channel, pixels: pixels}, nil
}

func (d *OPC) Write(rgb []byte) error {
	m := opc.NewMessage(d.channel)
	m.SetLength(uint16(d.pixels * 3))
	n := len(rgb) / 3
	if n > d.pixels {
		n = d.pixels
	}
	for i := 0; i < n; i++ {
		m.SetPixelColor(i, rgb[i*3], rgb[i*3+1], rgb[i*3+2])
	}
	if err := d.client.Send(m); err != nil {
		return fmt.Errorf("opc send: %w", err)
	}
	return nil
}

func (d *OPC) Close() error {
	return nil
}
