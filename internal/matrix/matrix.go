// Package matrix binds a panel layout to an output driver through a
// double-buffered canvas pair.
package matrix

import (
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-ledmatrix/internal/driver"
	"github.com/coreman2200/funtimes-ledmatrix/internal/layout"
)

// Matrix serializes canvases into chain order and pushes them to a
// driver. It is not safe for concurrent use; the render engine goroutine
// is the only caller.
type Matrix struct {
	panel layout.Panel
	drv   driver.Driver
	lut   []int
	wire  []byte
	off   *Canvas
	vis   *Canvas
}

func New(p layout.Panel, drv driver.Driver, serpentine bool) (*Matrix, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Matrix{
		panel: p,
		drv:   drv,
		lut:   layout.ChainLUT(p, serpentine),
		wire:  make([]byte, p.FrameBytes()),
		off:   newCanvas(p.Cols, p.Rows),
		vis:   newCanvas(p.Cols, p.Rows),
	}, nil
}

func (m *Matrix) Panel() layout.Panel {
	return m.panel
}

// Offscreen is the buffer to draw the next frame on.
func (m *Matrix) Offscreen() *Canvas {
	return m.off
}

// Swap makes the drawn canvas current: its pixels go to the driver in
// chain order and the previous buffer comes back as the next drawing
// target. Driver errors are logged, not returned.
func (m *Matrix) Swap(c *Canvas) *Canvas {
	pix := c.img.Pix
	for i, ci := range m.lut {
		w := ci * 3
		o := i * 4
		m.wire[w] = pix[o]
		m.wire[w+1] = pix[o+1]
		m.wire[w+2] = pix[o+2]
	}
	if err := m.drv.Write(m.wire); err != nil {
		log.Error().Err(err).Msg("driver write failed")
	}
	prev := m.vis
	m.vis = c
	m.off = prev
	return prev
}

func (m *Matrix) Close() error {
	return m.drv.Close()
}
