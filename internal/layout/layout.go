// Package layout describes the physical panel: its dimensions and the
// order its pixels appear on the LED chain.
package layout

import "fmt"

// Panel is a rows x cols RGB matrix.
type Panel struct {
	Rows int `json:"rows" yaml:"rows"`
	Cols int `json:"cols" yaml:"cols"`
}

// Default is the 64x64 panel the project ships against.
func Default() Panel {
	return Panel{Rows: 64, Cols: 64}
}

func (p Panel) Validate() error {
	if p.Rows < 1 || p.Cols < 1 {
		return fmt.Errorf("panel %dx%d: dimensions must be positive", p.Rows, p.Cols)
	}
	return nil
}

// PixelCount is the number of addressable LEDs.
func (p Panel) PixelCount() int {
	return p.Rows * p.Cols
}

// FrameBytes is the length of one raw RGB frame, three bytes per pixel.
func (p Panel) FrameBytes() int {
	return p.Rows * p.Cols * 3
}

func (p Panel) String() string {
	return fmt.Sprintf("%dx%d", p.Rows, p.Cols)
}

// ChainLUT maps row-major pixel indexes to positions on the wire. With
// serpentine wiring every odd row runs right to left.
func ChainLUT(p Panel, serpentine bool) []int {
	lut := make([]int, p.PixelCount())
	for y := 0; y < p.Rows; y++ {
		for x := 0; x < p.Cols; x++ {
			cx := x
			if serpentine && y%2 == 1 {
				cx = p.Cols - 1 - x
			}
			lut[y*p.Cols+x] = y*p.Cols + cx
		}
	}
	return lut
}
