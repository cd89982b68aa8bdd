package matrix

import (
	"image"
	"image/color"

	"github.com/coreman2200/funtimes-ledmatrix/internal/pixel"
)

// Canvas is one face of the double buffer. Drawing lands here and becomes
// visible only when the matrix swaps it in.
type Canvas struct {
	img *image.RGBA
}

func newCanvas(w, h int) *Canvas {
	c := &Canvas{img: image.NewRGBA(image.Rect(0, 0, w, h))}
	c.Clear()
	return c
}

// Bounds is the drawable area, anchored at the origin.
func (c *Canvas) Bounds() image.Rectangle {
	return c.img.Rect
}

// Set colors one pixel. Coordinates off the canvas are ignored.
func (c *Canvas) Set(x, y int, col pixel.Color) {
	if !(image.Point{X: x, Y: y}).In(c.img.Rect) {
		return
	}
	c.img.SetRGBA(x, y, color.RGBA{R: col.R, G: col.G, B: col.B, A: 255})
}

// Fill floods the canvas with one color.
func (c *Canvas) Fill(col pixel.Color) {
	pix := c.img.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = col.R, col.G, col.B, 255
	}
}

// Clear blacks out the canvas.
func (c *Canvas) Clear() {
	c.Fill(pixel.Black)
}

// Image exposes the backing store so text and image helpers can target
// the canvas through the standard draw interfaces.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}
