package driver

import (
	"image"

	"periph.io/x/conn/v3/display"
	"periph.io/x/extra/devices/screen"
)

// Term previews the chain as a strip of ANSI-colored blocks in the
// terminal. It shows wire order, not the 2-D layout.
type Term struct {
	drawer display.Drawer
	strip  *image.NRGBA
	pixels int
}

func NewTerm(pixels int) *Term {
	return &Term{
		drawer: screen.New(pixels),
		strip:  image.NewNRGBA(image.Rect(0, 0, pixels, 1)),
		pixels: pixels,
	}
}

func (d *Term) Write(rgb []byte) error {
	n := len(rgb) / 3
	if n > d.pixels {
		n = d.pixels
	}
	for i := 0; i < n; i++ {
		o := d.strip.PixOffset(i, 0)
		d.strip.Pix[o] = rgb[i*3]
		d.strip.Pix[o+1] = rgb[i*3+1]
		d.strip.Pix[o+2] = rgb[i*3+2]
		d.strip.Pix[o+3] = 255
	}
	return d.drawer.Draw(d.drawer.Bounds(), d.strip, image.Point{})
}

func (d *Term) Close() error {
	return d.drawer.Halt()
}
