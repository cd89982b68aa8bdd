package render

import (
	"fmt"
	"image"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"

	"github.com/coreman2200/funtimes-ledmatrix/internal/layout"
)

// loadImage decodes any of the registered still formats.
func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// fitToPanel resamples an image to exactly cover the panel.
func fitToPanel(img image.Image, p layout.Panel) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, p.Cols, p.Rows))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// toRGBA returns img as an origin-anchored RGBA without resampling.
func toRGBA(img image.Image) *image.RGBA {
	if r, ok := img.(*image.RGBA); ok && r.Rect.Min == (image.Point{}) {
		return r
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	return dst
}

// dimFrame pre-multiplies brightness into a frame. Full brightness
// returns the frame untouched.
func dimFrame(img *image.RGBA, brightness int) *image.RGBA {
	if brightness >= 100 {
		return img
	}
	b := uint16(brightness)
	out := image.NewRGBA(img.Rect)
	for i := 0; i < len(img.Pix); i += 4 {
		out.Pix[i] = uint8(uint16(img.Pix[i]) * b / 100)
		out.Pix[i+1] = uint8(uint16(img.Pix[i+1]) * b / 100)
		out.Pix[i+2] = uint8(uint16(img.Pix[i+2]) * b / 100)
		out.Pix[i+3] = img.Pix[i+3]
	}
	return out
}
