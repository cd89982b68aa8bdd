// Package pixel holds the color model shared by the render engine and the
// LED drivers.
package pixel

import "image/color"

// Color is one LED pixel, channel order R, G, B.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

var (
	Black = Color{}
	White = Color{R: 255, G: 255, B: 255}
)

var _ color.Color = Color{}

func New(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// FromHue maps a hue angle in degrees onto the RGB wheel at full
// saturation and value. Angles of 360 and above wrap.
func FromHue(deg uint16) Color {
	h := deg % 360
	frac := float32(h%60) / 60.0
	rising := uint8(frac * 255.0)
	falling := uint8((1.0 - frac) * 255.0)
	switch {
	case h < 60:
		return Color{R: 255, G: rising}
	case h < 120:
		return Color{R: falling, G: 255}
	case h < 180:
		return Color{G: 255, B: rising}
	case h < 240:
		return Color{G: falling, B: 255}
	case h < 300:
		return Color{R: rising, B: 255}
	default:
		return Color{R: 255, B: falling}
	}
}

// Scale dims every channel to brightness percent. Values of 100 and above
// leave the color untouched.
func (c Color) Scale(brightness uint8) Color {
	if brightness >= 100 {
		return c
	}
	return Color{
		R: uint8(uint16(c.R) * uint16(brightness) / 100),
		G: uint8(uint16(c.G) * uint16(brightness) / 100),
		B: uint8(uint16(c.B) * uint16(brightness) / 100),
	}
}

// NRGBA converts to the stdlib color type at full alpha.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// RGBA implements image/color.Color so a Color can feed image.NewUniform
// and the draw packages directly.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}
