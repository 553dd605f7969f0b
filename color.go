package blitz2d

import "image/color"

// RGBA is a color with red, green, blue, and alpha components.
// Each component is in the range [0, 1]. Components are not
// premultiplied.
type RGBA struct {
	R, G, B, A float64
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1.0}
}

// FromColor converts a standard color.Color to RGBA.
func FromColor(c color.Color) RGBA {
	r, g, b, a := c.RGBA()
	return RGBA{
		R: float64(r) / 65535,
		G: float64(g) / 65535,
		B: float64(b) / 65535,
		A: float64(a) / 65535,
	}
}

// Color converts RGBA to the standard color.Color interface.
func (c RGBA) Color() color.Color {
	return color.NRGBA{
		R: uint8(clamp255(c.R * 255)),
		G: uint8(clamp255(c.G * 255)),
		B: uint8(clamp255(c.B * 255)),
		A: uint8(clamp255(c.A * 255)),
	}
}

// WithAlpha returns the color with its alpha replaced by a.
func (c RGBA) WithAlpha(a float64) RGBA {
	c.A = a
	return c
}

// Packed returns the color packed as 8-bit RGBA, red in the high byte.
// Used as the color component of cache keys, where two visually
// indistinguishable colors should map to the same entry.
func (c RGBA) Packed() uint32 {
	r := uint32(clamp255(c.R * 255))
	g := uint32(clamp255(c.G * 255))
	b := uint32(clamp255(c.B * 255))
	a := uint32(clamp255(c.A * 255))
	return r<<24 | g<<16 | b<<8 | a
}

// Common colors.
var (
	Black       = RGBA{0, 0, 0, 1}
	White       = RGBA{1, 1, 1, 1}
	Transparent = RGBA{0, 0, 0, 0}
)

func clamp255(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x
}
