package blitz2d

import (
	"image/color"
	"testing"
)

func TestPacked(t *testing.T) {
	tests := []struct {
		name string
		c    RGBA
		want uint32
	}{
		{"black", Black, 0x000000FF},
		{"white", White, 0xFFFFFFFF},
		{"transparent", Transparent, 0x00000000},
		{"red", RGB(1, 0, 0), 0xFF0000FF},
		{"half alpha", RGBA{R: 0, G: 1, B: 0, A: 0.5}, 0x00FF007F},
		{"out of range clamped", RGBA{R: 2, G: -1, B: 0, A: 1}, 0xFF0000FF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Packed(); got != tt.want {
				t.Errorf("Packed() = %#08x, want %#08x", got, tt.want)
			}
		})
	}
}

func TestFromColorRoundTrip(t *testing.T) {
	in := color.NRGBA{R: 255, G: 128, B: 0, A: 255}
	c := FromColor(in)
	out := c.Color().(color.NRGBA)
	if out.R != 255 || out.B != 0 || out.A != 255 {
		t.Errorf("round trip = %+v", out)
	}
	if d := int(out.G) - 128; d < -1 || d > 1 {
		t.Errorf("green drifted to %d", out.G)
	}
}

func TestWithAlpha(t *testing.T) {
	c := RGB(1, 0, 0).WithAlpha(0.25)
	if c.A != 0.25 {
		t.Errorf("alpha = %g, want 0.25", c.A)
	}
	if c.R != 1 || c.G != 0 || c.B != 0 {
		t.Error("WithAlpha must not touch the color components")
	}
}
