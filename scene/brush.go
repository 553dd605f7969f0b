package scene

import (
	"github.com/gogpu/gputypes"

	"github.com/nerocui/blitz2d"
)

// Brush is a paint source captured by a recorded command.
// This is a sealed interface - only types in this package implement it.
//
// Brushes are recorded by value: a command's brush carries everything
// needed to recreate the device resource at playback time, so the
// producer's transient brush objects need not outlive the record call.
type Brush interface {
	// brushMarker is an unexported method that seals this interface.
	brushMarker()
}

// SolidBrush is a solid color brush.
type SolidBrush struct {
	Color blitz2d.RGBA
}

func (SolidBrush) brushMarker() {}

// GradientKind identifies the geometry of a gradient brush.
type GradientKind uint8

const (
	// GradientLinear interpolates stops along the Start-End segment.
	GradientLinear GradientKind = iota
	// GradientRadial interpolates stops outward from Center to Radius.
	GradientRadial
	// GradientSweep interpolates stops by angle around Center.
	// The resource cache approximates sweep gradients with a linear
	// brush; see render.Resources.
	GradientSweep
)

// GradientStop defines a color stop in a gradient.
type GradientStop struct {
	Offset float64      // Position in gradient, 0.0 to 1.0
	Color  blitz2d.RGBA // Color at this position
}

// GradientBrush is a gradient brush of any kind. Geometry fields not
// used by the kind are ignored: linear brushes use Start/End, radial
// and sweep brushes use Center (and Radius for radial).
type GradientBrush struct {
	Kind   GradientKind
	Start  blitz2d.Point
	End    blitz2d.Point
	Center blitz2d.Point
	Radius float64
	Stops  []GradientStop
}

func (GradientBrush) brushMarker() {}

// ImageBrush is a decoded image captured by value at record time.
type ImageBrush struct {
	Width, Height int

	// Pix holds the decoded pixel bytes in Format layout. The recorder
	// copies the producer's buffer; playback never aliases producer
	// memory.
	Pix []byte

	// Format is the pixel layout of Pix.
	Format gputypes.TextureFormat

	// HasAlpha reports whether the image carries an alpha channel.
	// It participates in the image cache key.
	HasAlpha bool
}

func (ImageBrush) brushMarker() {}

// NewImageBrush captures an image brush, copying pix.
func NewImageBrush(width, height int, pix []byte, format gputypes.TextureFormat, hasAlpha bool) ImageBrush {
	p := make([]byte, len(pix))
	copy(p, pix)
	return ImageBrush{
		Width:    width,
		Height:   height,
		Pix:      p,
		Format:   format,
		HasAlpha: hasAlpha,
	}
}

// CloneBrush returns a copy of b safe to retain past the record call.
// Solid and gradient brushes are value types; gradient stop slices and
// image pixels are copied.
func CloneBrush(b Brush) Brush {
	switch br := b.(type) {
	case SolidBrush:
		return br
	case GradientBrush:
		stops := make([]GradientStop, len(br.Stops))
		copy(stops, br.Stops)
		br.Stops = stops
		return br
	case ImageBrush:
		pix := make([]byte, len(br.Pix))
		copy(pix, br.Pix)
		br.Pix = pix
		return br
	default:
		return b
	}
}
