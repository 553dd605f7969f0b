package scene

import (
	"math"

	"github.com/nerocui/blitz2d"
)

// kappa is the control-point factor approximating a quarter circle
// with a single cubic Bezier: 4/3 * (sqrt(2) - 1).
const kappa = 0.5522847498307936

// Shape is a drawable outline the recorder can flatten into path
// segments. Implementations must be cheap to copy; the recorder
// consumes a shape exactly once per Fill/Stroke/PushLayer call.
type Shape interface {
	// AppendTo appends the shape's segments to dst.
	AppendTo(dst *Path)

	// Bounds returns the shape's axis-aligned bounding box.
	Bounds() blitz2d.Rect
}

// RectShape returns a Shape for an axis-aligned rectangle.
func RectShape(r blitz2d.Rect) Shape {
	return rectShape{r}
}

type rectShape struct {
	r blitz2d.Rect
}

func (s rectShape) AppendTo(dst *Path) {
	r := s.r
	dst.MoveTo(r.X0, r.Y0)
	dst.LineTo(r.X1, r.Y0)
	dst.LineTo(r.X1, r.Y1)
	dst.LineTo(r.X0, r.Y1)
	dst.Close()
}

func (s rectShape) Bounds() blitz2d.Rect { return s.r }

// RoundedRect is a rectangle with circular corners of a single radius.
// The radius is clamped to half the smaller rect dimension.
type RoundedRect struct {
	Rect   blitz2d.Rect
	Radius float64
}

// AppendTo implements Shape. Corners are approximated with one cubic
// Bezier each.
func (s RoundedRect) AppendTo(dst *Path) {
	r := s.Rect
	rad := s.Radius
	if maxRad := math.Min(r.Width(), r.Height()) / 2; rad > maxRad {
		rad = maxRad
	}
	if rad <= 0 {
		rectShape{r}.AppendTo(dst)
		return
	}
	k := rad * kappa
	dst.MoveTo(r.X0+rad, r.Y0)
	dst.LineTo(r.X1-rad, r.Y0)
	dst.CubicTo(r.X1-rad+k, r.Y0, r.X1, r.Y0+rad-k, r.X1, r.Y0+rad)
	dst.LineTo(r.X1, r.Y1-rad)
	dst.CubicTo(r.X1, r.Y1-rad+k, r.X1-rad+k, r.Y1, r.X1-rad, r.Y1)
	dst.LineTo(r.X0+rad, r.Y1)
	dst.CubicTo(r.X0+rad-k, r.Y1, r.X0, r.Y1-rad+k, r.X0, r.Y1-rad)
	dst.LineTo(r.X0, r.Y0+rad)
	dst.CubicTo(r.X0, r.Y0+rad-k, r.X0+rad-k, r.Y0, r.X0+rad, r.Y0)
	dst.Close()
}

// Bounds implements Shape.
func (s RoundedRect) Bounds() blitz2d.Rect { return s.Rect }

// Ellipse is an axis-aligned ellipse.
type Ellipse struct {
	Center blitz2d.Point
	Rx, Ry float64
}

// AppendTo implements Shape using four cubic Bezier quadrants.
func (s Ellipse) AppendTo(dst *Path) {
	cx, cy := s.Center.X, s.Center.Y
	ox := s.Rx * kappa
	oy := s.Ry * kappa
	dst.MoveTo(cx+s.Rx, cy)
	dst.CubicTo(cx+s.Rx, cy+oy, cx+ox, cy+s.Ry, cx, cy+s.Ry)
	dst.CubicTo(cx-ox, cy+s.Ry, cx-s.Rx, cy+oy, cx-s.Rx, cy)
	dst.CubicTo(cx-s.Rx, cy-oy, cx-ox, cy-s.Ry, cx, cy-s.Ry)
	dst.CubicTo(cx+ox, cy-s.Ry, cx+s.Rx, cy-oy, cx+s.Rx, cy)
	dst.Close()
}

// Bounds implements Shape.
func (s Ellipse) Bounds() blitz2d.Rect {
	return blitz2d.Rect{
		X0: s.Center.X - s.Rx, Y0: s.Center.Y - s.Ry,
		X1: s.Center.X + s.Rx, Y1: s.Center.Y + s.Ry,
	}
}
