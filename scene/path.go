package scene

import (
	"github.com/nerocui/blitz2d"
)

// Verb identifies one path segment operation.
type Verb uint8

const (
	// VerbMoveTo starts a new figure at the target point.
	VerbMoveTo Verb = iota
	// VerbLineTo appends a line to the target point.
	VerbLineTo
	// VerbQuadTo appends a quadratic Bezier curve (control, target).
	VerbQuadTo
	// VerbCubicTo appends a cubic Bezier curve (two controls, target).
	VerbCubicTo
	// VerbClose closes the current figure.
	VerbClose
)

// pointsPerVerb maps each verb to the number of points it consumes.
var pointsPerVerb = [...]int{
	VerbMoveTo:  1,
	VerbLineTo:  1,
	VerbQuadTo:  2,
	VerbCubicTo: 3,
	VerbClose:   0,
}

// Path is a flat sequence of path segments: a verb stream plus the
// points each verb consumes. It is the shape representation carried by
// recorded commands and consumed once by the geometry builder during
// playback.
type Path struct {
	Verbs  []Verb
	Points []blitz2d.Point
}

// MoveTo starts a new figure at (x, y).
func (p *Path) MoveTo(x, y float64) {
	p.Verbs = append(p.Verbs, VerbMoveTo)
	p.Points = append(p.Points, blitz2d.Pt(x, y))
}

// LineTo appends a line to (x, y).
func (p *Path) LineTo(x, y float64) {
	p.Verbs = append(p.Verbs, VerbLineTo)
	p.Points = append(p.Points, blitz2d.Pt(x, y))
}

// QuadTo appends a quadratic Bezier curve with control (cx, cy)
// ending at (x, y).
func (p *Path) QuadTo(cx, cy, x, y float64) {
	p.Verbs = append(p.Verbs, VerbQuadTo)
	p.Points = append(p.Points, blitz2d.Pt(cx, cy), blitz2d.Pt(x, y))
}

// CubicTo appends a cubic Bezier curve with controls (c1x, c1y) and
// (c2x, c2y) ending at (x, y).
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	p.Verbs = append(p.Verbs, VerbCubicTo)
	p.Points = append(p.Points, blitz2d.Pt(c1x, c1y), blitz2d.Pt(c2x, c2y), blitz2d.Pt(x, y))
}

// Close closes the current figure.
func (p *Path) Close() {
	p.Verbs = append(p.Verbs, VerbClose)
}

// IsEmpty reports whether the path has no segments.
func (p *Path) IsEmpty() bool {
	return len(p.Verbs) == 0
}

// Translate shifts every point of the path by (dx, dy) in place.
// The recorder uses this to bake the translation component of a
// transform directly into recorded coordinates.
func (p *Path) Translate(dx, dy float64) {
	for i := range p.Points {
		p.Points[i].X += dx
		p.Points[i].Y += dy
	}
}

// Clone returns a deep copy of the path.
func (p *Path) Clone() *Path {
	out := &Path{
		Verbs:  make([]Verb, len(p.Verbs)),
		Points: make([]blitz2d.Point, len(p.Points)),
	}
	copy(out.Verbs, p.Verbs)
	copy(out.Points, p.Points)
	return out
}

// PathWalker receives the segments of a path in order.
// It is implemented by the geometry builder in the render package.
type PathWalker interface {
	MoveTo(p blitz2d.Point)
	LineTo(p blitz2d.Point)
	QuadTo(c, p blitz2d.Point)
	CubicTo(c1, c2, p blitz2d.Point)
	Close()
}

// Walk feeds the path's segments to w in order. Verbs with a malformed
// point count terminate the walk early rather than panic.
func (p *Path) Walk(w PathWalker) {
	i := 0
	for _, v := range p.Verbs {
		n := pointsPerVerb[v]
		if i+n > len(p.Points) {
			return
		}
		pts := p.Points[i : i+n]
		i += n
		switch v {
		case VerbMoveTo:
			w.MoveTo(pts[0])
		case VerbLineTo:
			w.LineTo(pts[0])
		case VerbQuadTo:
			w.QuadTo(pts[0], pts[1])
		case VerbCubicTo:
			w.CubicTo(pts[0], pts[1], pts[2])
		case VerbClose:
			w.Close()
		}
	}
}

// AppendTo implements Shape by appending a copy of the path's segments.
func (p *Path) AppendTo(dst *Path) {
	dst.Verbs = append(dst.Verbs, p.Verbs...)
	dst.Points = append(dst.Points, p.Points...)
}

// Bounds implements Shape. It returns the bounding box of the path's
// control polygon, which contains the curve itself.
func (p *Path) Bounds() blitz2d.Rect {
	if len(p.Points) == 0 {
		return blitz2d.Rect{}
	}
	r := blitz2d.Rect{
		X0: p.Points[0].X, Y0: p.Points[0].Y,
		X1: p.Points[0].X, Y1: p.Points[0].Y,
	}
	for _, pt := range p.Points[1:] {
		if pt.X < r.X0 {
			r.X0 = pt.X
		}
		if pt.Y < r.Y0 {
			r.Y0 = pt.Y
		}
		if pt.X > r.X1 {
			r.X1 = pt.X
		}
		if pt.Y > r.Y1 {
			r.Y1 = pt.Y
		}
	}
	return r
}
