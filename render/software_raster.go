package render

import (
	"errors"
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/font/opentype"
	"golang.org/x/image/vector"

	"github.com/nerocui/blitz2d"
	"github.com/nerocui/blitz2d/scene"
)

// flattenSteps is the fixed subdivision used when a curve must be
// reduced to a polyline (stroking only; fills rasterize curves
// directly).
const flattenSteps = 16

type segOp uint8

const (
	segLine segOp = iota
	segQuad
	segCube
)

type softSeg struct {
	op segOp
	p  [3]blitz2d.Point
}

// softFigure is one contour of a device path geometry.
type softFigure struct {
	start  blitz2d.Point
	segs   []softSeg
	closed bool
}

// softPath is a finalized software geometry.
type softPath struct {
	figures  []softFigure
	fillMode FillMode
}

// softPathSink accumulates figures for one softPath.
type softPathSink struct {
	device *SoftwareDevice
	path   softPath
	cur    *softFigure
	done   bool
}

func (s *softPathSink) SetFillMode(mode FillMode) {
	s.path.fillMode = mode
}

func (s *softPathSink) BeginFigure(start blitz2d.Point) {
	s.path.figures = append(s.path.figures, softFigure{start: start})
	s.cur = &s.path.figures[len(s.path.figures)-1]
}

func (s *softPathSink) LineTo(p blitz2d.Point) {
	if s.cur == nil {
		return
	}
	s.cur.segs = append(s.cur.segs, softSeg{op: segLine, p: [3]blitz2d.Point{p}})
}

func (s *softPathSink) QuadTo(c, p blitz2d.Point) {
	if s.cur == nil {
		return
	}
	s.cur.segs = append(s.cur.segs, softSeg{op: segQuad, p: [3]blitz2d.Point{c, p}})
}

func (s *softPathSink) CubicTo(c1, c2, p blitz2d.Point) {
	if s.cur == nil {
		return
	}
	s.cur.segs = append(s.cur.segs, softSeg{op: segCube, p: [3]blitz2d.Point{c1, c2, p}})
}

func (s *softPathSink) EndFigure(end FigureEnd) {
	if s.cur != nil {
		s.cur.closed = end == FigureClosed
	}
	s.cur = nil
}

func (s *softPathSink) Finish() (PathID, error) {
	if s.done {
		return 0, errSinkFinished
	}
	s.done = true
	d := s.device
	d.nextPath++
	path := s.path
	d.paths[d.nextPath] = &path
	return d.nextPath, nil
}

var errSinkFinished = errors.New("render: path sink already finished")

// fillFigures rasterizes figures with the given fill rule and
// composites brush through the coverage mask. The winding rule feeds
// all figures to one rasterizer; the even-odd rule rasterizes each
// figure separately and combines coverages by exclusion, which is
// exact for the nested-ring case device paths use it for.
func (d *SoftwareDevice) fillFigures(figures []softFigure, mode FillMode, brush softBrush, alpha float64) {
	region := d.region()
	if region.Empty() || len(figures) == 0 || alpha <= 0 {
		return
	}

	var mask *image.Alpha
	if mode == FillAlternate {
		for _, f := range figures {
			fm := rasterizeFigures([]softFigure{f}, region)
			if mask == nil {
				mask = fm
				continue
			}
			for i := range mask.Pix {
				a, b := int(mask.Pix[i]), int(fm.Pix[i])
				diff := a - b
				if diff < 0 {
					diff = -diff
				}
				mask.Pix[i] = uint8(diff)
			}
		}
	} else {
		mask = rasterizeFigures(figures, region)
	}
	if mask == nil {
		return
	}
	d.maskComposite(region, brush, mask, alpha)
}

// rasterizeFigures renders figures into an alpha coverage mask the
// size of region, with coordinates shifted so region.Min is the mask
// origin.
func rasterizeFigures(figures []softFigure, region image.Rectangle) *image.Alpha {
	z := vector.NewRasterizer(region.Dx(), region.Dy())
	ox := float64(region.Min.X)
	oy := float64(region.Min.Y)

	for _, f := range figures {
		z.MoveTo(float32(f.start.X-ox), float32(f.start.Y-oy))
		for _, s := range f.segs {
			switch s.op {
			case segLine:
				z.LineTo(float32(s.p[0].X-ox), float32(s.p[0].Y-oy))
			case segQuad:
				z.QuadTo(
					float32(s.p[0].X-ox), float32(s.p[0].Y-oy),
					float32(s.p[1].X-ox), float32(s.p[1].Y-oy))
			case segCube:
				z.CubeTo(
					float32(s.p[0].X-ox), float32(s.p[0].Y-oy),
					float32(s.p[1].X-ox), float32(s.p[1].Y-oy),
					float32(s.p[2].X-ox), float32(s.p[2].Y-oy))
			}
		}
		// The rasterizer closes open contours implicitly, which is
		// also the fill behavior open figures get.
		z.ClosePath()
	}

	mask := image.NewAlpha(image.Rect(0, 0, region.Dx(), region.Dy()))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

// maskComposite source-over blends brush through mask into the
// current target over region.
func (d *SoftwareDevice) maskComposite(region image.Rectangle, brush softBrush, mask *image.Alpha, alpha float64) {
	dst := d.current()
	if dst == nil {
		return
	}
	if alpha > 1 {
		alpha = 1
	}
	for y := region.Min.Y; y < region.Max.Y; y++ {
		for x := region.Min.X; x < region.Max.X; x++ {
			cov := mask.Pix[mask.PixOffset(x-region.Min.X, y-region.Min.Y)]
			if cov == 0 {
				continue
			}
			c := brush.at(x, y)
			// Effective source alpha: color alpha x coverage x run alpha.
			ea := uint32(c.A) * uint32(cov) / 255
			ea = uint32(float64(ea) * alpha)
			if ea == 0 {
				continue
			}
			i := dst.PixOffset(x, y)
			sr := uint32(c.R) * ea / 255
			sg := uint32(c.G) * ea / 255
			sb := uint32(c.B) * ea / 255
			inv := 255 - ea
			dst.Pix[i+0] = uint8(sr + uint32(dst.Pix[i+0])*inv/255)
			dst.Pix[i+1] = uint8(sg + uint32(dst.Pix[i+1])*inv/255)
			dst.Pix[i+2] = uint8(sb + uint32(dst.Pix[i+2])*inv/255)
			dst.Pix[i+3] = uint8(ea + uint32(dst.Pix[i+3])*inv/255)
		}
	}
}

// strokeFigures expands figures into filled quads along each
// flattened polyline segment.
func strokeFigures(figures []softFigure, width float64) []softFigure {
	half := width / 2
	var out []softFigure
	for _, f := range figures {
		pts := flattenFigure(f)
		for i := 0; i+1 < len(pts); i++ {
			a, b := pts[i], pts[i+1]
			dx := b.X - a.X
			dy := b.Y - a.Y
			length := math.Hypot(dx, dy)
			if length == 0 {
				continue
			}
			// Unit normal scaled to half the stroke width.
			nx := -dy / length * half
			ny := dx / length * half
			out = append(out, softFigure{
				start: blitz2d.Pt(a.X+nx, a.Y+ny),
				segs: []softSeg{
					{op: segLine, p: [3]blitz2d.Point{blitz2d.Pt(b.X+nx, b.Y+ny)}},
					{op: segLine, p: [3]blitz2d.Point{blitz2d.Pt(b.X-nx, b.Y-ny)}},
					{op: segLine, p: [3]blitz2d.Point{blitz2d.Pt(a.X-nx, a.Y-ny)}},
				},
				closed: true,
			})
		}
	}
	return out
}

// flattenFigure reduces a figure to a polyline, closing it if the
// figure is closed.
func flattenFigure(f softFigure) []blitz2d.Point {
	pts := []blitz2d.Point{f.start}
	cur := f.start
	for _, s := range f.segs {
		switch s.op {
		case segLine:
			pts = append(pts, s.p[0])
			cur = s.p[0]
		case segQuad:
			for i := 1; i <= flattenSteps; i++ {
				t := float64(i) / flattenSteps
				pts = append(pts, quadPoint(cur, s.p[0], s.p[1], t))
			}
			cur = s.p[1]
		case segCube:
			for i := 1; i <= flattenSteps; i++ {
				t := float64(i) / flattenSteps
				pts = append(pts, cubePoint(cur, s.p[0], s.p[1], s.p[2], t))
			}
			cur = s.p[2]
		}
	}
	if f.closed && len(pts) > 1 {
		pts = append(pts, f.start)
	}
	return pts
}

func quadPoint(p0, c, p1 blitz2d.Point, t float64) blitz2d.Point {
	u := 1 - t
	return blitz2d.Pt(
		u*u*p0.X+2*u*t*c.X+t*t*p1.X,
		u*u*p0.Y+2*u*t*c.Y+t*t*p1.Y)
}

func cubePoint(p0, c1, c2, p1 blitz2d.Point, t float64) blitz2d.Point {
	u := 1 - t
	return blitz2d.Pt(
		u*u*u*p0.X+3*u*u*t*c1.X+3*u*t*t*c2.X+t*t*t*p1.X,
		u*u*u*p0.Y+3*u*u*t*c1.Y+3*u*t*t*c2.Y+t*t*t*p1.Y)
}

// glyphFigures extracts a glyph's outline contours scaled to pixel
// space with the baseline at pen. Glyph outlines use a Y-up axis;
// pixel space is Y-down.
func glyphFigures(face *font.Face, g scene.GlyphID, scale float64, pen blitz2d.Point) []softFigure {
	data := face.GlyphData(font.GID(g))
	outline, ok := data.(font.GlyphOutline)
	if !ok {
		return nil
	}

	mapPt := func(p font.SegmentPoint) blitz2d.Point {
		return blitz2d.Pt(pen.X+float64(p.X)*scale, pen.Y-float64(p.Y)*scale)
	}

	var figures []softFigure
	var cur *softFigure
	for _, seg := range outline.Segments {
		switch seg.Op {
		case opentype.SegmentOpMoveTo:
			figures = append(figures, softFigure{start: mapPt(seg.Args[0]), closed: true})
			cur = &figures[len(figures)-1]
		case opentype.SegmentOpLineTo:
			if cur == nil {
				continue
			}
			cur.segs = append(cur.segs, softSeg{op: segLine,
				p: [3]blitz2d.Point{mapPt(seg.Args[0])}})
		case opentype.SegmentOpQuadTo:
			if cur == nil {
				continue
			}
			cur.segs = append(cur.segs, softSeg{op: segQuad,
				p: [3]blitz2d.Point{mapPt(seg.Args[0]), mapPt(seg.Args[1])}})
		case opentype.SegmentOpCubeTo:
			if cur == nil {
				continue
			}
			cur.segs = append(cur.segs, softSeg{op: segCube,
				p: [3]blitz2d.Point{mapPt(seg.Args[0]), mapPt(seg.Args[1]), mapPt(seg.Args[2])}})
		}
	}
	return figures
}

// softBrush resolves the paint color at a pixel.
type softBrush interface {
	at(x, y int) color.NRGBA
}

type solidSoftBrush struct {
	c color.NRGBA
}

func (s *solidSoftBrush) at(int, int) color.NRGBA { return s.c }

type gradientStop struct {
	offset float64
	c      blitz2d.RGBA
}

type gradientSoftBrush struct {
	kind   scene.GradientKind
	start  blitz2d.Point
	end    blitz2d.Point
	center blitz2d.Point
	radius float64
	stops  []gradientStop
}

func newGradientSoftBrush(g scene.GradientBrush) *gradientSoftBrush {
	stops := make([]gradientStop, len(g.Stops))
	for i, s := range g.Stops {
		stops[i] = gradientStop{offset: s.Offset, c: s.Color}
	}
	sort.Slice(stops, func(i, j int) bool { return stops[i].offset < stops[j].offset })
	return &gradientSoftBrush{
		kind:   g.Kind,
		start:  g.Start,
		end:    g.End,
		center: g.Center,
		radius: g.Radius,
		stops:  stops,
	}
}

func (g *gradientSoftBrush) at(x, y int) color.NRGBA {
	px := float64(x) + 0.5
	py := float64(y) + 0.5

	var t float64
	switch g.kind {
	case scene.GradientRadial:
		if g.radius > 0 {
			t = math.Hypot(px-g.center.X, py-g.center.Y) / g.radius
		}
	default:
		dx := g.end.X - g.start.X
		dy := g.end.Y - g.start.Y
		d2 := dx*dx + dy*dy
		if d2 > 0 {
			t = ((px-g.start.X)*dx + (py-g.start.Y)*dy) / d2
		}
	}
	return toNRGBA(g.colorAt(t))
}

func (g *gradientSoftBrush) colorAt(t float64) blitz2d.RGBA {
	stops := g.stops
	if len(stops) == 0 {
		return blitz2d.Transparent
	}
	if t <= stops[0].offset {
		return stops[0].c
	}
	last := stops[len(stops)-1]
	if t >= last.offset {
		return last.c
	}
	for i := 1; i < len(stops); i++ {
		if t <= stops[i].offset {
			lo, hi := stops[i-1], stops[i]
			span := hi.offset - lo.offset
			if span <= 0 {
				return hi.c
			}
			f := (t - lo.offset) / span
			return blitz2d.RGBA{
				R: lo.c.R + (hi.c.R-lo.c.R)*f,
				G: lo.c.G + (hi.c.G-lo.c.G)*f,
				B: lo.c.B + (hi.c.B-lo.c.B)*f,
				A: lo.c.A + (hi.c.A-lo.c.A)*f,
			}
		}
	}
	return last.c
}

type imageSoftBrush struct {
	img *image.RGBA
}

func (b *imageSoftBrush) at(x, y int) color.NRGBA {
	bounds := b.img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return color.NRGBA{}
	}
	// Tile the source image across the plane.
	tx := ((x % w) + w) % w
	ty := ((y % h) + h) % h
	i := b.img.PixOffset(bounds.Min.X+tx, bounds.Min.Y+ty)
	r, g, bl, a := b.img.Pix[i], b.img.Pix[i+1], b.img.Pix[i+2], b.img.Pix[i+3]
	// Un-premultiply for compositing through the coverage mask.
	if a == 0 {
		return color.NRGBA{}
	}
	return color.NRGBA{
		R: uint8(uint32(r) * 255 / uint32(a)),
		G: uint8(uint32(g) * 255 / uint32(a)),
		B: uint8(uint32(bl) * 255 / uint32(a)),
		A: a,
	}
}
