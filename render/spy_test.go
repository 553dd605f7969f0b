package render

import (
	"errors"
	"fmt"

	"github.com/go-text/typesetting/font"

	"github.com/nerocui/blitz2d"
	"github.com/nerocui/blitz2d/scene"
)

// fakeSurface is a Surface with a mutable size.
type fakeSurface struct {
	w, h int
}

func (s *fakeSurface) Size() (int, int) { return s.w, s.h }

// spyDevice records every device call for assertions. Creation
// failures are injectable per resource kind.
type spyDevice struct {
	ops []string

	targetSizes map[TargetID][2]int
	nextID      uint32

	// failTargetAttempts makes the first n CreateTarget calls fail.
	failTargetAttempts int
	failSolid          bool
	failGradient       bool
	failOffscreen      bool
	failSnapshot       bool
	endDrawErr         error
	blurErr            error

	solidCreates    int
	gradientCreates int
	imageCreates    int
	releasedBrushes []BrushID
	releasedBitmaps []BitmapID

	clipDepth    int
	maxClipDepth int
	drawDepth    int
}

func newSpyDevice() *spyDevice {
	return &spyDevice{targetSizes: make(map[TargetID][2]int)}
}

func (d *spyDevice) record(format string, args ...any) {
	d.ops = append(d.ops, fmt.Sprintf(format, args...))
}

func (d *spyDevice) id() uint32 {
	d.nextID++
	return d.nextID
}

func (d *spyDevice) DPI() (x, y float64) { return 120, 120 }

func (d *spyDevice) CreateTarget(surface Surface, props TargetProps) (TargetID, error) {
	if d.failTargetAttempts > 0 {
		d.failTargetAttempts--
		return 0, errors.New("spy: target creation refused")
	}
	w, h := surface.Size()
	id := TargetID(d.id())
	d.targetSizes[id] = [2]int{w, h}
	d.record("CreateTarget %dx%d dpi=%g", w, h, props.DPIX)
	return id, nil
}

func (d *spyDevice) CreateOffscreen(width, height int) (TargetID, error) {
	if d.failOffscreen {
		return 0, errors.New("spy: offscreen refused")
	}
	id := TargetID(d.id())
	d.targetSizes[id] = [2]int{width, height}
	d.record("CreateOffscreen %dx%d", width, height)
	return id, nil
}

func (d *spyDevice) TargetSize(t TargetID) (int, int) {
	s := d.targetSizes[t]
	return s[0], s[1]
}

func (d *spyDevice) DestroyTarget(t TargetID) {
	delete(d.targetSizes, t)
	d.record("DestroyTarget")
}

func (d *spyDevice) CreateSolidBrush(c blitz2d.RGBA) (BrushID, error) {
	if d.failSolid {
		return 0, errors.New("spy: solid brush refused")
	}
	d.solidCreates++
	return BrushID(d.id()), nil
}

func (d *spyDevice) CreateGradientBrush(g scene.GradientBrush) (BrushID, error) {
	if d.failGradient {
		return 0, errors.New("spy: gradient brush refused")
	}
	d.gradientCreates++
	d.record("CreateGradientBrush kind=%d", g.Kind)
	return BrushID(d.id()), nil
}

func (d *spyDevice) CreateImageBrush(img scene.ImageBrush) (BrushID, error) {
	d.imageCreates++
	return BrushID(d.id()), nil
}

func (d *spyDevice) ReleaseBrush(b BrushID) {
	d.releasedBrushes = append(d.releasedBrushes, b)
}

func (d *spyDevice) NewPathSink() PathSink {
	return &spySink{device: d}
}

func (d *spyDevice) ReleasePath(p PathID) {}

func (d *spyDevice) SnapshotTarget(t TargetID) (BitmapID, error) {
	if d.failSnapshot {
		return 0, errors.New("spy: snapshot refused")
	}
	d.record("SnapshotTarget")
	return BitmapID(d.id()), nil
}

func (d *spyDevice) ReleaseBitmap(bm BitmapID) {
	d.releasedBitmaps = append(d.releasedBitmaps, bm)
}

func (d *spyDevice) BlurTarget(t TargetID, stdDev float64) error {
	if d.blurErr != nil {
		return d.blurErr
	}
	d.record("BlurTarget stddev=%g", stdDev)
	return nil
}

func (d *spyDevice) BeginDraw(t TargetID) {
	d.drawDepth++
	d.record("BeginDraw")
}

func (d *spyDevice) EndDraw() error {
	d.drawDepth--
	d.record("EndDraw")
	return d.endDrawErr
}

func (d *spyDevice) Clear(c blitz2d.RGBA) {
	d.record("Clear")
}

func (d *spyDevice) PushClip(r blitz2d.Rect) {
	d.clipDepth++
	if d.clipDepth > d.maxClipDepth {
		d.maxClipDepth = d.clipDepth
	}
	d.record("PushClip")
}

func (d *spyDevice) PopClip() {
	d.clipDepth--
	d.record("PopClip")
}

func (d *spyDevice) FillPath(p PathID, b BrushID) {
	d.record("FillPath")
}

func (d *spyDevice) StrokePath(p PathID, b BrushID, width float64) {
	d.record("StrokePath width=%g", width)
}

func (d *spyDevice) DrawGlyphRun(face *font.Face, glyphs []scene.GlyphID, advances []float64,
	origin blitz2d.Point, size float64, b BrushID, alpha float64) {
	d.record("DrawGlyphRun n=%d", len(glyphs))
}

func (d *spyDevice) DrawTarget(src TargetID, dst blitz2d.Rect, alpha float64) {
	d.record("DrawTarget (%g,%g)-(%g,%g)", dst.X0, dst.Y0, dst.X1, dst.Y1)
}

func (d *spyDevice) DrawBitmap(bm BitmapID, dst blitz2d.Rect) {
	d.record("DrawBitmap (%g,%g)-(%g,%g)", dst.X0, dst.Y0, dst.X1, dst.Y1)
}

// spySink records figure bracketing for geometry tests.
type spySink struct {
	device *spyDevice
	ops    []string
	fail   bool
}

func (s *spySink) SetFillMode(mode FillMode) {
	s.ops = append(s.ops, fmt.Sprintf("fillmode %d", mode))
}

func (s *spySink) BeginFigure(start blitz2d.Point) {
	s.ops = append(s.ops, fmt.Sprintf("begin (%g,%g)", start.X, start.Y))
}

func (s *spySink) LineTo(p blitz2d.Point) {
	s.ops = append(s.ops, fmt.Sprintf("line (%g,%g)", p.X, p.Y))
}

func (s *spySink) QuadTo(c, p blitz2d.Point) {
	s.ops = append(s.ops, "quad")
}

func (s *spySink) CubicTo(c1, c2, p blitz2d.Point) {
	s.ops = append(s.ops, "cubic")
}

func (s *spySink) EndFigure(end FigureEnd) {
	if end == FigureClosed {
		s.ops = append(s.ops, "end closed")
	} else {
		s.ops = append(s.ops, "end open")
	}
}

func (s *spySink) Finish() (PathID, error) {
	if s.fail {
		return 0, errors.New("spy: sink refused")
	}
	s.ops = append(s.ops, "finish")
	if s.device != nil {
		return PathID(s.device.id()), nil
	}
	return 1, nil
}

// count returns how many recorded ops have the given prefix.
func (d *spyDevice) count(prefix string) int {
	n := 0
	for _, op := range d.ops {
		if len(op) >= len(prefix) && op[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}
