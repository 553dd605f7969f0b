package render

import (
	"errors"
	"log/slog"
	"math"

	"github.com/nerocui/blitz2d"
	"github.com/nerocui/blitz2d/scene"
)

// Shadow blur clamps. Outset shadows allow a much wider blur than
// inset ones, whose ring geometry degenerates at large deviations.
const (
	minShadowStdDev      = 0.5
	maxOutsetStdDev      = 200
	maxInsetStdDev       = 64
	maxShadowOffscreenPx = 16384
)

// shadowRenderer rasterizes box shadows through temporary offscreen
// targets, consulting the shadow bitmap cache for outset shadows.
// Inset shadows are never cached: they are clipped to the element
// rect at composite time, so a cached raster would not be reusable
// across elements anyway.
type shadowRenderer struct {
	resources *Resources
	log       *slog.Logger
}

// draw renders one recorded shadow command onto the current target.
// Failures degrade per shadow: an oversized offscreen aborts silently,
// an unavailable blur composites the sharp raster, and device errors
// skip just this shadow.
func (s *shadowRenderer) draw(device GraphicsDevice, cmd scene.BoxShadowCommand) {
	if cmd.Rect.IsEmpty() {
		return
	}
	if cmd.Inset {
		s.drawInset(device, cmd)
		return
	}
	s.drawOutset(device, cmd)
}

func (s *shadowRenderer) drawOutset(device GraphicsDevice, cmd scene.BoxShadowCommand) {
	stdDev := clampFloat(cmd.StdDev, minShadowStdDev, maxOutsetStdDev)
	w := cmd.Rect.Width()
	h := cmd.Rect.Height()
	pad := math.Ceil(stdDev * 2.5)

	dst := blitz2d.Rect{
		X0: cmd.Rect.X0 - pad,
		Y0: cmd.Rect.Y0 - pad,
		X1: cmd.Rect.X1 + pad,
		Y1: cmd.Rect.Y1 + pad,
	}

	key := makeShadowKey(w, h, cmd.Radius, stdDev, cmd.Color)
	if bm, ok := s.resources.lookupShadow(key); ok {
		device.DrawBitmap(bm, dst)
		return
	}

	ow := int(math.Ceil(w + 2*pad))
	oh := int(math.Ceil(h + 2*pad))
	if ow > maxShadowOffscreenPx || oh > maxShadowOffscreenPx {
		return
	}

	offscreen, err := device.CreateOffscreen(ow, oh)
	if err != nil {
		s.log.Warn("render: shadow offscreen allocation failed", slog.Any("err", err))
		return
	}
	defer device.DestroyTarget(offscreen)

	shape := scene.RoundedRect{
		Rect:   blitz2d.NewRect(pad, pad, w, h),
		Radius: clampFloat(cmd.Radius, 0, math.Min(w, h)/2),
	}

	device.BeginDraw(offscreen)
	device.Clear(blitz2d.Transparent)
	if !s.fillShape(device, shape, cmd.Color) {
		_ = device.EndDraw()
		return
	}
	if err := device.EndDraw(); err != nil {
		s.log.Warn("render: shadow raster draw failed", slog.Any("err", err))
		return
	}

	if err := device.BlurTarget(offscreen, stdDev); err != nil && !errors.Is(err, ErrBlurUnavailable) {
		s.log.Warn("render: shadow blur failed", slog.Any("err", err))
		return
	}

	device.DrawTarget(offscreen, dst, 1)

	bm, err := device.SnapshotTarget(offscreen)
	if err != nil {
		s.log.Debug("render: shadow snapshot failed, not cached", slog.Any("err", err))
		return
	}
	s.resources.insertShadow(device, key, bm)
}

func (s *shadowRenderer) drawInset(device GraphicsDevice, cmd scene.BoxShadowCommand) {
	stdDev := clampFloat(cmd.StdDev, minShadowStdDev, maxInsetStdDev)
	w := cmd.Rect.Width()
	h := cmd.Rect.Height()

	thickness := math.Max(1.5, stdDev*0.4)
	if half := math.Min(w, h) / 2; thickness > half {
		thickness = half
	}
	pad := math.Ceil(stdDev * 1.5)

	ow := int(math.Ceil(w + 2*pad))
	oh := int(math.Ceil(h + 2*pad))
	if ow > maxShadowOffscreenPx || oh > maxShadowOffscreenPx {
		return
	}

	offscreen, err := device.CreateOffscreen(ow, oh)
	if err != nil {
		s.log.Warn("render: inset shadow offscreen allocation failed", slog.Any("err", err))
		return
	}
	defer device.DestroyTarget(offscreen)

	radius := clampFloat(cmd.Radius, 0, math.Min(w, h)/2)

	// Even-odd ring: the outer contour extends past the element edge
	// by the padding so the boundary stays saturated after blurring;
	// the composite clip trims the overhang.
	outer := scene.RoundedRect{
		Rect:   blitz2d.Rect{X0: 0, Y0: 0, X1: w + 2*pad, Y1: h + 2*pad},
		Radius: radius,
	}
	inner := scene.RoundedRect{
		Rect: blitz2d.Rect{
			X0: pad + thickness,
			Y0: pad + thickness,
			X1: pad + w - thickness,
			Y1: pad + h - thickness,
		},
		Radius: math.Max(0, radius-thickness),
	}

	ring := &scene.Path{}
	outer.AppendTo(ring)
	inner.AppendTo(ring)

	color := cmd.Color.WithAlpha(cmd.Color.A * 0.9)

	device.BeginDraw(offscreen)
	device.Clear(blitz2d.Transparent)
	if !s.fillRing(device, ring, color) {
		_ = device.EndDraw()
		return
	}
	if err := device.EndDraw(); err != nil {
		s.log.Warn("render: inset shadow raster draw failed", slog.Any("err", err))
		return
	}

	if err := device.BlurTarget(offscreen, stdDev); err != nil && !errors.Is(err, ErrBlurUnavailable) {
		s.log.Warn("render: inset shadow blur failed", slog.Any("err", err))
		return
	}

	dst := blitz2d.Rect{
		X0: cmd.Rect.X0 - pad,
		Y0: cmd.Rect.Y0 - pad,
		X1: cmd.Rect.X1 + pad,
		Y1: cmd.Rect.Y1 + pad,
	}
	device.PushClip(cmd.Rect)
	device.DrawTarget(offscreen, dst, 1)
	device.PopClip()
}

// fillShape builds and fills a winding-rule geometry for shape.
func (s *shadowRenderer) fillShape(device GraphicsDevice, shape scene.Shape, color blitz2d.RGBA) bool {
	p := &scene.Path{}
	shape.AppendTo(p)
	return s.fillPath(device, p, color, FillWinding)
}

// fillRing fills the two-contour ring path with the even-odd rule so
// the inner contour punches a hole through the outer one.
func (s *shadowRenderer) fillRing(device GraphicsDevice, ring *scene.Path, color blitz2d.RGBA) bool {
	return s.fillPath(device, ring, color, FillAlternate)
}

func (s *shadowRenderer) fillPath(device GraphicsDevice, p *scene.Path, color blitz2d.RGBA, mode FillMode) bool {
	sink := device.NewPathSink()
	sink.SetFillMode(mode)
	w := &sinkWalker{sink: sink}
	p.Walk(w)
	w.flush(FigureOpen)
	id, err := sink.Finish()
	if err != nil {
		logPathError(s.log, "shadow", err)
		return false
	}
	defer device.ReleasePath(id)

	brush, err := device.CreateSolidBrush(color)
	if err != nil {
		s.log.Warn("render: shadow brush creation failed", slog.Any("err", err))
		return false
	}
	defer device.ReleaseBrush(brush)

	device.FillPath(id, brush)
	return true
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
