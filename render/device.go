package render

import (
	"github.com/go-text/typesetting/font"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/nerocui/blitz2d"
	"github.com/nerocui/blitz2d/scene"
)

// DeviceHandle provides GPU device access from the host application.
//
// The host (the window/compositor glue) implements the provider and
// passes it to [Renderer.Attach]. The renderer RECEIVES the device
// from the host, it does not create one; this keeps GPU resources
// shared between the renderer and the rest of the application.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider, providing a
// renderer-specific name while staying compatible with the gpucontext
// ecosystem.
type DeviceHandle = gpucontext.DeviceProvider

// Surface is an externally owned, swapchain-like drawing surface.
// The host retains ownership; the renderer only binds target bitmaps
// to it and must be told (via InvalidateTarget) before the host
// resizes the underlying buffers.
type Surface interface {
	// Size returns the surface dimensions in pixels.
	Size() (width, height int)
}

// Arena-style resource ids. The device owns a table per resource kind;
// ids index into it. The zero value is always invalid.
type (
	// TargetID identifies a drawable target bitmap.
	TargetID uint32
	// BrushID identifies a solid, gradient or image brush.
	BrushID uint32
	// PathID identifies a finalized path geometry.
	PathID uint32
	// BitmapID identifies an immutable bitmap (shadow cache entries).
	BitmapID uint32
)

// IsValid reports whether the id refers to a resource.
func (t TargetID) IsValid() bool { return t != 0 }

// IsValid reports whether the id refers to a resource.
func (b BrushID) IsValid() bool { return b != 0 }

// IsValid reports whether the id refers to a resource.
func (p PathID) IsValid() bool { return p != 0 }

// IsValid reports whether the id refers to a resource.
func (b BitmapID) IsValid() bool { return b != 0 }

// TargetProps describes how a target bitmap is created. The manager
// retries creation with progressively more permissive property sets
// to tolerate platform quirks; see Targets.EnsureTarget.
type TargetProps struct {
	// DPIX, DPIY set the target DPI. Zero means inherit from the
	// device context.
	DPIX, DPIY float64

	// Format is the pixel format. The zero value lets the device pick
	// the surface's native format.
	Format gputypes.TextureFormat
}

// FigureEnd tells a path sink how to end the current figure.
type FigureEnd uint8

const (
	// FigureOpen ends the figure without a closing segment.
	FigureOpen FigureEnd = iota
	// FigureClosed ends the figure with an implicit closing segment.
	FigureClosed
)

// FillMode selects the fill rule a path geometry is rasterized with.
type FillMode uint8

const (
	// FillWinding uses the non-zero winding rule.
	FillWinding FillMode = iota
	// FillAlternate uses the even-odd rule.
	FillAlternate
)

// PathSink receives figures for one path geometry under construction.
// Obtain a sink from GraphicsDevice.NewPathSink, feed it segments, and
// call Finish exactly once. A sink is single-use.
type PathSink interface {
	// SetFillMode sets the geometry's fill rule. Must be called before
	// the first figure; the default is FillWinding.
	SetFillMode(mode FillMode)

	// BeginFigure starts a new filled figure at start.
	BeginFigure(start blitz2d.Point)

	// LineTo appends a line segment.
	LineTo(p blitz2d.Point)

	// QuadTo appends a quadratic Bezier segment.
	QuadTo(c, p blitz2d.Point)

	// CubicTo appends a cubic Bezier segment.
	CubicTo(c1, c2, p blitz2d.Point)

	// EndFigure ends the current figure, open or closed.
	EndFigure(end FigureEnd)

	// Finish finalizes the geometry and returns its id.
	Finish() (PathID, error)
}

// GraphicsDevice is the platform drawing interface the playback engine
// runs against. Implementations wrap a real GPU 2D context or, for
// tests and non-GPU hosts, a CPU rasterizer ([SoftwareDevice]).
//
// Draw calls are only valid between BeginDraw and EndDraw. BeginDraw
// may nest: drawing to an offscreen target inside a frame pushes the
// offscreen target, and the matching EndDraw pops back to the outer
// target. All methods must be called from the renderer's single
// goroutine.
type GraphicsDevice interface {
	// DPI returns the device context's current DPI.
	DPI() (x, y float64)

	// CreateTarget creates the target bitmap bound to surface.
	CreateTarget(surface Surface, props TargetProps) (TargetID, error)

	// CreateOffscreen creates a transient offscreen target.
	CreateOffscreen(width, height int) (TargetID, error)

	// TargetSize reports a target's pixel dimensions.
	TargetSize(t TargetID) (width, height int)

	// DestroyTarget releases a target and its backing bitmap.
	DestroyTarget(t TargetID)

	// CreateSolidBrush creates a solid color brush.
	CreateSolidBrush(c blitz2d.RGBA) (BrushID, error)

	// CreateGradientBrush creates a linear or radial gradient brush.
	// Sweep gradients are approximated before reaching the device; see
	// Resources.
	CreateGradientBrush(g scene.GradientBrush) (BrushID, error)

	// CreateImageBrush creates a bitmap-backed brush from decoded
	// pixels.
	CreateImageBrush(img scene.ImageBrush) (BrushID, error)

	// ReleaseBrush releases a brush.
	ReleaseBrush(b BrushID)

	// NewPathSink opens a sink for one new path geometry.
	NewPathSink() PathSink

	// ReleasePath releases a path geometry.
	ReleasePath(p PathID)

	// SnapshotTarget captures a target's current contents into an
	// immutable bitmap.
	SnapshotTarget(t TargetID) (BitmapID, error)

	// ReleaseBitmap releases a captured bitmap.
	ReleaseBitmap(bm BitmapID)

	// BlurTarget applies a Gaussian blur of the given standard
	// deviation to the target's contents in place, with soft (
	// transparent-extended) borders. Returns ErrBlurUnavailable if the
	// device cannot blur; callers then composite the unblurred raster.
	BlurTarget(t TargetID, stdDev float64) error

	// BeginDraw opens a draw bracket on t. Brackets nest.
	BeginDraw(t TargetID)

	// EndDraw closes the innermost draw bracket, flushing device
	// commands. Device-reported failures surface here.
	EndDraw() error

	// Clear fills the current target with c.
	Clear(c blitz2d.RGBA)

	// PushClip pushes an axis-aligned clip rectangle.
	PushClip(r blitz2d.Rect)

	// PopClip pops the innermost clip rectangle.
	PopClip()

	// FillPath fills a path geometry with a brush.
	FillPath(p PathID, b BrushID)

	// StrokePath strokes a path geometry with a brush.
	StrokePath(p PathID, b BrushID, width float64)

	// DrawGlyphRun draws shaped glyphs from face, advancing the pen by
	// advances[i] after glyph i, starting at the baseline origin.
	DrawGlyphRun(face *font.Face, glyphs []scene.GlyphID, advances []float64,
		origin blitz2d.Point, size float64, b BrushID, alpha float64)

	// DrawTarget composites src onto the current target at dst using
	// source-over blending.
	DrawTarget(src TargetID, dst blitz2d.Rect, alpha float64)

	// DrawBitmap composites a captured bitmap onto the current target
	// at dst using source-over blending.
	DrawBitmap(bm BitmapID, dst blitz2d.Rect)
}

// DeviceFactory creates a GraphicsDevice for a host-supplied handle.
// The surface/device manager calls it lazily on first attach.
type DeviceFactory func(handle DeviceHandle) (GraphicsDevice, error)
