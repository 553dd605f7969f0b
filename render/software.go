package render

import (
	"fmt"
	"image"
	"image/color"
	stddraw "image/draw"
	"math"

	"github.com/go-text/typesetting/font"
	"github.com/gogpu/gputypes"
	xdraw "golang.org/x/image/draw"

	"github.com/nerocui/blitz2d"
	"github.com/nerocui/blitz2d/internal/filter"
	"github.com/nerocui/blitz2d/scene"
)

// ImageSurface is a Surface backed by a plain RGBA image, used by the
// software device and by tests. The image persists across frames; the
// host reads it back after Render returns.
type ImageSurface struct {
	img *image.RGBA
}

// NewImageSurface creates a surface of the given pixel size.
func NewImageSurface(width, height int) *ImageSurface {
	return &ImageSurface{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// Size returns the surface dimensions in pixels.
func (s *ImageSurface) Size() (width, height int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Image returns the backing image.
func (s *ImageSurface) Image() *image.RGBA {
	return s.img
}

// Resize replaces the backing image with a new one of the given size.
// The previous contents are discarded.
func (s *ImageSurface) Resize(width, height int) {
	s.img = image.NewRGBA(image.Rect(0, 0, width, height))
}

// SoftwareDevice is a CPU implementation of GraphicsDevice. It
// rasterizes paths with golang.org/x/image/vector, composites with
// golang.org/x/image/draw and blurs with the internal Gaussian
// filter, so the full playback pipeline runs without a GPU. It also
// backs the render tests.
type SoftwareDevice struct {
	targets map[TargetID]*image.RGBA
	brushes map[BrushID]softBrush
	paths   map[PathID]*softPath
	bitmaps map[BitmapID]*image.RGBA

	nextTarget TargetID
	nextBrush  BrushID
	nextPath   PathID
	nextBitmap BitmapID

	// drawStack holds the nested BeginDraw targets, innermost last.
	drawStack []TargetID
	// clipStacks holds one pre-intersected clip stack per open draw
	// bracket. A nested bracket starts unclipped; the outer bracket's
	// clips are in the outer target's coordinate space and resume when
	// the nested bracket closes.
	clipStacks [][]image.Rectangle
}

// NewSoftwareDevice creates an empty software device.
func NewSoftwareDevice() *SoftwareDevice {
	return &SoftwareDevice{
		targets: make(map[TargetID]*image.RGBA),
		brushes: make(map[BrushID]softBrush),
		paths:   make(map[PathID]*softPath),
		bitmaps: make(map[BitmapID]*image.RGBA),
	}
}

// NewSoftwareFactory returns a DeviceFactory producing a software
// device. The handle is unused; the software device needs no GPU.
func NewSoftwareFactory() DeviceFactory {
	return func(DeviceHandle) (GraphicsDevice, error) {
		return NewSoftwareDevice(), nil
	}
}

// DPI returns the fixed 96 DPI of the software device.
func (d *SoftwareDevice) DPI() (x, y float64) {
	return 96, 96
}

// CreateTarget binds a target to surface. An ImageSurface's backing
// image is drawn into directly; any other surface gets a private
// buffer of the surface's reported size.
func (d *SoftwareDevice) CreateTarget(surface Surface, props TargetProps) (TargetID, error) {
	var img *image.RGBA
	if is, ok := surface.(*ImageSurface); ok {
		img = is.Image()
	} else {
		w, h := surface.Size()
		if w <= 0 || h <= 0 {
			return 0, fmt.Errorf("render: invalid surface size %dx%d", w, h)
		}
		img = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	d.nextTarget++
	d.targets[d.nextTarget] = img
	return d.nextTarget, nil
}

// CreateOffscreen creates a transient offscreen target.
func (d *SoftwareDevice) CreateOffscreen(width, height int) (TargetID, error) {
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("render: invalid offscreen size %dx%d", width, height)
	}
	d.nextTarget++
	d.targets[d.nextTarget] = image.NewRGBA(image.Rect(0, 0, width, height))
	return d.nextTarget, nil
}

// TargetSize reports a target's pixel dimensions.
func (d *SoftwareDevice) TargetSize(t TargetID) (width, height int) {
	img, ok := d.targets[t]
	if !ok {
		return 0, 0
	}
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

// DestroyTarget releases a target.
func (d *SoftwareDevice) DestroyTarget(t TargetID) {
	delete(d.targets, t)
}

// CreateSolidBrush creates a solid color brush.
func (d *SoftwareDevice) CreateSolidBrush(c blitz2d.RGBA) (BrushID, error) {
	d.nextBrush++
	d.brushes[d.nextBrush] = &solidSoftBrush{c: toNRGBA(c)}
	return d.nextBrush, nil
}

// CreateGradientBrush creates a linear or radial gradient brush.
func (d *SoftwareDevice) CreateGradientBrush(g scene.GradientBrush) (BrushID, error) {
	if len(g.Stops) == 0 {
		return 0, fmt.Errorf("render: gradient with no stops")
	}
	d.nextBrush++
	d.brushes[d.nextBrush] = newGradientSoftBrush(g)
	return d.nextBrush, nil
}

// CreateImageBrush creates a bitmap-backed brush from decoded pixels.
// RGBA and BGRA byte orders are accepted; anything else is rejected.
func (d *SoftwareDevice) CreateImageBrush(img scene.ImageBrush) (BrushID, error) {
	if img.Width <= 0 || img.Height <= 0 || len(img.Pix) < img.Width*img.Height*4 {
		return 0, fmt.Errorf("render: invalid image brush %dx%d", img.Width, img.Height)
	}
	switch img.Format {
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm:
	default:
		return 0, fmt.Errorf("render: unsupported image brush format %v", img.Format)
	}

	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	copy(out.Pix, img.Pix[:img.Width*img.Height*4])
	if img.Format == gputypes.TextureFormatBGRA8Unorm {
		for i := 0; i < len(out.Pix); i += 4 {
			out.Pix[i], out.Pix[i+2] = out.Pix[i+2], out.Pix[i]
		}
	}
	d.nextBrush++
	d.brushes[d.nextBrush] = &imageSoftBrush{img: out}
	return d.nextBrush, nil
}

// ReleaseBrush releases a brush.
func (d *SoftwareDevice) ReleaseBrush(b BrushID) {
	delete(d.brushes, b)
}

// NewPathSink opens a sink for one new path geometry.
func (d *SoftwareDevice) NewPathSink() PathSink {
	return &softPathSink{device: d}
}

// ReleasePath releases a path geometry.
func (d *SoftwareDevice) ReleasePath(p PathID) {
	delete(d.paths, p)
}

// SnapshotTarget copies a target's pixels into an immutable bitmap.
func (d *SoftwareDevice) SnapshotTarget(t TargetID) (BitmapID, error) {
	img, ok := d.targets[t]
	if !ok {
		return 0, fmt.Errorf("render: snapshot of unknown target %d", t)
	}
	snap := image.NewRGBA(img.Bounds())
	copy(snap.Pix, img.Pix)
	d.nextBitmap++
	d.bitmaps[d.nextBitmap] = snap
	return d.nextBitmap, nil
}

// ReleaseBitmap releases a captured bitmap.
func (d *SoftwareDevice) ReleaseBitmap(bm BitmapID) {
	delete(d.bitmaps, bm)
}

// BlurTarget blurs the target's contents in place with a separable
// Gaussian. Out-of-bounds samples are transparent, matching the soft
// border mode shadows need.
func (d *SoftwareDevice) BlurTarget(t TargetID, stdDev float64) error {
	img, ok := d.targets[t]
	if !ok {
		return fmt.Errorf("render: blur of unknown target %d", t)
	}
	filter.GaussianBlur(img, stdDev)
	return nil
}

// BeginDraw opens a draw bracket on t. Brackets nest; the clip stack
// belongs to the innermost bracket.
func (d *SoftwareDevice) BeginDraw(t TargetID) {
	d.drawStack = append(d.drawStack, t)
	d.clipStacks = append(d.clipStacks, nil)
}

// EndDraw closes the innermost draw bracket and discards its clips.
func (d *SoftwareDevice) EndDraw() error {
	if len(d.drawStack) == 0 {
		return fmt.Errorf("render: EndDraw without BeginDraw")
	}
	d.drawStack = d.drawStack[:len(d.drawStack)-1]
	d.clipStacks = d.clipStacks[:len(d.clipStacks)-1]
	return nil
}

// current returns the innermost draw target, or nil outside a draw
// bracket.
func (d *SoftwareDevice) current() *image.RGBA {
	if len(d.drawStack) == 0 {
		return nil
	}
	return d.targets[d.drawStack[len(d.drawStack)-1]]
}

// region returns the drawable region of the current target: its
// bounds intersected with the innermost clip.
func (d *SoftwareDevice) region() image.Rectangle {
	img := d.current()
	if img == nil {
		return image.Rectangle{}
	}
	r := img.Bounds()
	if clips := d.clipStacks[len(d.clipStacks)-1]; len(clips) > 0 {
		r = r.Intersect(clips[len(clips)-1])
	}
	return r
}

// Clear fills the current drawable region with c.
func (d *SoftwareDevice) Clear(c blitz2d.RGBA) {
	img := d.current()
	if img == nil {
		return
	}
	stddraw.Draw(img, d.region(), image.NewUniform(toNRGBA(c)), image.Point{}, stddraw.Src)
}

// PushClip pushes an axis-aligned clip rectangle, intersected with
// the clip already in effect.
func (d *SoftwareDevice) PushClip(r blitz2d.Rect) {
	if len(d.clipStacks) == 0 {
		return
	}
	clips := d.clipStacks[len(d.clipStacks)-1]
	next := rectToImage(r)
	if len(clips) > 0 {
		next = next.Intersect(clips[len(clips)-1])
	}
	d.clipStacks[len(d.clipStacks)-1] = append(clips, next)
}

// PopClip pops the innermost clip rectangle.
func (d *SoftwareDevice) PopClip() {
	if len(d.clipStacks) == 0 {
		return
	}
	clips := d.clipStacks[len(d.clipStacks)-1]
	if len(clips) > 0 {
		d.clipStacks[len(d.clipStacks)-1] = clips[:len(clips)-1]
	}
}

// DrawTarget composites src onto the current target at dst, scaling
// when the sizes differ.
func (d *SoftwareDevice) DrawTarget(src TargetID, dst blitz2d.Rect, alpha float64) {
	img, ok := d.targets[src]
	if !ok {
		return
	}
	d.compositeImage(img, dst, alpha)
}

// DrawBitmap composites a captured bitmap onto the current target.
func (d *SoftwareDevice) DrawBitmap(bm BitmapID, dst blitz2d.Rect) {
	img, ok := d.bitmaps[bm]
	if !ok {
		return
	}
	d.compositeImage(img, dst, 1)
}

// compositeImage source-over composites src into dst, scaled to the
// destination rect and clipped to the drawable region.
func (d *SoftwareDevice) compositeImage(src *image.RGBA, dst blitz2d.Rect, alpha float64) {
	target := d.current()
	if target == nil || dst.IsEmpty() {
		return
	}
	dr := rectToImage(dst)

	scaled := src
	if dr.Dx() != src.Bounds().Dx() || dr.Dy() != src.Bounds().Dy() {
		scaled = image.NewRGBA(image.Rect(0, 0, dr.Dx(), dr.Dy()))
		xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	}

	clip := d.region().Intersect(dr)
	if clip.Empty() {
		return
	}
	if alpha >= 1 {
		stddraw.Draw(target, clip, scaled, clip.Min.Sub(dr.Min).Add(scaled.Bounds().Min), stddraw.Over)
		return
	}
	if alpha <= 0 {
		return
	}
	faded := image.NewRGBA(scaled.Bounds())
	a := uint32(alpha*255 + 0.5)
	for i := 0; i < len(scaled.Pix); i += 4 {
		faded.Pix[i+0] = uint8(uint32(scaled.Pix[i+0]) * a / 255)
		faded.Pix[i+1] = uint8(uint32(scaled.Pix[i+1]) * a / 255)
		faded.Pix[i+2] = uint8(uint32(scaled.Pix[i+2]) * a / 255)
		faded.Pix[i+3] = uint8(uint32(scaled.Pix[i+3]) * a / 255)
	}
	stddraw.Draw(target, clip, faded, clip.Min.Sub(dr.Min).Add(faded.Bounds().Min), stddraw.Over)
}

// FillPath fills a path geometry with a brush.
func (d *SoftwareDevice) FillPath(p PathID, b BrushID) {
	path, ok := d.paths[p]
	if !ok {
		return
	}
	brush, ok := d.brushes[b]
	if !ok {
		return
	}
	d.fillFigures(path.figures, path.fillMode, brush, 1)
}

// StrokePath strokes a path geometry with a brush. Curves are
// flattened and each polyline segment is expanded to a quad; joins
// are butt joins, which is adequate for document borders.
func (d *SoftwareDevice) StrokePath(p PathID, b BrushID, width float64) {
	path, ok := d.paths[p]
	if !ok {
		return
	}
	brush, ok := d.brushes[b]
	if !ok {
		return
	}
	if width <= 0 {
		width = 1
	}
	outline := strokeFigures(path.figures, width)
	d.fillFigures(outline, FillWinding, brush, 1)
}

// DrawGlyphRun rasterizes glyph outlines from face at the given size,
// advancing the pen after each glyph. Glyphs without an outline
// (bitmap or SVG color glyphs) advance the pen without drawing.
func (d *SoftwareDevice) DrawGlyphRun(face *font.Face, glyphs []scene.GlyphID, advances []float64,
	origin blitz2d.Point, size float64, b BrushID, alpha float64) {
	brush, ok := d.brushes[b]
	if !ok || face == nil || size <= 0 {
		return
	}
	scale := size / float64(face.Upem())

	pen := origin.X
	for i, g := range glyphs {
		figures := glyphFigures(face, g, scale, blitz2d.Pt(pen, origin.Y))
		if len(figures) > 0 {
			d.fillFigures(figures, FillWinding, brush, alpha)
		}
		if i < len(advances) {
			pen += advances[i]
		}
	}
}

func toNRGBA(c blitz2d.RGBA) color.NRGBA {
	return color.NRGBA{
		R: clampByte(c.R),
		G: clampByte(c.G),
		B: clampByte(c.B),
		A: clampByte(c.A),
	}
}

func clampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

func rectToImage(r blitz2d.Rect) image.Rectangle {
	return image.Rect(
		int(math.Floor(r.X0)), int(math.Floor(r.Y0)),
		int(math.Ceil(r.X1)), int(math.Ceil(r.Y1)))
}
