package render

import (
	"log/slog"
	"time"

	"github.com/go-text/typesetting/font"

	"github.com/nerocui/blitz2d"
	"github.com/nerocui/blitz2d/scene"
	"github.com/nerocui/blitz2d/text"
)

// backgroundColor is the opaque fallback the frame is cleared to.
// A frame with zero recorded commands still presents a solid page,
// never a transparent one.
var backgroundColor = blitz2d.White

// Options configures playback behavior. Both toggles gate logging or
// features only; they never change the meaning of a command stream.
type Options struct {
	// Verbose enables per-command debug logging during playback.
	Verbose bool

	// DisableShadows skips BoxShadow commands entirely.
	DisableShadows bool
}

// Renderer plays recorded scenes back against a graphics device.
//
// One renderer owns one device, one target and all resource caches.
// All methods must be called from a single goroutine; a frame is one
// Render call and is never suspended mid-way. The renderer never
// presents the surface itself; presentation is the host's job after
// Render returns.
type Renderer struct {
	opts    Options
	targets *Targets
	caches  *Resources
	shadows shadowRenderer
	fonts   *text.Resolver

	surface Surface
	active  bool

	fontErr     error
	defaultFace *font.Face

	log *slog.Logger
}

// NewRenderer creates a renderer that obtains its device from
// factory on the first Attach.
func NewRenderer(factory DeviceFactory, opts Options) *Renderer {
	log := blitz2d.Logger()
	caches := newResources()
	return &Renderer{
		opts:    opts,
		targets: newTargets(factory),
		caches:  caches,
		shadows: shadowRenderer{resources: caches, log: log},
		log:     log,
	}
}

// Attach binds the renderer to a host surface, lazily creating the
// device and the font resolution context on first attach. A failed
// device or font-system init leaves the renderer inactive: Render
// becomes a no-op until a later Attach succeeds.
func (r *Renderer) Attach(handle DeviceHandle, surface Surface, width, height int) {
	if err := r.targets.Attach(handle, surface, width, height); err != nil {
		r.log.Error("render: device initialization failed", slog.Any("err", err))
		r.active = false
		return
	}
	r.surface = surface
	r.active = true
}

// Active reports whether the renderer holds a usable device.
func (r *Renderer) Active() bool {
	return r.active
}

// Stats returns resource cache occupancy.
func (r *Renderer) Stats() CacheStats {
	return r.caches.Stats()
}

// InvalidateTarget drops the target bitmap. The host must call this
// before resizing the underlying surface buffers.
func (r *Renderer) InvalidateTarget() {
	r.targets.InvalidateTarget()
}

// Resize records the surface's new size. Call after InvalidateTarget
// and the host-side buffer resize; the next frame recreates the
// target at the new size.
func (r *Renderer) Resize(width, height int) {
	r.targets.Resize(width, height)
}

// Render plays one recorded scene back onto the bound target.
//
// Errors never escape: an unusable target skips the frame with state
// kept for a retry, per-draw failures degrade to skipping that one
// draw, and an end-of-frame device failure abandons the frame and
// resets the target and caches so the next frame starts clean.
func (r *Renderer) Render(rec *scene.Recorder) {
	if !r.active {
		return
	}
	device := r.targets.Device()

	target, err := r.targets.EnsureTarget(r.surface)
	if err != nil {
		return
	}

	var frameStart time.Time
	if r.opts.Verbose {
		frameStart = time.Now()
	}

	device.BeginDraw(target)
	device.Clear(backgroundColor)

	clipDepth := 0
	for _, cmd := range rec.Commands() {
		if r.opts.Verbose {
			r.log.Debug("render: command", slog.String("type", cmd.Type().String()))
		}
		switch c := cmd.(type) {
		case scene.PushLayerCommand:
			device.PushClip(c.Clip)
			clipDepth++

		case scene.PopLayerCommand:
			if clipDepth > 0 {
				device.PopClip()
				clipDepth--
			}

		case scene.FillPathCommand:
			r.fill(device, c.Path, c.Brush)

		case scene.StrokePathCommand:
			r.stroke(device, c.Path, c.Brush, c.Width)

		case scene.BoxShadowCommand:
			if !r.opts.DisableShadows {
				r.shadows.draw(device, c)
			}

		case scene.GlyphRunCommand:
			r.drawGlyphRun(device, c)
		}
	}

	// A stream ending mid-layer would corrupt the device clip stack
	// for every later frame; unwind the remainder explicitly.
	for clipDepth > 0 {
		device.PopClip()
		clipDepth--
	}

	if err := device.EndDraw(); err != nil {
		r.log.Error("render: frame abandoned", slog.Any("err", err))
		r.targets.InvalidateTarget()
		r.caches.Purge(device)
		return
	}

	if r.opts.Verbose {
		r.log.Debug("render: frame done",
			slog.Int("commands", rec.Len()),
			slog.Duration("elapsed", time.Since(frameStart)))
	}
}

func (r *Renderer) fill(device GraphicsDevice, p *scene.Path, brush scene.Brush) {
	path, err := buildPath(device, p)
	if err != nil {
		logPathError(r.log, "fill", err)
		return
	}
	defer device.ReleasePath(path)

	id, cached, err := r.caches.resolveBrush(device, brush)
	if err != nil {
		r.log.Warn("render: brush creation failed", slog.Any("err", err))
		return
	}
	device.FillPath(path, id)
	if !cached {
		device.ReleaseBrush(id)
	}
}

func (r *Renderer) stroke(device GraphicsDevice, p *scene.Path, brush scene.Brush, width float64) {
	path, err := buildPath(device, p)
	if err != nil {
		logPathError(r.log, "stroke", err)
		return
	}
	defer device.ReleasePath(path)

	id, cached, err := r.caches.resolveBrush(device, brush)
	if err != nil {
		r.log.Warn("render: brush creation failed", slog.Any("err", err))
		return
	}
	device.StrokePath(path, id, width)
	if !cached {
		device.ReleaseBrush(id)
	}
}

// drawGlyphRun resolves the run's font face, falling back to the
// process default face when the requested family cannot be matched
// and skipping the run only if even the default is unavailable. The
// font resolution context is created on the first glyph run; if the
// system font collection cannot be loaded at all, glyph runs are
// skipped for the renderer's lifetime.
func (r *Renderer) drawGlyphRun(device GraphicsDevice, c scene.GlyphRunCommand) {
	if r.fonts == nil && r.fontErr == nil {
		r.fonts, r.fontErr = text.NewResolver()
		if r.fontErr != nil {
			r.log.Error("render: font system initialization failed", slog.Any("err", r.fontErr))
		}
	}
	if r.fontErr != nil {
		return
	}
	face := r.resolveFace(c.Font)
	if face == nil {
		return
	}

	id, cached, err := r.caches.resolveBrush(device, c.Brush)
	if err != nil {
		r.log.Warn("render: glyph brush creation failed", slog.Any("err", err))
		return
	}
	device.DrawGlyphRun(face, c.Glyphs, c.Advances, c.Origin, c.Size, id, c.Alpha)
	if !cached {
		device.ReleaseBrush(id)
	}
}

func (r *Renderer) resolveFace(key text.FontKey) *font.Face {
	face, err := r.fonts.ResolveFace(key)
	if err == nil {
		return face
	}
	if r.defaultFace == nil {
		fallback, ferr := r.fonts.DefaultFace()
		if ferr != nil {
			r.log.Warn("render: no usable font face, glyph run skipped",
				slog.String("family", key.Family), slog.Any("err", err))
			return nil
		}
		r.defaultFace = fallback
	}
	return r.defaultFace
}
