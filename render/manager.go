package render

import (
	"fmt"
	"log/slog"

	"github.com/nerocui/blitz2d"
)

// Targets owns the graphics device and the single target bitmap bound
// to the externally supplied swapchain surface. Exactly one target
// exists per surface/device pair; it is invalidated whenever the
// surface size no longer matches and lazily recreated on the next
// frame.
type Targets struct {
	factory DeviceFactory
	device  GraphicsDevice
	handle  DeviceHandle
	surface Surface

	width, height int
	target        TargetID

	// recreations counts distinct target creations, for diagnostics.
	recreations int

	log *slog.Logger
}

// newTargets creates an unattached manager.
func newTargets(factory DeviceFactory) *Targets {
	return &Targets{
		factory: factory,
		log:     blitz2d.Logger(),
	}
}

// Attach binds an externally owned surface at the given size, lazily
// creating the underlying device on first attach. A failed device
// creation leaves the manager inactive; a later Attach may retry.
func (t *Targets) Attach(handle DeviceHandle, surface Surface, width, height int) error {
	if t.device == nil {
		device, err := t.factory(handle)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrNoDevice, err)
		}
		t.device = device
	}
	t.handle = handle
	t.surface = surface
	t.width = width
	t.height = height
	return nil
}

// Resize records the surface's new logical size. The host must call
// InvalidateTarget first, resize the underlying buffers, then Resize;
// the next EnsureTarget recreates the target bitmap.
func (t *Targets) Resize(width, height int) {
	t.width = width
	t.height = height
}

// Device returns the managed device, or nil before a successful
// attach.
func (t *Targets) Device() GraphicsDevice {
	return t.device
}

// InvalidateTarget unbinds and drops the cached target bitmap.
// Required before the host resizes the underlying surface buffers.
func (t *Targets) InvalidateTarget() {
	if t.device != nil && t.target.IsValid() {
		t.device.DestroyTarget(t.target)
	}
	t.target = 0
}

// EnsureTarget returns the target bitmap for surface, recreating it
// when absent or when its size differs from the attached size.
//
// Creation is attempted with progressively more permissive property
// sets: first the device context's current DPI, then inherit, then a
// fixed 96-DPI fallback. If every attempt fails the frame is skipped,
// not fatal: ErrNoTarget is returned and state is kept for a retry.
func (t *Targets) EnsureTarget(surface Surface) (TargetID, error) {
	if t.device == nil {
		return 0, ErrNoDevice
	}
	if surface == nil {
		surface = t.surface
	}
	if surface == nil {
		return 0, ErrNoTarget
	}

	if t.target.IsValid() {
		w, h := t.device.TargetSize(t.target)
		if w == t.width && h == t.height {
			return t.target, nil
		}
		t.device.DestroyTarget(t.target)
		t.target = 0
	}

	dpix, dpiy := t.device.DPI()
	attempts := []TargetProps{
		{DPIX: dpix, DPIY: dpiy},
		{}, // inherit
		{DPIX: 96, DPIY: 96},
	}

	var lastErr error
	for _, props := range attempts {
		id, err := t.device.CreateTarget(surface, props)
		if err != nil {
			lastErr = err
			continue
		}
		t.target = id
		t.recreations++
		return id, nil
	}

	t.log.Warn("render: all target creation strategies failed",
		slog.Int("width", t.width), slog.Int("height", t.height),
		slog.Any("err", lastErr))
	return 0, fmt.Errorf("%w: %v", ErrNoTarget, lastErr)
}

// Recreations returns how many times a target bitmap has been
// created since attach. Exposed for diagnostics.
func (t *Targets) Recreations() int {
	return t.recreations
}
