package render

import "errors"

var (
	// ErrNoDevice is returned while the renderer has no initialized
	// device (DeviceInitFailure); render calls are no-ops until a
	// later attach succeeds.
	ErrNoDevice = errors.New("render: no graphics device")

	// ErrNoTarget is returned when every target-creation strategy
	// failed (TargetCreationFailure); the frame is skipped and state
	// is preserved for a retry next frame.
	ErrNoTarget = errors.New("render: target bitmap unavailable")

	// ErrBlurUnavailable is returned by devices that cannot apply a
	// Gaussian blur; the shadow renderer then composites the
	// unblurred raster.
	ErrBlurUnavailable = errors.New("render: blur effect unavailable")
)
