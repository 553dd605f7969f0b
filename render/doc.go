// Package render replays recorded scenes against a graphics device.
//
// The package is organized around the components of one frame:
//
//   - [GraphicsDevice] is the injected platform surface: brush, path,
//     bitmap and target creation, begin/end draw brackets, clipping and
//     draw calls. Resources are addressed by arena-style ids, never by
//     raw pointers. [SoftwareDevice] is the CPU implementation used by
//     tests and non-GPU hosts.
//   - [Targets] owns the device and the target bitmap bound to the
//     externally supplied swapchain surface, including the
//     resize-invalidation protocol.
//   - [Resources] is the cache layer: gradient and image brushes keyed
//     by content hash, and the bounded FIFO cache of blurred shadow
//     bitmaps.
//   - [Renderer] is the playback engine. Renderer.Render drains one
//     recorded command list: bind target, clear, dispatch, restore the
//     clip stack, end the frame.
//
// Errors during playback never reach the paint producer: every failure
// degrades to skipping a draw call or abandoning the frame, and is
// logged through the package logger (see blitz2d.SetLogger).
//
// A Renderer instance is single-threaded by contract: one build pass
// and one playback pass per frame, with resizes serialized externally
// (InvalidateTarget before the host resizes the surface buffers).
package render
