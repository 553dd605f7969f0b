// Package blitz2d is a retained-mode 2D scene renderer for document
// engines. A layout/paint producer records one frame of paint operations
// into a [scene.Recorder]; the render package replays the recorded
// commands against a graphics device bound to a host-owned swapchain
// surface, managing brush, image, font-face and shadow-bitmap caches
// along the way.
//
// The root package holds the small value types shared by every layer:
// colors, points, rectangles, affine matrices, and the package logger.
//
// Rendering is single-threaded: one build pass on the recorder followed
// by one playback pass per frame. A renderer instance must not be used
// from more than one goroutine.
package blitz2d
