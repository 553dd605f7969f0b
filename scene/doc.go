// Package scene records one frame of paint operations into a replayable
// command list.
//
// A layout/paint producer drives a [Recorder] through one build pass per
// frame: Reset, then any sequence of PushLayer/PopLayer, Fill, Stroke,
// DrawGlyphs and DrawBoxShadow calls. Each call is captured as a typed
// command value; brushes and path data are copied at record time so the
// producer's transient references need not outlive the call.
//
// The command list is drained by the render package during playback.
// Commands live for exactly one build+playback cycle and are discarded
// by the next Reset.
//
// Known limitation: only the translation component of a transform is
// applied at record time. Rotation, scale and shear are ignored for
// rectangular clip layers and for recorded fills and strokes.
package scene
