package render

import (
	"log/slog"

	"github.com/nerocui/blitz2d"
	"github.com/nerocui/blitz2d/scene"
)

// buildPath translates a recorded path into a device geometry.
//
// Figure bracketing follows the device sink contract rather than the
// recorded verb stream: a MoveTo while a figure is open first ends
// that figure as open, a segment with no figure open implicitly
// begins one at the current point, Close ends the figure closed, and
// a figure still open when the verbs run out is ended open. A path
// with no segments yields an empty geometry, which devices accept and
// draw as nothing.
//
// On sink failure the error is returned and the caller skips the
// draw; a malformed path never aborts the frame.
func buildPath(device GraphicsDevice, p *scene.Path) (PathID, error) {
	sink := device.NewPathSink()
	w := &sinkWalker{sink: sink}
	p.Walk(w)
	w.flush(FigureOpen)
	return sink.Finish()
}

// sinkWalker adapts the recorded verb stream to a device path sink,
// tracking whether a figure is currently open.
type sinkWalker struct {
	sink    PathSink
	open    bool
	current blitz2d.Point
}

func (w *sinkWalker) MoveTo(p blitz2d.Point) {
	w.flush(FigureOpen)
	w.current = p
}

func (w *sinkWalker) LineTo(p blitz2d.Point) {
	w.ensureFigure()
	w.sink.LineTo(p)
	w.current = p
}

func (w *sinkWalker) QuadTo(c, p blitz2d.Point) {
	w.ensureFigure()
	w.sink.QuadTo(c, p)
	w.current = p
}

func (w *sinkWalker) CubicTo(c1, c2, p blitz2d.Point) {
	w.ensureFigure()
	w.sink.CubicTo(c1, c2, p)
	w.current = p
}

func (w *sinkWalker) Close() {
	w.flush(FigureClosed)
}

// ensureFigure opens a figure at the current point if none is open.
func (w *sinkWalker) ensureFigure() {
	if !w.open {
		w.sink.BeginFigure(w.current)
		w.open = true
	}
}

// flush ends the open figure, if any, with the given end mode.
func (w *sinkWalker) flush(end FigureEnd) {
	if w.open {
		w.sink.EndFigure(end)
		w.open = false
	}
}

// logPathError logs a geometry build failure at warn level.
func logPathError(log *slog.Logger, op string, err error) {
	log.Warn("render: path geometry build failed",
		slog.String("op", op), slog.Any("err", err))
}
