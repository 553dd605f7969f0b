package scene

import (
	"github.com/nerocui/blitz2d"
	"github.com/nerocui/blitz2d/text"
)

// CommandType identifies the type of a recorded command.
type CommandType uint8

const (
	// CmdPushLayer opens a rectangular clip layer.
	CmdPushLayer CommandType = iota
	// CmdPopLayer closes the innermost clip layer.
	CmdPopLayer
	// CmdFillPath fills a path with a brush.
	CmdFillPath
	// CmdStrokePath strokes a path with a brush.
	CmdStrokePath
	// CmdBoxShadow draws an outset or inset box shadow.
	CmdBoxShadow
	// CmdGlyphRun draws a run of positioned glyphs.
	CmdGlyphRun
)

// commandTypeNames maps CommandType values to their string representation.
var commandTypeNames = [...]string{
	CmdPushLayer:  "PushLayer",
	CmdPopLayer:   "PopLayer",
	CmdFillPath:   "FillPath",
	CmdStrokePath: "StrokePath",
	CmdBoxShadow:  "BoxShadow",
	CmdGlyphRun:   "GlyphRun",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is the interface implemented by all recorded command types.
// Commands are owned exclusively by the per-frame command list and are
// discarded on the next Reset.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType
}

// PushLayerCommand opens a clip layer restricted to Clip.
// Only rectangular clips are supported; the recorder approximates any
// other shape by its bounding box.
type PushLayerCommand struct {
	// Clip is the clip rectangle in device coordinates.
	Clip blitz2d.Rect
}

// Type implements Command.
func (PushLayerCommand) Type() CommandType { return CmdPushLayer }

// PopLayerCommand closes the innermost clip layer.
type PopLayerCommand struct{}

// Type implements Command.
func (PopLayerCommand) Type() CommandType { return CmdPopLayer }

// FillPathCommand fills a path with a brush.
type FillPathCommand struct {
	// Path is the flattened outline, owned by the command.
	Path *Path
	// Brush is the captured paint source.
	Brush Brush
}

// Type implements Command.
func (FillPathCommand) Type() CommandType { return CmdFillPath }

// StrokePathCommand strokes a path with a brush.
type StrokePathCommand struct {
	// Path is the flattened outline, owned by the command.
	Path *Path
	// Brush is the captured paint source.
	Brush Brush
	// Width is the stroke width in pixels.
	Width float64
}

// Type implements Command.
func (StrokePathCommand) Type() CommandType { return CmdStrokePath }

// BoxShadowCommand draws a box shadow for an element rect.
type BoxShadowCommand struct {
	// Rect is the element rectangle in device coordinates.
	Rect blitz2d.Rect
	// Color is the shadow color.
	Color blitz2d.RGBA
	// Radius is the element's corner radius.
	Radius float64
	// StdDev is the Gaussian blur standard deviation, always >= 0.
	StdDev float64
	// Inset selects the inner-shadow variant.
	Inset bool
}

// Type implements Command.
func (BoxShadowCommand) Type() CommandType { return CmdBoxShadow }

// GlyphID is a glyph index within a font face.
type GlyphID uint16

// GlyphRunCommand draws a run of already-shaped glyphs.
type GlyphRunCommand struct {
	// Glyphs are the shaped glyph ids, in visual order.
	Glyphs []GlyphID
	// Advances are per-glyph horizontal advances in pixels,
	// parallel to Glyphs.
	Advances []float64
	// Origin is the baseline origin of the first glyph.
	Origin blitz2d.Point
	// Size is the font size in pixels.
	Size float64
	// Font identifies the face to resolve at playback time.
	Font text.FontKey
	// Brush is the captured paint source for the glyphs.
	Brush Brush
	// Alpha is an extra opacity multiplier in [0, 1].
	Alpha float64
}

// Type implements Command.
func (GlyphRunCommand) Type() CommandType { return CmdGlyphRun }
