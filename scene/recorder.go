package scene

import (
	"math"

	"github.com/nerocui/blitz2d"
	"github.com/nerocui/blitz2d/text"
)

// BlendMode identifies how a layer composites onto its backdrop.
type BlendMode uint8

const (
	// BlendSourceOver is normal alpha compositing.
	BlendSourceOver BlendMode = iota
	// BlendMultiply multiplies source and backdrop.
	BlendMultiply
	// BlendScreen inverts, multiplies, and inverts again.
	BlendScreen
)

// FillRule specifies how to determine which areas are inside a path.
type FillRule uint8

const (
	// FillNonZero uses the non-zero winding rule.
	FillNonZero FillRule = iota
	// FillEvenOdd uses the even-odd rule.
	FillEvenOdd
)

// Stroke defines the style for stroking paths. Only Width is honored
// by playback; cap and join styles are accepted for interface
// compatibility with the paint producer but not recorded.
type Stroke struct {
	Width      float64
	Cap        uint8
	Join       uint8
	MiterLimit float64
}

// FontVariation is one variable-font axis setting, an OpenType axis
// tag with its value.
type FontVariation struct {
	Tag   uint32
	Value float64
}

// TextStyle describes the font selection for a glyph run. Family,
// Size, Weight and Italic are honored by playback; FontRef, Hinted
// and Variations are accepted for interface compatibility with the
// paint producer but not recorded.
type TextStyle struct {
	// FontRef is the producer's own handle for the resolved font.
	FontRef    uint32
	Family     string
	Size       float64
	Weight     int
	Italic     bool
	Hinted     bool
	Variations []FontVariation
}

// Glyph is one already-shaped glyph with its absolute position.
// Positions are baseline-relative device coordinates before any
// transform is applied.
type Glyph struct {
	ID   GlyphID
	X, Y float64
}

// fallbackAdvanceFactor scales the font size into a default advance
// used when a positional delta is implausible (negative or more than
// twice the font size). 0.6 approximates an average character width.
const fallbackAdvanceFactor = 0.6

// Recorder accumulates paint operations into an ordered command list
// for one frame. It is stateless across frames except for the list
// itself; Reset starts a new scene build.
//
// The Recorder is not safe for concurrent use.
type Recorder struct {
	commands []Command
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		commands: make([]Command, 0, 256),
	}
}

// Reset clears the command list, retaining capacity for the next build.
func (r *Recorder) Reset() {
	r.commands = r.commands[:0]
}

// Commands returns the recorded commands in order. The returned slice
// is owned by the recorder and valid until the next Reset.
func (r *Recorder) Commands() []Command {
	return r.commands
}

// Len returns the number of recorded commands.
func (r *Recorder) Len() int {
	return len(r.commands)
}

// PushLayer records a clip layer restricted to the given shape.
//
// Only rectangular (or translated-rectangle) clips are supported: any
// other shape is approximated by its bounding box. A pure-translation
// transform is folded into the rectangle's coordinates; rotation,
// scale and shear components are not applied to the clip. The blend
// mode and alpha are accepted for interface compatibility but only
// source-over at full opacity is currently recorded.
func (r *Recorder) PushLayer(clip Shape, blend BlendMode, alpha float64, transform blitz2d.Matrix) {
	rect := clip.Bounds()
	if transform.IsTranslation() {
		dx, dy := transform.Translation()
		rect = rect.Translate(dx, dy)
	}
	_ = blend
	_ = alpha
	r.commands = append(r.commands, PushLayerCommand{Clip: rect})
}

// PopLayer records a pop matching the most recent PushLayer.
func (r *Recorder) PopLayer() {
	r.commands = append(r.commands, PopLayerCommand{})
}

// Fill flattens shape into path segments, bakes a pure-translation
// transform into the coordinates, and records a fill with the captured
// brush. The fill rule is accepted for interface compatibility; paths
// are filled with the non-zero winding rule at playback.
func (r *Recorder) Fill(rule FillRule, transform blitz2d.Matrix, brush Brush, shape Shape) {
	_ = rule
	path := r.flatten(shape, transform)
	if path.IsEmpty() {
		return
	}
	r.commands = append(r.commands, FillPathCommand{
		Path:  path,
		Brush: CloneBrush(brush),
	})
}

// Stroke flattens shape into path segments, bakes a pure-translation
// transform into the coordinates, and records a stroke with the
// captured brush and the style's width.
func (r *Recorder) Stroke(style Stroke, transform blitz2d.Matrix, brush Brush, shape Shape) {
	path := r.flatten(shape, transform)
	if path.IsEmpty() {
		return
	}
	width := style.Width
	if width <= 0 {
		width = 1
	}
	r.commands = append(r.commands, StrokePathCommand{
		Path:  path,
		Brush: CloneBrush(brush),
		Width: width,
	})
}

// flatten converts a shape to an owned path with translation baked in.
func (r *Recorder) flatten(shape Shape, transform blitz2d.Matrix) *Path {
	path := &Path{}
	shape.AppendTo(path)
	if transform.IsTranslation() {
		if dx, dy := transform.Translation(); dx != 0 || dy != 0 {
			path.Translate(dx, dy)
		}
	}
	return path
}

// DrawGlyphs records one glyph run.
//
// Per-glyph advances are derived from consecutive glyph x positions.
// A delta that is negative or larger than twice the font size is
// treated as implausible and replaced by a default fallback advance,
// as is the advance of the final glyph. Generic font-family keywords
// ("serif", "monospace", ...) are resolved to concrete platform family
// names at record time. The per-run glyph transform is accepted for
// interface compatibility; glyphs are positioned by origin and
// advances only.
func (r *Recorder) DrawGlyphs(style TextStyle, brush Brush, alpha float64,
	transform, glyphTransform blitz2d.Matrix, glyphs []Glyph) {
	_ = glyphTransform
	size := style.Size
	if len(glyphs) == 0 || size <= 0 {
		return
	}

	ids := make([]GlyphID, len(glyphs))
	advances := make([]float64, len(glyphs))
	fallback := size * fallbackAdvanceFactor
	for i, g := range glyphs {
		ids[i] = g.ID
		adv := fallback
		if i+1 < len(glyphs) {
			delta := glyphs[i+1].X - g.X
			if delta >= 0 && delta <= size*2 {
				adv = delta
			}
		}
		advances[i] = adv
	}

	origin := blitz2d.Pt(glyphs[0].X, glyphs[0].Y)
	if transform.IsTranslation() {
		dx, dy := transform.Translation()
		origin = origin.Add(blitz2d.Pt(dx, dy))
	}

	key := text.FontKey{
		Family:  text.ResolveFamily(style.Family),
		Weight:  clampWeight(style.Weight),
		Stretch: text.StretchNormal,
		Italic:  style.Italic,
	}

	if alpha < 0 {
		alpha = 0
	} else if alpha > 1 {
		alpha = 1
	}

	r.commands = append(r.commands, GlyphRunCommand{
		Glyphs:   ids,
		Advances: advances,
		Origin:   origin,
		Size:     size,
		Font:     key,
		Brush:    CloneBrush(brush),
		Alpha:    alpha,
	})
}

// DrawBoxShadow records a box shadow for rect. A negative standard
// deviation selects the inset variant; its absolute value is stored.
// A pure-translation transform is baked into the rect.
func (r *Recorder) DrawBoxShadow(transform blitz2d.Matrix, rect blitz2d.Rect,
	color blitz2d.RGBA, radius, stdDev float64) {
	if transform.IsTranslation() {
		dx, dy := transform.Translation()
		rect = rect.Translate(dx, dy)
	}
	inset := false
	if stdDev < 0 {
		inset = true
		stdDev = math.Abs(stdDev)
	}
	r.commands = append(r.commands, BoxShadowCommand{
		Rect:   rect,
		Color:  color,
		Radius: radius,
		StdDev: stdDev,
		Inset:  inset,
	})
}

// clampWeight clamps a font weight to the valid 100-900 range,
// defaulting to 400 for non-positive input.
func clampWeight(w int) uint16 {
	if w <= 0 {
		return 400
	}
	if w < 100 {
		return 100
	}
	if w > 900 {
		return 900
	}
	return uint16(w)
}
