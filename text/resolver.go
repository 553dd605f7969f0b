package text

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/fontscan"
)

// ErrNoFace is returned when neither the requested face nor the
// default face can be resolved from the system font collection.
var ErrNoFace = errors.New("text: no matching font face")

// stretchValues maps the 1-9 stretch scale onto typesetting's
// fractional widths (1.0 = normal).
var stretchValues = [10]font.Stretch{
	0, // unused; stretch 0 is normalized to 5
	0.5, 0.625, 0.75, 0.875, 1.0, 1.125, 1.25, 1.5, 2.0,
}

// Resolver maps FontKeys onto system font faces.
//
// Resolution queries the system font collection by family name and
// aspect (weight, stretch, italic). Resolved faces are cached without
// bound: the cache is practically limited by the distinct keys a
// document actually uses. A process-wide default face backs every
// failed resolution.
type Resolver struct {
	mu sync.Mutex // fontscan.FontMap is not safe for concurrent use
	fm *fontscan.FontMap

	faces *cache[FontKey, *font.Face]

	fallbackOnce sync.Once
	fallback     *font.Face
	fallbackErr  error
}

// NewResolver creates a Resolver over the system font collection.
// Scanning results are cached on disk under the user cache directory.
func NewResolver() (*Resolver, error) {
	fm := fontscan.NewFontMap(nil)
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	if err := fm.UseSystemFonts(filepath.Join(dir, "blitz2d", "fonts")); err != nil {
		return nil, fmt.Errorf("text: loading system fonts: %w", err)
	}
	return &Resolver{
		fm:    fm,
		faces: newCache[FontKey, *font.Face](0),
	}, nil
}

// ResolveFace returns the font face for key, consulting the cache
// first. The family is matched by name, then the aspect by (weight,
// stretch, italic). On failure the caller should fall back to
// DefaultFace.
func (r *Resolver) ResolveFace(key FontKey) (*font.Face, error) {
	if key.Stretch == 0 {
		key.Stretch = StretchNormal
	}
	if key.Weight == 0 {
		key.Weight = 400
	}

	if face, ok := r.faces.get(key); ok {
		return face, nil
	}

	face := r.query(key)
	if face == nil {
		return nil, fmt.Errorf("%w: %q w%d s%d italic=%v",
			ErrNoFace, key.Family, key.Weight, key.Stretch, key.Italic)
	}
	r.faces.set(key, face)
	return face, nil
}

// DefaultFace returns the process-wide default face, resolving it on
// first use from DefaultFontKey.
func (r *Resolver) DefaultFace() (*font.Face, error) {
	r.fallbackOnce.Do(func() {
		face := r.query(DefaultFontKey())
		if face == nil {
			r.fallbackErr = fmt.Errorf("%w: default family %q", ErrNoFace, DefaultFamily)
			return
		}
		r.fallback = face
	})
	return r.fallback, r.fallbackErr
}

// CachedFaces returns the number of resolved faces held by the cache.
func (r *Resolver) CachedFaces() int {
	return r.faces.len()
}

// query runs one font map resolution. Returns nil when the collection
// has no usable face at all.
func (r *Resolver) query(key FontKey) *font.Face {
	style := font.StyleNormal
	if key.Italic {
		style = font.StyleItalic
	}
	stretch := stretchValues[StretchNormal]
	if int(key.Stretch) < len(stretchValues) && key.Stretch > 0 {
		stretch = stretchValues[key.Stretch]
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.fm.SetQuery(fontscan.Query{
		Families: []string{key.Family},
		Aspect: font.Aspect{
			Style:   style,
			Weight:  font.Weight(key.Weight),
			Stretch: stretch,
		},
	})
	// The rune only steers per-rune fallback; any common rune works
	// for family-level resolution.
	return r.fm.ResolveFace(' ')
}
