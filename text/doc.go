// Package text resolves font faces for glyph-run playback.
//
// The renderer consumes already-shaped glyph ids; this package only
// maps a [FontKey] (family, weight, stretch, italic) onto a concrete
// system font face via go-text/typesetting's font scanner, caches the
// resolved faces, and supplies a process-wide default face used when
// resolution fails.
package text
