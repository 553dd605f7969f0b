package render

import (
	"fmt"
	"testing"

	"github.com/nerocui/blitz2d"
	"github.com/nerocui/blitz2d/scene"
)

func testGradient() scene.GradientBrush {
	return scene.GradientBrush{
		Kind:  scene.GradientLinear,
		Start: blitz2d.Pt(0, 0),
		End:   blitz2d.Pt(100, 0),
		Stops: []scene.GradientStop{
			{Offset: 0, Color: blitz2d.RGB(1, 0, 0)},
			{Offset: 1, Color: blitz2d.RGB(0, 0, 1)},
		},
	}
}

func TestGradientBrushCachedByContent(t *testing.T) {
	spy := newSpyDevice()
	r := newResources()

	id1, cached1, err := r.resolveBrush(spy, testGradient())
	if err != nil {
		t.Fatalf("resolveBrush failed: %v", err)
	}
	id2, cached2, err := r.resolveBrush(spy, testGradient())
	if err != nil {
		t.Fatalf("resolveBrush failed: %v", err)
	}

	if !cached1 || !cached2 {
		t.Error("gradient brushes should be cache-owned")
	}
	if id1 != id2 {
		t.Errorf("identical gradients should share a brush, got %d and %d", id1, id2)
	}
	if spy.gradientCreates != 1 {
		t.Errorf("expected 1 gradient creation, got %d", spy.gradientCreates)
	}
	if got := r.Stats().GradientBrushes; got != 1 {
		t.Errorf("expected 1 cached gradient, got %d", got)
	}
}

func TestGradientKeyIgnoresGeometry(t *testing.T) {
	// The key covers kind and stops only; moving the gradient line
	// does not create a second brush. Deliberate, if lossy.
	a := testGradient()
	b := testGradient()
	b.Start = blitz2d.Pt(50, 50)
	b.End = blitz2d.Pt(200, 200)
	if hashGradient(a) != hashGradient(b) {
		t.Error("gradient hash should not depend on geometry")
	}

	c := testGradient()
	c.Stops[1].Color = blitz2d.RGB(0, 1, 0)
	if hashGradient(a) == hashGradient(c) {
		t.Error("gradient hash should depend on stop colors")
	}

	d := testGradient()
	d.Kind = scene.GradientRadial
	if hashGradient(a) == hashGradient(d) {
		t.Error("gradient hash should depend on kind")
	}
}

func TestSolidBrushNeverCached(t *testing.T) {
	spy := newSpyDevice()
	r := newResources()

	brush := scene.SolidBrush{Color: blitz2d.Black}
	_, cached, err := r.resolveBrush(spy, brush)
	if err != nil {
		t.Fatalf("resolveBrush failed: %v", err)
	}
	if cached {
		t.Error("solid brushes must be caller-owned")
	}
	if _, _, err := r.resolveBrush(spy, brush); err != nil {
		t.Fatalf("resolveBrush failed: %v", err)
	}
	if spy.solidCreates != 2 {
		t.Errorf("expected a fresh solid brush per resolve, got %d creations", spy.solidCreates)
	}
}

func TestImageHashPrefixCollision(t *testing.T) {
	// Only the first 16 pixel bytes participate in the key. Two
	// images sharing that prefix collide; this documents the known
	// risk rather than fixing it.
	pix1 := make([]byte, 8*8*4)
	pix2 := make([]byte, 8*8*4)
	for i := 0; i < 16; i++ {
		pix1[i] = byte(i)
		pix2[i] = byte(i)
	}
	pix2[20] = 0xFF // differs past the prefix

	a := scene.ImageBrush{Width: 8, Height: 8, Pix: pix1, HasAlpha: true}
	b := scene.ImageBrush{Width: 8, Height: 8, Pix: pix2, HasAlpha: true}
	if hashImage(a) != hashImage(b) {
		t.Error("images sharing a 16-byte prefix should collide by design")
	}

	c := scene.ImageBrush{Width: 4, Height: 16, Pix: pix1, HasAlpha: true}
	if hashImage(a) == hashImage(c) {
		t.Error("image hash should depend on dimensions")
	}
}

func TestSweepGradientFlattensToLinear(t *testing.T) {
	g := scene.GradientBrush{
		Kind:   scene.GradientSweep,
		Center: blitz2d.Pt(50, 50),
		Radius: 10,
		Stops:  testGradient().Stops,
	}
	flat := flattenSweep(g)
	if flat.Kind != scene.GradientLinear {
		t.Fatalf("expected linear approximation, got kind %d", flat.Kind)
	}
	if flat.Start != blitz2d.Pt(40, 50) || flat.End != blitz2d.Pt(60, 50) {
		t.Errorf("expected span across the sweep diameter, got %v-%v", flat.Start, flat.End)
	}
}

func TestShadowKeyQuantization(t *testing.T) {
	tests := []struct {
		name           string
		w, h           float64
		radius, stdDev float64
		want           ShadowKey
	}{
		{
			name: "whole values",
			w:    40, h: 20, radius: 4, stdDev: 6,
			want: ShadowKey{Width: 40, Height: 20, Radius: 400, StdDev: 600},
		},
		{
			name: "subpixel rounds to same key",
			w:    39.6, h: 20.4, radius: 4, stdDev: 6,
			want: ShadowKey{Width: 40, Height: 20, Radius: 400, StdDev: 600},
		},
		{
			name: "clamped to uint16 range",
			w:    10, h: 10, radius: 900, stdDev: -3,
			want: ShadowKey{Width: 10, Height: 10, Radius: 65500, StdDev: 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := makeShadowKey(tt.w, tt.h, tt.radius, tt.stdDev, blitz2d.Transparent)
			if got != tt.want {
				t.Errorf("makeShadowKey = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestShadowKeySharedAcrossSubpixelRects(t *testing.T) {
	spy := newSpyDevice()
	r := newResources()
	c := blitz2d.RGB(0, 0, 0)

	k1 := makeShadowKey(40.2, 19.8, 4, 6, c)
	k2 := makeShadowKey(39.9, 20.1, 4, 6, c)
	if k1 != k2 {
		t.Fatalf("expected shared key, got %+v and %+v", k1, k2)
	}

	r.insertShadow(spy, k1, 101)
	r.insertShadow(spy, k2, 102)
	if got := r.Stats().ShadowBitmaps; got != 1 {
		t.Errorf("expected 1 cached shadow raster, got %d", got)
	}
	// The duplicate insert released the incoming bitmap.
	if len(spy.releasedBitmaps) != 1 || spy.releasedBitmaps[0] != 102 {
		t.Errorf("expected bitmap 102 released, got %v", spy.releasedBitmaps)
	}
	if bm, ok := r.lookupShadow(k1); !ok || bm != 101 {
		t.Errorf("expected original bitmap 101 kept, got %d", bm)
	}
}

func TestShadowCacheEvictsOldestFirst(t *testing.T) {
	spy := newSpyDevice()
	r := newResources()
	c := blitz2d.RGB(0, 0, 0)

	keyAt := func(i int) ShadowKey {
		return makeShadowKey(float64(i+1), 10, 0, 1, c)
	}

	for i := 0; i < maxShadowBitmaps; i++ {
		r.insertShadow(spy, keyAt(i), BitmapID(i+1))
	}
	if got := r.Stats().ShadowBitmaps; got != maxShadowBitmaps {
		t.Fatalf("expected %d entries, got %d", maxShadowBitmaps, got)
	}

	// Touch the first key so LRU would keep it; FIFO must not.
	if _, ok := r.lookupShadow(keyAt(0)); !ok {
		t.Fatal("first key missing before eviction")
	}

	r.insertShadow(spy, keyAt(maxShadowBitmaps), BitmapID(maxShadowBitmaps+1))

	if _, ok := r.lookupShadow(keyAt(0)); ok {
		t.Error("expected the first-inserted key evicted")
	}
	if _, ok := r.lookupShadow(keyAt(1)); !ok {
		t.Error("expected the second-inserted key retained")
	}
	if len(spy.releasedBitmaps) != 1 || spy.releasedBitmaps[0] != 1 {
		t.Errorf("expected bitmap 1 released on eviction, got %v", spy.releasedBitmaps)
	}
}

func TestCacheStatsCounters(t *testing.T) {
	spy := newSpyDevice()
	r := newResources()

	if _, _, err := r.resolveBrush(spy, testGradient()); err != nil {
		t.Fatalf("resolveBrush failed: %v", err)
	}
	if _, _, err := r.resolveBrush(spy, testGradient()); err != nil {
		t.Fatalf("resolveBrush failed: %v", err)
	}

	key := makeShadowKey(10, 10, 0, 1, blitz2d.Black)
	if _, ok := r.lookupShadow(key); ok {
		t.Fatal("unexpected shadow entry")
	}
	r.insertShadow(spy, key, 1)
	if _, ok := r.lookupShadow(key); !ok {
		t.Fatal("expected shadow entry after insert")
	}

	stats := r.Stats()
	if stats.Hits != 2 || stats.Misses != 2 {
		t.Errorf("hits/misses = %d/%d, want 2/2", stats.Hits, stats.Misses)
	}
	if stats.Evictions != 0 {
		t.Errorf("evictions = %d, want 0", stats.Evictions)
	}

	// Counters accumulate across a purge; occupancy resets.
	r.Purge(spy)
	stats = r.Stats()
	if stats.Hits != 2 || stats.Misses != 2 {
		t.Errorf("hits/misses after purge = %d/%d, want 2/2", stats.Hits, stats.Misses)
	}
	if stats.GradientBrushes != 0 || stats.ShadowBitmaps != 0 {
		t.Error("expected occupancy reset after purge")
	}
}

func TestShadowEvictionCounted(t *testing.T) {
	spy := newSpyDevice()
	r := newResources()
	for i := 0; i <= maxShadowBitmaps; i++ {
		key := makeShadowKey(float64(i+1), 10, 0, 1, blitz2d.Black)
		r.insertShadow(spy, key, BitmapID(i+1))
	}
	if got := r.Stats().Evictions; got != 1 {
		t.Errorf("evictions = %d, want 1", got)
	}
}

func TestPurgeReleasesEverything(t *testing.T) {
	spy := newSpyDevice()
	r := newResources()

	if _, _, err := r.resolveBrush(spy, testGradient()); err != nil {
		t.Fatalf("resolveBrush failed: %v", err)
	}
	img := scene.ImageBrush{Width: 2, Height: 2, Pix: make([]byte, 16)}
	if _, _, err := r.resolveBrush(spy, img); err != nil {
		t.Fatalf("resolveBrush failed: %v", err)
	}
	r.insertShadow(spy, makeShadowKey(10, 10, 0, 1, blitz2d.Black), 99)

	r.Purge(spy)

	stats := r.Stats()
	if stats.GradientBrushes != 0 || stats.ImageBrushes != 0 || stats.ShadowBitmaps != 0 {
		t.Errorf("expected empty caches after purge, got %+v", stats)
	}
	if len(spy.releasedBrushes) != 2 {
		t.Errorf("expected 2 brushes released, got %d", len(spy.releasedBrushes))
	}
	if len(spy.releasedBitmaps) != 1 {
		t.Errorf("expected 1 bitmap released, got %d", len(spy.releasedBitmaps))
	}

	// Caches repopulate after a purge.
	if _, _, err := r.resolveBrush(spy, testGradient()); err != nil {
		t.Fatalf("resolveBrush after purge failed: %v", err)
	}
	if spy.gradientCreates != 2 {
		t.Errorf("expected gradient recreated after purge, got %d creations", spy.gradientCreates)
	}
}

func TestQuantizeHundredths(t *testing.T) {
	tests := []struct {
		in   float64
		want uint16
	}{
		{0, 0},
		{4, 400},
		{6.004, 600},
		{-1, 0},
		{655.01, 65500},
		{100000, 65500},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%g", tt.in), func(t *testing.T) {
			if got := quantizeHundredths(tt.in); got != tt.want {
				t.Errorf("quantizeHundredths(%g) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}
