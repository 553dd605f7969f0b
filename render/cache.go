package render

import (
	"encoding/binary"
	"hash/fnv"
	"math"

	"github.com/nerocui/blitz2d"
	"github.com/nerocui/blitz2d/scene"
)

// maxShadowBitmaps caps the shadow bitmap cache. Eviction is FIFO by
// insertion order, not LRU: shadow shapes in a document are stable
// enough that recency tracking is not worth the bookkeeping.
const maxShadowBitmaps = 64

// CacheStats reports resource cache occupancy and lifetime hit/miss
// counters for diagnostics. Counters survive Purge.
type CacheStats struct {
	GradientBrushes int
	ImageBrushes    int
	ShadowBitmaps   int

	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Resources caches device brushes and shadow bitmaps across frames.
//
// Solid brushes are deliberately NOT cached: they are cheap to create
// and a draw-scoped lifetime keeps the device table small. Gradient
// and image brushes are cached by content hash and retained until the
// device is replaced.
//
// The hashes are weak on purpose. A gradient key covers kind and
// stops but not geometry, so two gradients differing only in
// start/end points share a brush; an image key covers dimensions,
// alpha mode and the first sixteen pixel bytes only. Both trades
// favor hashing cost over exactness, matching how scenes actually
// reuse brushes.
type Resources struct {
	gradients map[uint64]BrushID
	images    map[uint64]BrushID

	shadows     map[ShadowKey]BitmapID
	shadowOrder []ShadowKey

	hits      uint64
	misses    uint64
	evictions uint64
}

// newResources creates empty caches.
func newResources() *Resources {
	return &Resources{
		gradients: make(map[uint64]BrushID),
		images:    make(map[uint64]BrushID),
		shadows:   make(map[ShadowKey]BitmapID),
	}
}

// Stats returns current cache occupancy.
func (r *Resources) Stats() CacheStats {
	return CacheStats{
		GradientBrushes: len(r.gradients),
		ImageBrushes:    len(r.images),
		ShadowBitmaps:   len(r.shadows),
		Hits:            r.hits,
		Misses:          r.misses,
		Evictions:       r.evictions,
	}
}

// resolveBrush returns a device brush for b. cached reports whether
// the id is owned by the cache; callers must release non-cached
// (solid) brushes after the draw call they were resolved for.
func (r *Resources) resolveBrush(device GraphicsDevice, b scene.Brush) (id BrushID, cached bool, err error) {
	switch br := b.(type) {
	case scene.SolidBrush:
		id, err = device.CreateSolidBrush(br.Color)
		return id, false, err

	case scene.GradientBrush:
		key := hashGradient(br)
		if id, ok := r.gradients[key]; ok {
			r.hits++
			return id, true, nil
		}
		r.misses++
		id, err = device.CreateGradientBrush(flattenSweep(br))
		if err != nil {
			return 0, false, err
		}
		r.gradients[key] = id
		return id, true, nil

	case scene.ImageBrush:
		key := hashImage(br)
		if id, ok := r.images[key]; ok {
			r.hits++
			return id, true, nil
		}
		r.misses++
		id, err = device.CreateImageBrush(br)
		if err != nil {
			return 0, false, err
		}
		r.images[key] = id
		return id, true, nil
	}
	// Unreachable while Brush stays sealed.
	id, err = device.CreateSolidBrush(blitz2d.Black)
	return id, false, err
}

// flattenSweep rewrites a sweep gradient as a linear gradient across
// the sweep circle's horizontal diameter. Sweep gradients are rare in
// document content and most 2D device APIs lack them; the linear
// stand-in keeps the stop colors visible instead of dropping the fill.
func flattenSweep(g scene.GradientBrush) scene.GradientBrush {
	if g.Kind != scene.GradientSweep {
		return g
	}
	out := g
	out.Kind = scene.GradientLinear
	out.Start = blitz2d.Pt(g.Center.X-g.Radius, g.Center.Y)
	out.End = blitz2d.Pt(g.Center.X+g.Radius, g.Center.Y)
	return out
}

// hashGradient hashes kind and stops with FNV-1a. Gradient geometry
// is intentionally excluded from the key.
func hashGradient(g scene.GradientBrush) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	buf[0] = byte(g.Kind)
	_, _ = h.Write(buf[:1])
	for _, s := range g.Stops {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(s.Offset))
		_, _ = h.Write(buf[:])
		binary.LittleEndian.PutUint32(buf[:4], s.Color.Packed())
		_, _ = h.Write(buf[:4])
	}
	return h.Sum64()
}

// hashImage hashes dimensions, alpha mode and the first sixteen pixel
// bytes with FNV-1a.
func hashImage(img scene.ImageBrush) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[:4], uint32(img.Width))
	binary.LittleEndian.PutUint32(buf[4:], uint32(img.Height))
	_, _ = h.Write(buf[:])
	if img.HasAlpha {
		buf[0] = 1
	} else {
		buf[0] = 0
	}
	_, _ = h.Write(buf[:1])
	n := len(img.Pix)
	if n > 16 {
		n = 16
	}
	_, _ = h.Write(img.Pix[:n])
	return h.Sum64()
}

// ShadowKey identifies a cached outset shadow raster. Dimensions are
// rounded to whole pixels and radius/blur are quantized to hundredths
// so that sub-pixel jitter from layout does not defeat the cache.
type ShadowKey struct {
	Width, Height int
	Radius        uint16 // corner radius, hundredths of a pixel
	StdDev        uint16 // blur standard deviation, hundredths
	Color         uint32 // packed RGBA
}

// makeShadowKey quantizes shadow parameters into a cache key.
func makeShadowKey(width, height, radius, stdDev float64, c blitz2d.RGBA) ShadowKey {
	return ShadowKey{
		Width:  int(math.Round(width)),
		Height: int(math.Round(height)),
		Radius: quantizeHundredths(radius),
		StdDev: quantizeHundredths(stdDev),
		Color:  c.Packed(),
	}
}

// quantizeHundredths converts v to hundredths, clamped to [0, 65500]
// so the quantized value always fits a uint16.
func quantizeHundredths(v float64) uint16 {
	q := math.Round(v * 100)
	if q < 0 {
		q = 0
	} else if q > 65500 {
		q = 65500
	}
	return uint16(q)
}

// lookupShadow returns the cached bitmap for key, if any.
func (r *Resources) lookupShadow(key ShadowKey) (BitmapID, bool) {
	bm, ok := r.shadows[key]
	if ok {
		r.hits++
	} else {
		r.misses++
	}
	return bm, ok
}

// insertShadow caches bm under key, evicting the oldest entry when
// the cache is full. If key is already present the incoming bitmap is
// released and the existing entry kept, so callers can insert without
// a preceding lookup.
func (r *Resources) insertShadow(device GraphicsDevice, key ShadowKey, bm BitmapID) {
	if _, ok := r.shadows[key]; ok {
		device.ReleaseBitmap(bm)
		return
	}
	if len(r.shadowOrder) >= maxShadowBitmaps {
		oldest := r.shadowOrder[0]
		r.shadowOrder = r.shadowOrder[1:]
		if old, ok := r.shadows[oldest]; ok {
			device.ReleaseBitmap(old)
			delete(r.shadows, oldest)
		}
		r.evictions++
	}
	r.shadows[key] = bm
	r.shadowOrder = append(r.shadowOrder, key)
}

// Purge releases every cached device resource. Called when the device
// is lost or replaced; subsequent frames repopulate the caches.
func (r *Resources) Purge(device GraphicsDevice) {
	if device != nil {
		for _, id := range r.gradients {
			device.ReleaseBrush(id)
		}
		for _, id := range r.images {
			device.ReleaseBrush(id)
		}
		for _, bm := range r.shadows {
			device.ReleaseBitmap(bm)
		}
	}
	r.gradients = make(map[uint64]BrushID)
	r.images = make(map[uint64]BrushID)
	r.shadows = make(map[ShadowKey]BitmapID)
	r.shadowOrder = r.shadowOrder[:0]
}
