package memewall

import "math/rand/v2"

// PositionRecord is the occupied square of one element. It is owned by that
// element and lives in the allocator registry while the element is on screen.
type PositionRecord struct {
	X, Y, Size float64
}

// Rect returns the record's bounding box.
func (r *PositionRecord) Rect() Rect {
	return Square(r.X, r.Y, r.Size)
}

// PlacementTier reports which rung of the fallback ladder produced a position.
type PlacementTier uint8

const (
	TierRandom PlacementTier = iota // collision-free random draw
	TierEdge                        // edge zone, collisions not re-checked
	TierCorner                      // extreme corner of a tiny viewport
)

// AllocatorConfig tunes placement.
type AllocatorConfig struct {
	Attempts   int        // random draws before falling back
	EdgeMargin float64    // keep random draws this far from the window edge
	Buffer     float64    // minimum gap between elements
	Zone       ZonePolicy // protected content zone
}

// Allocator finds placements for new elements and owns the registry of
// occupied positions.
type Allocator struct {
	cfg      AllocatorConfig
	vp       Viewport
	rng      *rand.Rand
	records  []*PositionRecord
	lastTier PlacementTier
}

// NewAllocator creates an allocator for the given viewport.
func NewAllocator(cfg AllocatorConfig, vp Viewport, rng *rand.Rand) *Allocator {
	if cfg.Attempts <= 0 {
		cfg.Attempts = 1
	}
	return &Allocator{cfg: cfg, vp: vp, rng: rng}
}

// SetViewport changes the area used by later placements. Existing records
// are left alone.
func (a *Allocator) SetViewport(vp Viewport) {
	a.vp = vp
}

// Viewport returns the current placement area.
func (a *Allocator) Viewport() Viewport {
	return a.vp
}

// Records returns the registered positions. The returned slice MUST NOT be mutated.
func (a *Allocator) Records() []*PositionRecord {
	return a.records
}

// Len returns the number of registered positions.
func (a *Allocator) Len() int {
	return len(a.records)
}

// LastTier reports which fallback tier the most recent placement used.
func (a *Allocator) LastTier() PlacementTier {
	return a.lastTier
}

// FindSafePosition places a size×size element and registers the result.
// It always returns a position inside the viewport (clamped to the origin
// when the element is larger than the viewport). Only the random tier
// guarantees no collisions; the edge and corner tiers accept overlap.
func (a *Allocator) FindSafePosition(size float64) *PositionRecord {
	rec := a.place(size)
	rec.X = clamp(rec.X, 0, max(0, a.vp.Width-size))
	rec.Y = clamp(rec.Y, 0, max(0, a.vp.Height-size))
	a.records = append(a.records, rec)
	return rec
}

func (a *Allocator) place(size float64) *PositionRecord {
	m := a.cfg.EdgeMargin
	xs := Range{Min: m, Max: a.vp.Width - size - m}
	ys := Range{Min: m, Max: a.vp.Height - size - m}

	for range a.cfg.Attempts {
		x, y := xs.Random(a.rng), ys.Random(a.rng)
		if IntersectsContentZone(x, y, size, a.vp, a.cfg.Zone) {
			continue
		}
		if a.collides(Square(x, y, size)) {
			continue
		}
		a.lastTier = TierRandom
		return &PositionRecord{X: x, Y: y, Size: size}
	}

	if zones := a.edgeZones(size); len(zones) > 0 {
		z := zones[a.rng.IntN(len(zones))]
		x := Range{Min: z.X, Max: z.X + z.Width - size}.Random(a.rng)
		y := Range{Min: z.Y, Max: z.Y + z.Height - size}.Random(a.rng)
		a.lastTier = TierEdge
		return &PositionRecord{X: x, Y: y, Size: size}
	}

	corners := [4]Vec2{
		{X: m, Y: m},
		{X: a.vp.Width - size - m, Y: m},
		{X: m, Y: a.vp.Height - size - m},
		{X: a.vp.Width - size - m, Y: a.vp.Height - size - m},
	}
	c := corners[a.rng.IntN(len(corners))]
	a.lastTier = TierCorner
	return &PositionRecord{X: c.X, Y: c.Y, Size: size}
}

func (a *Allocator) collides(r Rect) bool {
	for _, rec := range a.records {
		if Overlaps(r, rec.Rect(), a.cfg.Buffer) {
			return true
		}
	}
	return false
}

// edgeZones returns the edge-hugging regions a size×size element fits in:
// four corner blocks and the left and right strips between them.
func (a *Allocator) edgeZones(size float64) []Rect {
	w, h := a.vp.Width, a.vp.Height
	cw, ch := w*0.25, h*0.25
	sw := w * 0.15
	all := [6]Rect{
		{X: 0, Y: 0, Width: cw, Height: ch},
		{X: w - cw, Y: 0, Width: cw, Height: ch},
		{X: 0, Y: h - ch, Width: cw, Height: ch},
		{X: w - cw, Y: h - ch, Width: cw, Height: ch},
		{X: 0, Y: ch, Width: sw, Height: h - 2*ch},
		{X: w - sw, Y: ch, Width: sw, Height: h - 2*ch},
	}
	zones := make([]Rect, 0, len(all))
	for _, z := range all {
		if z.Width >= size && z.Height >= size {
			zones = append(zones, z)
		}
	}
	return zones
}

// Release removes rec from the registry. Unknown records are ignored.
func (a *Allocator) Release(rec *PositionRecord) {
	for i, r := range a.records {
		if r == rec {
			copy(a.records[i:], a.records[i+1:])
			a.records[len(a.records)-1] = nil
			a.records = a.records[:len(a.records)-1]
			return
		}
	}
}

// Reset drops every registered position.
func (a *Allocator) Reset() {
	clear(a.records)
	a.records = a.records[:0]
}
