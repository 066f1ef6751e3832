package memewall

import (
	"math"
	"testing"
)

func TestOverlaps(t *testing.T) {
	base := Rect{X: 100, Y: 100, Width: 50, Height: 50}
	tests := []struct {
		name   string
		other  Rect
		buffer float64
		want   bool
	}{
		{"identical", base, 0, true},
		{"partial", Rect{X: 120, Y: 120, Width: 50, Height: 50}, 0, true},
		{"touching edge no buffer", Rect{X: 150, Y: 100, Width: 50, Height: 50}, 0, false},
		{"gap smaller than buffer", Rect{X: 160, Y: 100, Width: 50, Height: 50}, 30, true},
		{"gap equal to buffer", Rect{X: 180, Y: 100, Width: 50, Height: 50}, 30, false},
		{"gap larger than buffer", Rect{X: 200, Y: 100, Width: 50, Height: 50}, 30, false},
		{"overlap x only", Rect{X: 110, Y: 300, Width: 50, Height: 50}, 30, false},
		{"overlap y only", Rect{X: 400, Y: 110, Width: 50, Height: 50}, 30, false},
		{"diagonal near", Rect{X: 160, Y: 160, Width: 50, Height: 50}, 30, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(base, tt.other, tt.buffer); got != tt.want {
				t.Errorf("Overlaps(%v, %v, %v) = %v, want %v", base, tt.other, tt.buffer, got, tt.want)
			}
			if got := Overlaps(tt.other, base, tt.buffer); got != tt.want {
				t.Errorf("Overlaps is not symmetric for %v", tt.other)
			}
		})
	}
}

func TestContentZone(t *testing.T) {
	policy := DefaultZonePolicy()

	mobile := ContentZone(Viewport{Width: 400, Height: 800}, policy)
	want := Rect{X: 20, Y: 120, Width: 360, Height: 560}
	if !rectNear(mobile, want) {
		t.Errorf("mobile zone = %v, want %v", mobile, want)
	}

	desktop := ContentZone(Viewport{Width: 1000, Height: 1000}, policy)
	want = Rect{X: 200, Y: 100, Width: 600, Height: 800}
	if !rectNear(desktop, want) {
		t.Errorf("desktop zone = %v, want %v", desktop, want)
	}
}

func TestIntersectsContentZone(t *testing.T) {
	vp := Viewport{Width: 1000, Height: 1000}
	policy := DefaultZonePolicy()
	tests := []struct {
		name    string
		x, y, s float64
		want    bool
	}{
		{"center", 450, 450, 100, true},
		{"left margin", 20, 450, 100, false},
		{"touching zone edge", 100, 450, 100, false},
		{"poking into zone", 120, 450, 100, true},
		{"top band", 450, 0, 100, false},
		{"right margin", 850, 100, 100, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IntersectsContentZone(tt.x, tt.y, tt.s, vp, policy); got != tt.want {
				t.Errorf("IntersectsContentZone(%v, %v, %v) = %v, want %v", tt.x, tt.y, tt.s, got, tt.want)
			}
		})
	}
}

func TestSeparationVector(t *testing.T) {
	a := Rect{X: 100, Y: 100, Width: 100, Height: 100}

	// b overlaps a mostly vertically, shifted a little to the right: the
	// cheapest way out is along x, to the right.
	b := Rect{X: 180, Y: 110, Width: 100, Height: 100}
	v := SeparationVector(a, b, 0)
	if v.Y != 0 || math.Abs(v.X-20) > 1e-9 {
		t.Errorf("SeparationVector = %+v, want {20 0}", v)
	}

	// Mirror: b to the left pushes left.
	b = Rect{X: 20, Y: 110, Width: 100, Height: 100}
	v = SeparationVector(a, b, 0)
	if v.Y != 0 || math.Abs(v.X+20) > 1e-9 {
		t.Errorf("SeparationVector = %+v, want {-20 0}", v)
	}

	// Shallow vertical overlap separates along y.
	b = Rect{X: 110, Y: 190, Width: 100, Height: 100}
	v = SeparationVector(a, b, 0)
	if v.X != 0 || math.Abs(v.Y-10) > 1e-9 {
		t.Errorf("SeparationVector = %+v, want {0 10}", v)
	}

	// Buffer counts toward the overlap.
	b = Rect{X: 210, Y: 100, Width: 100, Height: 100}
	v = SeparationVector(a, b, 30)
	if math.Abs(v.X-20) > 1e-9 {
		t.Errorf("buffered SeparationVector = %+v, want {20 0}", v)
	}

	// Applying the vector clears the buffered overlap.
	moved := Rect{X: b.X + v.X, Y: b.Y + v.Y, Width: b.Width, Height: b.Height}
	if Overlaps(a, moved, 30) {
		t.Errorf("rects still overlap after separation: %v %v", a, moved)
	}

	if v := SeparationVector(a, Rect{X: 500, Y: 500, Width: 10, Height: 10}, 30); v != (Vec2{}) {
		t.Errorf("disjoint SeparationVector = %+v, want zero", v)
	}
}

func TestRectIntersects(t *testing.T) {
	base := Rect{10, 10, 100, 100}
	tests := []struct {
		name   string
		other  Rect
		expect bool
	}{
		{"overlapping", Rect{50, 50, 100, 100}, true},
		{"fully contained", Rect{20, 20, 10, 10}, true},
		{"containing", Rect{0, 0, 200, 200}, true},
		{"adjacent right", Rect{110, 10, 50, 50}, false},
		{"adjacent bottom", Rect{10, 110, 50, 50}, false},
		{"disjoint left", Rect{-100, 10, 50, 50}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Intersects(tt.other); got != tt.expect {
				t.Errorf("Rect%v.Intersects(%v) = %v, want %v", base, tt.other, got, tt.expect)
			}
		})
	}
}

func rectNear(a, b Rect) bool {
	const eps = 1e-9
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps &&
		math.Abs(a.Width-b.Width) < eps && math.Abs(a.Height-b.Height) < eps
}
