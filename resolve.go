package memewall

import "math"

// ResolveOverlaps pushes apart every pair of elements whose buffered boxes
// overlap, each taking half of the separating vector, clamped to the
// viewport. Positions drift as elements float and the viewport changes, so
// this runs on its own timer.
//
// A pair's move is kept only if it lowers the total penetration of the two
// elements against everything else, so a pass never makes the wall worse:
// total penetration strictly drops whenever an element moves, and an
// isolated pair away from the viewport edges ends clear. Crowded clusters
// may need several passes. It returns the number of elements moved.
func (w *Wall) ResolveOverlaps() int {
	buffer := w.cfg.CollisionBuffer
	moved := make(map[*Element]bool)
	worst := 0.0

	for i := 0; i < len(w.elements); i++ {
		a := w.elements[i]
		for j := i + 1; j < len(w.elements); j++ {
			b := w.elements[j]
			v := SeparationVector(a.Rect(), b.Rect(), buffer)
			if v.Len2() == 0 {
				continue
			}
			worst = min(worst, gap(a.Rect(), b.Rect()))

			before := w.penetration(a, b)
			ra, rb := *a.Record, *b.Record
			w.nudge(a, -v.X/2, -v.Y/2)
			w.nudge(b, v.X/2, v.Y/2)
			if w.penetration(a, b) >= before {
				*a.Record, *b.Record = ra, rb
				continue
			}
			moved[a] = true
			moved[b] = true
		}
	}

	for _, el := range w.elements {
		if moved[el] {
			w.renderer.Move(el)
		}
	}
	if len(moved) > 0 {
		w.debugf("resolved overlaps: %d moved, worst gap %.1f", len(moved), worst)
	}
	return len(moved)
}

// penetration sums the depth of every overlap involving a or b, counting
// the pair itself once.
func (w *Wall) penetration(a, b *Element) float64 {
	buffer := w.cfg.CollisionBuffer
	sum := depth(a.Rect(), b.Rect(), buffer)
	for _, el := range w.elements {
		if el == a || el == b {
			continue
		}
		sum += depth(a.Rect(), el.Rect(), buffer)
		sum += depth(b.Rect(), el.Rect(), buffer)
	}
	return sum
}

// depth is how far b must move to clear a's buffered box.
func depth(a, b Rect, buffer float64) float64 {
	v := SeparationVector(a, b, buffer)
	return math.Abs(v.X) + math.Abs(v.Y)
}

func (w *Wall) nudge(el *Element, dx, dy float64) {
	r := el.Record
	r.X = clamp(r.X+dx, 0, max(0, w.vp.Width-r.Size))
	r.Y = clamp(r.Y+dy, 0, max(0, w.vp.Height-r.Size))
}
