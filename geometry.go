package memewall

// ZoneFractions describes a rectangle as fractions of the viewport.
type ZoneFractions struct {
	Left   float64 `yaml:"left"`
	Right  float64 `yaml:"right"`
	Top    float64 `yaml:"top"`
	Bottom float64 `yaml:"bottom"`
}

// ZonePolicy decides where the protected content zone sits for a viewport.
// Viewports narrower than MobileBreakpoint use the Mobile fractions.
type ZonePolicy struct {
	MobileBreakpoint float64       `yaml:"mobile_breakpoint"`
	Mobile           ZoneFractions `yaml:"mobile"`
	Desktop          ZoneFractions `yaml:"desktop"`
}

// DefaultZonePolicy keeps the hero column clear: nearly full width on
// phones, a central band on wider screens.
func DefaultZonePolicy() ZonePolicy {
	return ZonePolicy{
		MobileBreakpoint: 768,
		Mobile:           ZoneFractions{Left: 0.05, Right: 0.95, Top: 0.15, Bottom: 0.85},
		Desktop:          ZoneFractions{Left: 0.20, Right: 0.80, Top: 0.10, Bottom: 0.90},
	}
}

// ContentZone returns the protected rectangle for the viewport.
func ContentZone(vp Viewport, policy ZonePolicy) Rect {
	f := policy.Desktop
	if vp.Width < policy.MobileBreakpoint {
		f = policy.Mobile
	}
	return Rect{
		X:      vp.Width * f.Left,
		Y:      vp.Height * f.Top,
		Width:  vp.Width * (f.Right - f.Left),
		Height: vp.Height * (f.Bottom - f.Top),
	}
}

// IntersectsContentZone reports whether a size×size element at (x, y) would
// cover any part of the protected content zone.
func IntersectsContentZone(x, y, size float64, vp Viewport, policy ZonePolicy) bool {
	return Square(x, y, size).Intersects(ContentZone(vp, policy))
}

// Overlaps reports whether a and b, each grown by buffer/2 on every side,
// intersect on both axes. Equivalently, the gap between them is less than
// buffer on both axes.
func Overlaps(a, b Rect, buffer float64) bool {
	half := buffer / 2
	return a.Expand(half).Intersects(b.Expand(half))
}

// SeparationVector returns the smallest translation that moves b clear of a's
// buffered box, along the axis of least penetration. The zero vector means
// the boxes already clear each other.
func SeparationVector(a, b Rect, buffer float64) Vec2 {
	half := buffer / 2
	ea, eb := a.Expand(half), b.Expand(half)
	if !ea.Intersects(eb) {
		return Vec2{}
	}

	overlapX := min(ea.X+ea.Width, eb.X+eb.Width) - max(ea.X, eb.X)
	overlapY := min(ea.Y+ea.Height, eb.Y+eb.Height) - max(ea.Y, eb.Y)
	ca, cb := a.Center(), b.Center()

	if overlapX <= overlapY {
		if cb.X < ca.X {
			return Vec2{X: -overlapX}
		}
		return Vec2{X: overlapX}
	}
	if cb.Y < ca.Y {
		return Vec2{Y: -overlapY}
	}
	return Vec2{Y: overlapY}
}

// gap returns the larger of the horizontal and vertical distances between
// two rects; negative values mean the rects interpenetrate on both axes.
func gap(a, b Rect) float64 {
	dx := max(b.X-(a.X+a.Width), a.X-(b.X+b.Width))
	dy := max(b.Y-(a.Y+a.Height), a.Y-(b.Y+b.Height))
	return max(dx, dy)
}
