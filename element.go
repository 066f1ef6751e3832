package memewall

import (
	"math/rand/v2"
	"time"
)

// SizeClass is the coarse size bucket of a background element.
type SizeClass uint8

const (
	SizeSmall SizeClass = iota
	SizeMedium
	SizeLarge
)

// String returns the class name used in element tags.
func (c SizeClass) String() string {
	switch c {
	case SizeSmall:
		return "small"
	case SizeMedium:
		return "medium"
	case SizeLarge:
		return "large"
	default:
		return "unknown"
	}
}

// SizeBreakpoint maps size classes to pixels for viewports narrower than
// MaxWidth. A MaxWidth of zero matches any width.
type SizeBreakpoint struct {
	MaxWidth float64 `yaml:"max_width"`
	Small    float64 `yaml:"small"`
	Medium   float64 `yaml:"medium"`
	Large    float64 `yaml:"large"`
}

// SizeTable resolves size classes to pixel dimensions.
type SizeTable struct {
	Breakpoints []SizeBreakpoint `yaml:"breakpoints"`
	// Weights are the relative odds of small, medium and large.
	Weights [3]float64 `yaml:"weights"`
}

// DefaultSizeTable returns phone, tablet and desktop sizes with small and
// medium favored over large.
func DefaultSizeTable() SizeTable {
	return SizeTable{
		Breakpoints: []SizeBreakpoint{
			{MaxWidth: 768, Small: 60, Medium: 80, Large: 100},
			{MaxWidth: 1200, Small: 80, Medium: 110, Large: 140},
			{MaxWidth: 0, Small: 100, Medium: 140, Large: 180},
		},
		Weights: [3]float64{40, 40, 20},
	}
}

// Pixels returns the element size for class at the given viewport width.
func (t SizeTable) Pixels(class SizeClass, viewportWidth float64) float64 {
	for _, bp := range t.Breakpoints {
		if bp.MaxWidth > 0 && viewportWidth >= bp.MaxWidth {
			continue
		}
		switch class {
		case SizeSmall:
			return bp.Small
		case SizeMedium:
			return bp.Medium
		default:
			return bp.Large
		}
	}
	return 0
}

// Pick draws a size class using the table weights. All-zero weights pick small.
func (t SizeTable) Pick(rng *rand.Rand) SizeClass {
	total := t.Weights[0] + t.Weights[1] + t.Weights[2]
	if total <= 0 {
		return SizeSmall
	}
	v := rng.Float64() * total
	for i, w := range t.Weights {
		if v < w {
			return SizeClass(i)
		}
		v -= w
	}
	return SizeLarge
}

// Element tags shared with renderers. They name the visual states a
// presentation layer animates.
const (
	TagBackground = "random-nft-bg"
	TagFadeIn     = "fade-in"
	TagFadeOut    = "fade-out"
	TagFloating   = "floating"
)

// Element is one decorative image on the wall.
type Element struct {
	ID      string
	Image   string
	Class   SizeClass
	Size    float64
	Record  *PositionRecord
	Created time.Time

	// UserData belongs to the renderer, which may hang its node here.
	UserData any

	gen     uint64
	fading  bool
	removed bool
	timers  []*Timer
}

// X returns the element's left edge.
func (e *Element) X() float64 { return e.Record.X }

// Y returns the element's top edge.
func (e *Element) Y() float64 { return e.Record.Y }

// Rect returns the element's bounding box.
func (e *Element) Rect() Rect { return e.Record.Rect() }

// Fading reports whether the element has started its fade-out.
func (e *Element) Fading() bool { return e.fading }

// Removed reports whether the element has left the wall.
func (e *Element) Removed() bool { return e.removed }

// Tags returns the element's current presentation tags.
func (e *Element) Tags() []string {
	tags := []string{TagBackground, "size-" + e.Class.String()}
	if e.fading {
		return append(tags, TagFadeOut)
	}
	return append(tags, TagFadeIn, TagFloating)
}

// track remembers a timer so it can be cancelled when the element goes away.
func (e *Element) track(t *Timer) {
	live := e.timers[:0]
	for _, old := range e.timers {
		if old.Active() {
			live = append(live, old)
		}
	}
	e.timers = append(live, t)
}

func (e *Element) cancelTimers() {
	for _, t := range e.timers {
		t.Cancel()
	}
	e.timers = nil
}
