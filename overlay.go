package memewall

import (
	"math"
	"math/rand/v2"

	"github.com/tanema/gween/ease"
)

const overlayFade = 0.5

// LoadingOverlay covers the page at startup, then fades away after a
// random delay.
type LoadingOverlay struct {
	Node     *Node
	backdrop *Node
	spinner  *Node
	label    *Node

	scene  *Scene
	timer  *Timer
	fading bool
	done   bool

	// OnHidden runs once the fade-out finishes.
	OnHidden func()
}

// NewLoadingOverlay adds the overlay to the scene and schedules its
// dismissal after a duration drawn from show.
func NewLoadingOverlay(scene *Scene, sched *Scheduler, vp Viewport, show DurationRange, rng *rand.Rand) *LoadingOverlay {
	o := &LoadingOverlay{scene: scene, Node: NewContainer("loading-overlay")}
	o.Node.ZIndex = 1 << 10
	o.Node.Interactable = true

	o.backdrop = NewRect("backdrop", vp.Width, vp.Height, Color{0.02, 0.02, 0.05, 1})
	// Swallows clicks until dismissed.
	o.backdrop.Interactable = true
	o.Node.AddChild(o.backdrop)

	o.spinner = NewCircle("spinner", 24, Color{1, 0.84, 0.2, 1})
	o.spinner.StrokeWidth = 4
	o.spinner.HitShape = nil
	o.spinner.OnUpdate = func(dt float64) {
		o.spinner.Rotation += dt * 2 * math.Pi
		s := 1 + 0.15*math.Sin(o.spinner.Rotation)
		o.spinner.SetScale(s, s)
	}
	o.Node.AddChild(o.spinner)

	o.label = NewText("loading", "Loading...", DefaultFontFace(18))
	o.label.TextBlock.Align = TextAlignCenter
	o.Node.AddChild(o.label)

	o.Resize(vp)
	scene.Root().AddChild(o.Node)
	o.timer = sched.AfterPriority("overlay", show.Random(rng), PriorityLayout, o.Dismiss)
	return o
}

// Resize stretches the backdrop and recenters the spinner.
func (o *LoadingOverlay) Resize(vp Viewport) {
	o.backdrop.Width, o.backdrop.Height = vp.Width, vp.Height
	o.spinner.SetPosition(vp.Width/2, vp.Height/2-20)
	o.label.SetPosition(vp.Width/2, vp.Height/2+24)
}

// Dismiss starts the fade-out now. Safe to call more than once.
func (o *LoadingOverlay) Dismiss() {
	if o.fading || o.done {
		return
	}
	o.timer.Cancel()
	o.fading = true
	o.backdrop.Interactable = false
	fade := TweenAlpha(o.Node, 0, overlayFade, ease.OutQuad)
	fade.OnDone = func() {
		o.done = true
		o.Node.Dispose()
		if o.OnHidden != nil {
			o.OnHidden()
		}
	}
	o.scene.AddTween(fade)
}

// Visible reports whether the overlay is still on screen, fading included.
func (o *LoadingOverlay) Visible() bool {
	return !o.done
}

// Fading reports whether the fade-out has started.
func (o *LoadingOverlay) Fading() bool {
	return o.fading
}
