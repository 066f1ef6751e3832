package memewall

import (
	"math/rand/v2"
	"testing"
	"time"
)

func TestLoadingOverlayDismissesWithinRange(t *testing.T) {
	for seed := range uint64(5) {
		s := NewScene()
		s.SetHeadless(true)
		clock := NewManualClock(epoch)
		sched := NewScheduler(clock)
		show := DurationRange{Min: time.Second, Max: 1600 * time.Millisecond}
		o := NewLoadingOverlay(s, sched, Viewport{Width: 800, Height: 600}, show, rand.New(rand.NewPCG(seed, seed)))

		hidden := 0
		o.OnHidden = func() { hidden++ }

		clock.Advance(999 * time.Millisecond)
		sched.Run()
		if o.Fading() {
			t.Fatalf("seed %d: overlay fading before the minimum", seed)
		}
		clock.Advance(601 * time.Millisecond)
		sched.Run()
		if !o.Fading() {
			t.Fatalf("seed %d: overlay still up after the maximum", seed)
		}
		if !o.Visible() {
			t.Fatalf("seed %d: overlay gone before its fade", seed)
		}

		stepScene(t, s, 600*time.Millisecond)
		if o.Visible() || !o.Node.IsDisposed() || hidden != 1 {
			t.Errorf("seed %d: visible=%v disposed=%v hidden=%d", seed, o.Visible(), o.Node.IsDisposed(), hidden)
		}
	}
}

func TestLoadingOverlayBlocksBackgroundClicks(t *testing.T) {
	s := NewScene()
	s.SetHeadless(true)
	sched := NewScheduler(NewManualClock(epoch))
	show := DurationRange{Min: time.Second, Max: time.Second}
	o := NewLoadingOverlay(s, sched, Viewport{Width: 800, Height: 600}, show, rand.New(rand.NewPCG(1, 1)))

	var background int
	s.OnClick(func(ctx ClickContext) {
		if ctx.Node == nil {
			background++
		}
	})

	clickAt(t, s, 10, 10)
	if background != 0 {
		t.Error("click reached the background through the overlay")
	}

	o.Dismiss()
	o.Dismiss()
	clickAt(t, s, 10, 10)
	if background != 1 {
		t.Errorf("background clicks after dismiss = %d, want 1", background)
	}
}

func TestLoadingOverlayResize(t *testing.T) {
	s := NewScene()
	sched := NewScheduler(NewManualClock(epoch))
	o := NewLoadingOverlay(s, sched, Viewport{Width: 800, Height: 600}, DurationRange{}, rand.New(rand.NewPCG(1, 1)))
	o.Resize(Viewport{Width: 1920, Height: 1080})
	if o.backdrop.Width != 1920 || o.backdrop.Height != 1080 {
		t.Errorf("backdrop = %vx%v", o.backdrop.Width, o.backdrop.Height)
	}
	if o.spinner.X != 960 {
		t.Errorf("spinner x = %v, want 960", o.spinner.X)
	}
}
