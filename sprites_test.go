package memewall

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

var errMissing = errors.New("missing")

// stubLoader hands out image-less sprites, failing the names in fail.
type stubLoader struct {
	fail map[string]bool
}

func (s stubLoader) Image(name string) (*ebiten.Image, error) {
	if s.fail[name] {
		return nil, errMissing
	}
	return nil, nil
}

func newTestElement(id, img string) *Element {
	return &Element{
		ID:     id,
		Image:  img,
		Class:  SizeMedium,
		Size:   80,
		Record: &PositionRecord{X: 10, Y: 20, Size: 80},
	}
}

func stepScene(t *testing.T, s *Scene, d time.Duration) {
	t.Helper()
	for elapsed := time.Duration(0); elapsed < d; elapsed += 100 * time.Millisecond {
		if err := s.Step(0.1); err != nil {
			t.Fatal(err)
		}
	}
}

func TestSceneRendererLifecycle(t *testing.T) {
	s := NewScene()
	s.SetHeadless(true)
	layer := NewContainer("bg")
	s.Root().AddChild(layer)
	r := NewSceneRenderer(s, layer, stubLoader{}, SpriteOptions{
		FadeIn:         time.Second,
		FloatAmplitude: 10,
		FloatPeriod:    4 * time.Second,
	})

	el := newTestElement("el-1", "image00001.png")
	r.Show(el, func(err error) { t.Fatalf("unexpected error: %v", err) })

	if layer.NumChildren() != 1 {
		t.Fatalf("layer children = %d", layer.NumChildren())
	}
	node := layer.Children()[0]
	if node.X != 10 || node.Y != 20 || node.Alpha != 0 {
		t.Errorf("initial node = (%v, %v) alpha %v", node.X, node.Y, node.Alpha)
	}
	for _, tag := range []string{TagBackground, TagFadeIn, TagFloating, "size-medium"} {
		if !node.HasTag(tag) {
			t.Errorf("missing tag %q in %v", tag, node.Tags())
		}
	}

	stepScene(t, s, 1100*time.Millisecond)
	if node.Alpha < 0.99 {
		t.Errorf("alpha after fade-in = %v", node.Alpha)
	}

	el.Record.X, el.Record.Y = 300, 400
	r.Move(el)
	if node.X != 300 || node.Y != 400 {
		t.Errorf("after Move node at (%v, %v)", node.X, node.Y)
	}

	el.fading = true
	r.Hide(el, 2*time.Second)
	if !node.HasTag(TagFadeOut) || node.HasTag(TagFadeIn) {
		t.Errorf("fading tags = %v", node.Tags())
	}
	stepScene(t, s, time.Second)
	if node.Alpha <= 0 || node.Alpha >= 1 {
		t.Errorf("alpha midway through fade-out = %v", node.Alpha)
	}
	stepScene(t, s, 1100*time.Millisecond)
	if node.Alpha > 0.01 {
		t.Errorf("alpha after fade-out = %v", node.Alpha)
	}

	r.Remove(el)
	if layer.NumChildren() != 0 || !node.IsDisposed() || el.UserData != nil {
		t.Error("Remove left the sprite behind")
	}
	stepScene(t, s, 200*time.Millisecond)
	if s.Tweens() != 0 {
		t.Errorf("%d tweens still running after Remove", s.Tweens())
	}
}

func TestSceneRendererReportsLoadFailure(t *testing.T) {
	s := NewScene()
	layer := NewContainer("bg")
	r := NewSceneRenderer(s, layer, stubLoader{fail: map[string]bool{"bad.png": true}}, SpriteOptions{})

	var got error
	el := newTestElement("el-1", "bad.png")
	r.Show(el, func(err error) { got = err })

	if !errors.Is(got, errMissing) {
		t.Errorf("onError got %v", got)
	}
	if layer.NumChildren() != 0 {
		t.Error("failed element still added to layer")
	}
	// Hide and Remove on a failed element are no-ops.
	r.Hide(el, time.Second)
	r.Remove(el)
}

func TestSceneRendererDrivenByWall(t *testing.T) {
	s := NewScene()
	s.SetHeadless(true)
	layer := NewContainer("bg")
	s.Root().AddChild(layer)
	r := NewSceneRenderer(s, layer, stubLoader{}, SpriteOptions{FadeIn: time.Second})

	clock := NewManualClock(epoch)
	w := NewWall(DefaultWallConfig(), Viewport{Width: 1920, Height: 1080}, NewImagePool("image", ".png", 82), r, WallOptions{
		Clock: clock,
		Log:   io.Discard,
	})
	w.Start()
	for range 600 {
		clock.Advance(100 * time.Millisecond)
		w.Update()
		if err := s.Step(0.1); err != nil {
			t.Fatal(err)
		}
		if layer.NumChildren() != w.Live() {
			t.Fatalf("layer has %d sprites, wall has %d elements", layer.NumChildren(), w.Live())
		}
	}
}
