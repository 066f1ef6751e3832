package memewall

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/tanema/gween/ease"
)

const (
	rippleScale    = 1.8
	rippleDuration = 0.6
)

var (
	buttonFill   = Color{0.08, 0.08, 0.12, 0.85}
	buttonRing   = Color{1, 0.84, 0.2, 1}
	buttonHover  = Color{0.2, 0.18, 0.3, 0.95}
	rippleColor  = Color{1, 1, 1, 0.8}
	labelOnHover = Color{1, 0.84, 0.2, 1}
)

// LinkButton is a circular hero link. While hovered it plays its GIF; a
// click copies the URL, plays a ripple and calls OnActivate. It ignores the
// pointer until SetEnabled(true).
type LinkButton struct {
	Node *Node

	cfg    LinkConfig
	scene  *Scene
	radius float64
	ring   *Node
	label  *Node
	face   *Node
	anim   *Animation

	enabled  bool
	hovering bool
	elapsed  time.Duration
	ripples  int

	// Copy writes the URL somewhere the user can paste it. Defaults to the
	// system clipboard.
	Copy func(text string) error
	// OnActivate runs after a click on an enabled button.
	OnActivate func(url string)
	Log        io.Writer
}

// NewLinkButton creates a button of the given radius. font may be nil.
func NewLinkButton(scene *Scene, cfg LinkConfig, radius float64, font *FontFace) *LinkButton {
	b := &LinkButton{
		cfg:    cfg,
		scene:  scene,
		radius: radius,
		Copy:   clipboard.WriteAll,
		Log:    os.Stderr,
	}

	b.Node = NewCircle("link-"+cfg.Label, radius, buttonFill)
	b.Node.Interactable = true
	b.Node.UserData = cfg.URL

	b.ring = NewCircle("ring", radius, buttonRing)
	b.ring.StrokeWidth = 2
	b.ring.HitShape = nil
	b.Node.AddChild(b.ring)

	b.face = NewSprite("hover", nil)
	b.face.Visible = false
	b.Node.AddChild(b.face)

	b.label = NewText("label", cfg.Label, font)
	b.label.TextBlock.Align = TextAlignCenter
	if font != nil {
		b.label.Y = -font.LineHeight() / 2
	}
	b.Node.AddChild(b.label)

	b.Node.OnPointerEnter = func(PointerContext) { b.setHover(true) }
	b.Node.OnPointerLeave = func(PointerContext) { b.setHover(false) }
	b.Node.OnClick = func(ClickContext) { b.Activate() }
	b.Node.OnUpdate = b.update
	return b
}

// URL returns the link target.
func (b *LinkButton) URL() string {
	return b.cfg.URL
}

// SetAnimation attaches the hover GIF. Frames are drawn inside the circle.
func (b *LinkButton) SetAnimation(anim *Animation) {
	b.anim = anim
	if anim == nil || anim.Len() == 0 {
		b.face.Image = nil
		return
	}
	size := b.radius * 2 * 0.7
	b.face.Image = anim.Frames[0]
	b.face.Width, b.face.Height = size, size
	b.face.SetPosition(-size/2, -size/2)
}

// SetEnabled turns pointer handling on or off.
func (b *LinkButton) SetEnabled(enabled bool) {
	b.enabled = enabled
	if !enabled {
		b.setHover(false)
	}
}

// Enabled reports whether the button reacts to the pointer.
func (b *LinkButton) Enabled() bool {
	return b.enabled
}

// Hovering reports whether the hover state is active.
func (b *LinkButton) Hovering() bool {
	return b.hovering
}

func (b *LinkButton) setHover(on bool) {
	if on && !b.enabled {
		return
	}
	b.hovering = on
	b.elapsed = 0
	b.Node.Color = buttonFill
	b.label.TextBlock.Color = ColorWhite
	b.label.Visible = true
	b.face.Visible = false
	if !on {
		return
	}
	b.Node.Color = buttonHover
	b.label.TextBlock.Color = labelOnHover
	if b.anim != nil && b.anim.Len() > 0 {
		b.face.Visible = true
		b.label.Visible = false
	}
}

func (b *LinkButton) update(dt float64) {
	if !b.hovering || b.anim == nil {
		return
	}
	b.elapsed += time.Duration(dt * float64(time.Second))
	b.face.Image = b.anim.FrameAt(b.elapsed)
}

// Activate runs the click behavior. It is a no-op while disabled.
func (b *LinkButton) Activate() {
	if !b.enabled {
		return
	}
	b.ripple()
	if b.Copy != nil {
		if err := b.Copy(b.cfg.URL); err != nil {
			_, _ = fmt.Fprintf(b.Log, "[memewall] copy %s: %v\n", b.cfg.URL, err)
		}
	}
	if b.OnActivate != nil {
		b.OnActivate(b.cfg.URL)
	}
}

// ripple grows a fading ring out of the button.
func (b *LinkButton) ripple() {
	ring := NewCircle("ripple", b.radius, rippleColor)
	ring.StrokeWidth = 3
	ring.HitShape = nil
	ring.ZIndex = -1
	b.Node.AddChild(ring)
	b.ripples++

	b.scene.AddTween(TweenScale(ring, rippleScale, rippleScale, rippleDuration, ease.OutCubic))
	fade := TweenAlpha(ring, 0, rippleDuration, ease.OutQuad)
	fade.OnDone = func() {
		ring.Dispose()
		b.ripples--
	}
	b.scene.AddTween(fade)
}

// Ripples returns the number of ripples still animating.
func (b *LinkButton) Ripples() int {
	return b.ripples
}
