package memewall

import "math"

// Hero is the centered title block with its row of link buttons.
type Hero struct {
	Node    *Node
	Title   *Node
	Tagline *Node
	Buttons []*LinkButton

	policy ZonePolicy
}

// NewHero builds the title, tagline and one button per link.
func NewHero(scene *Scene, cfg HeroConfig, policy ZonePolicy) *Hero {
	h := &Hero{Node: NewContainer("hero"), policy: policy}
	h.Node.Interactable = true

	h.Title = NewText("title", cfg.Title, DefaultFontFace(56))
	h.Title.TextBlock.Align = TextAlignCenter
	h.Node.AddChild(h.Title)

	h.Tagline = NewText("tagline", cfg.Tagline, DefaultFontFace(20))
	h.Tagline.TextBlock.Align = TextAlignCenter
	h.Tagline.TextBlock.Color = Color{0.85, 0.85, 0.9, 1}
	h.Node.AddChild(h.Tagline)

	labels := DefaultFontFace(16)
	for _, link := range cfg.Links {
		b := NewLinkButton(scene, link, 32, labels)
		h.Buttons = append(h.Buttons, b)
		h.Node.AddChild(b.Node)
	}
	return h
}

// Layout centers the hero inside the content zone, shrinking the title on
// narrow viewports.
func (h *Hero) Layout(vp Viewport) {
	zone := ContentZone(vp, h.policy)
	cx := zone.X + zone.Width/2
	h.Node.SetPosition(cx, zone.Y)

	scale := clamp(vp.Width/1280, 0.5, 1)
	h.Title.SetScale(scale, scale)
	h.Tagline.SetScale(scale, scale)

	_, titleH := h.Title.TextBlock.Measure()
	_, tagH := h.Tagline.TextBlock.Measure()
	titleH *= scale
	tagH *= scale

	const gap = 16.0
	radius := 32 * math.Max(scale, 0.75)
	total := titleH + gap + tagH + gap*2 + radius*2
	top := math.Max((zone.Height-total)/2, 0)

	h.Title.SetPosition(0, top)
	h.Tagline.SetPosition(0, top+titleH+gap)

	rowY := top + titleH + gap + tagH + gap*2 + radius
	spacing := radius*2 + 24
	startX := -spacing * float64(len(h.Buttons)-1) / 2
	for i, b := range h.Buttons {
		b.Node.SetPosition(startX+spacing*float64(i), rowY)
		b.Node.SetScale(radius/32, radius/32)
	}
}

// SetEnabled enables or disables every button.
func (h *Hero) SetEnabled(enabled bool) {
	for _, b := range h.Buttons {
		b.SetEnabled(enabled)
	}
}
