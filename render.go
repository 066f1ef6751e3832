package memewall

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// geoM converts an affine [a, b, c, d, tx, ty] matrix to an ebiten.GeoM.
func geoM(m [6]float64) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}

// drawStats counts what one frame drew. Only collected in debug mode.
type drawStats struct {
	visited int
	drawn   int
}

// traverse walks the tree depth-first in ZIndex order, drawing every
// visible node. Invisible nodes hide their subtree; fully transparent
// nodes are skipped but their children still draw.
func (s *Scene) traverse(dst *ebiten.Image, n *Node, stats *drawStats) {
	if !n.Visible {
		return
	}
	stats.visited++
	if n.worldAlpha > 0 && s.drawNode(dst, n) {
		stats.drawn++
	}
	if len(n.children) == 0 {
		return
	}
	for _, child := range n.drawOrder() {
		s.traverse(dst, child, stats)
	}
}

// drawNode issues the draw call for one node. It reports whether anything
// was drawn.
func (s *Scene) drawNode(dst *ebiten.Image, n *Node) bool {
	switch n.Type {
	case NodeTypeSprite:
		return drawSprite(dst, n)
	case NodeTypeText:
		drawText(dst, n)
		return true
	case NodeTypeShape:
		return drawCircle(dst, n)
	}
	return false
}

func drawSprite(dst *ebiten.Image, n *Node) bool {
	if n.Width <= 0 || n.Height <= 0 {
		return false
	}
	img := n.Image
	if img == nil {
		img = WhitePixel()
	}
	b := img.Bounds()

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(n.Width/float64(b.Dx()), n.Height/float64(b.Dy()))
	op.GeoM.Concat(geoM(n.worldTransform))
	op.ColorScale = colorScale(n.Color, n.worldAlpha)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(img, op)
	return true
}

// drawCircle draws a filled or stroked circle. Circles ignore rotation and
// take their radius scale from the world X axis.
func drawCircle(dst *ebiten.Image, n *Node) bool {
	if n.Radius <= 0 {
		return false
	}
	m := n.worldTransform
	cx, cy := m[4], m[5]
	r := n.Radius * m[0]
	c := n.Color
	c.A *= n.worldAlpha
	if n.StrokeWidth > 0 {
		vector.StrokeCircle(dst, float32(cx), float32(cy), float32(r), float32(n.StrokeWidth), c.toRGBA(), true)
	} else {
		vector.DrawFilledCircle(dst, float32(cx), float32(cy), float32(r), c.toRGBA(), true)
	}
	return true
}

func colorScale(c Color, alpha float64) ebiten.ColorScale {
	var cs ebiten.ColorScale
	a := c.A * alpha
	cs.Scale(float32(c.R*a), float32(c.G*a), float32(c.B*a), float32(a))
	return cs
}
