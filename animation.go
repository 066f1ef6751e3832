package memewall

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields on a Node simultaneously.
// Create one with TweenPosition, TweenScale, TweenAlpha or TweenColor and
// either call Update(dt) yourself or hand it to Scene.AddTween. The group
// writes values and marks the node dirty each step; it stops as soon as its
// target is disposed.
type TweenGroup struct {
	tweens [4]*gween.Tween
	from   [4]float32
	to     [4]float32
	count  int
	fields [4]*float64
	target *Node

	duration float32
	fn       ease.TweenFunc
	yoyo     bool
	forward  bool

	// OnDone runs once when the group finishes on its own. It does not run
	// when the target is disposed or the group is stopped.
	OnDone func()
	Done   bool
}

func newTweenGroup(node *Node, duration float32, fn ease.TweenFunc, fields []*float64, to []float64) *TweenGroup {
	g := &TweenGroup{count: len(fields), target: node, duration: duration, fn: fn, forward: true}
	for i, f := range fields {
		g.fields[i] = f
		g.from[i] = float32(*f)
		g.to[i] = float32(to[i])
		g.tweens[i] = gween.New(g.from[i], g.to[i], duration, fn)
	}
	return g
}

// Update advances all tweens by dt seconds and writes the values to the
// target fields.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	if g.target != nil {
		g.target.MarkDirty()
	}
	if !allDone {
		return
	}
	if g.yoyo {
		g.forward = !g.forward
		for i := 0; i < g.count; i++ {
			from, to := g.from[i], g.to[i]
			if !g.forward {
				from, to = to, from
			}
			g.tweens[i] = gween.New(from, to, g.duration, g.fn)
		}
		return
	}
	g.Done = true
	if g.OnDone != nil {
		g.OnDone()
	}
}

// Yoyo makes the group run back and forth forever. It returns g.
func (g *TweenGroup) Yoyo() *TweenGroup {
	g.yoyo = true
	return g
}

// Stop ends the group without running OnDone.
func (g *TweenGroup) Stop() {
	g.Done = true
}

// TweenPosition animates node.X and node.Y.
func TweenPosition(node *Node, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn, []*float64{&node.X, &node.Y}, []float64{toX, toY})
}

// TweenScale animates node.ScaleX and node.ScaleY.
func TweenScale(node *Node, toSX, toSY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn, []*float64{&node.ScaleX, &node.ScaleY}, []float64{toSX, toSY})
}

// TweenAlpha animates node.Alpha.
func TweenAlpha(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn, []*float64{&node.Alpha}, []float64{to})
}

// TweenColor animates all four components of node.Color.
func TweenColor(node *Node, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	c := &node.Color
	return newTweenGroup(node, duration, fn,
		[]*float64{&c.R, &c.G, &c.B, &c.A},
		[]float64{to.R, to.G, to.B, to.A})
}
