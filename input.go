package memewall

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Pointer 0 is the mouse; pointer 1 is the first active touch.
const maxPointers = 2

// HitRect is an axis-aligned rectangular hit area in local coordinates.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r HitRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// HitCircle is a circular hit area in local coordinates.
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c HitCircle) Contains(x, y float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

type pointerState struct {
	down      bool
	lastX     float64
	lastY     float64
	hitNode   *Node
	hoverNode *Node
	button    MouseButton
}

type pointerHandler struct {
	id uint32
	fn func(PointerContext)
}

type clickHandler struct {
	id uint32
	fn func(ClickContext)
}

type handlerRegistry struct {
	pointerDown []pointerHandler
	click       []clickHandler
	nextID      uint32
}

// CallbackHandle allows removing a registered scene-level callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case EventPointerDown:
		for i, ph := range h.reg.pointerDown {
			if ph.id == h.id {
				h.reg.pointerDown = append(h.reg.pointerDown[:i], h.reg.pointerDown[i+1:]...)
				return
			}
		}
	case EventClick:
		for i, ch := range h.reg.click {
			if ch.id == h.id {
				h.reg.click = append(h.reg.click[:i], h.reg.click[i+1:]...)
				return
			}
		}
	}
}

// OnPointerDown registers a scene-level handler fired for every press,
// whether or not a node was hit.
func (s *Scene) OnPointerDown(fn func(PointerContext)) CallbackHandle {
	s.handlers.nextID++
	id := s.handlers.nextID
	s.handlers.pointerDown = append(s.handlers.pointerDown, pointerHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: EventPointerDown}
}

// OnClick registers a scene-level handler fired for every click, including
// clicks on empty background.
func (s *Scene) OnClick(fn func(ClickContext)) CallbackHandle {
	s.handlers.nextID++
	id := s.handlers.nextID
	s.handlers.click = append(s.handlers.click, clickHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: EventClick}
}

// nodeContainsLocal uses the node's HitShape, falling back to its sprite box.
// Containers without a HitShape are never hit.
func nodeContainsLocal(n *Node, lx, ly float64) bool {
	if n.HitShape != nil {
		return n.HitShape.Contains(lx, ly)
	}
	if n.Type != NodeTypeSprite || n.Width <= 0 || n.Height <= 0 {
		return false
	}
	return lx >= 0 && lx <= n.Width && ly >= 0 && ly <= n.Height
}

// collectInteractable appends interactable nodes in painter order. A
// non-interactable or invisible node hides its whole subtree.
func (s *Scene) collectInteractable(n *Node, buf []*Node) []*Node {
	if !n.Visible || !n.Interactable {
		return buf
	}
	if n.HitShape != nil || n.Type != NodeTypeContainer {
		buf = append(buf, n)
	}
	if len(n.children) == 0 {
		return buf
	}
	for _, child := range n.drawOrder() {
		buf = s.collectInteractable(child, buf)
	}
	return buf
}

// hitTest returns the topmost interactable node at (x, y), or nil.
func (s *Scene) hitTest(x, y float64) *Node {
	s.hitBuf = s.collectInteractable(s.root, s.hitBuf[:0])
	for i := len(s.hitBuf) - 1; i >= 0; i-- {
		n := s.hitBuf[i]
		lx, ly := n.WorldToLocal(x, y)
		if nodeContainsLocal(n, lx, ly) {
			return n
		}
	}
	return nil
}

// processInput feeds mouse, touch and injected events through the pointer
// state machine. Injected events replace the mouse for the frame they run.
func (s *Scene) processInput() {
	if !s.processInjectedInput() && !s.headless {
		s.processMousePointer()
		s.processTouchPointer()
	}
}

func (s *Scene) processMousePointer() {
	mx, my := ebiten.CursorPosition()
	var pressed bool
	var button MouseButton
	switch {
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		pressed, button = true, MouseButtonLeft
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
		pressed, button = true, MouseButtonRight
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle):
		pressed, button = true, MouseButtonMiddle
	}
	s.processPointer(0, float64(mx), float64(my), pressed, button)
}

// processTouchPointer tracks the first touch only; the page has no
// multi-touch gestures.
func (s *Scene) processTouchPointer() {
	s.touchIDs = ebiten.AppendTouchIDs(s.touchIDs[:0])
	if len(s.touchIDs) > 0 {
		tx, ty := ebiten.TouchPosition(s.touchIDs[0])
		s.processPointer(1, float64(tx), float64(ty), true, MouseButtonLeft)
		return
	}
	if ps := &s.pointers[1]; ps.down {
		s.processPointer(1, ps.lastX, ps.lastY, false, MouseButtonLeft)
	}
}

// processPointer runs the hover and click state machine for one pointer.
// A click fires when press and release land on the same node, or both on
// empty background.
func (s *Scene) processPointer(pointerID int, x, y float64, pressed bool, button MouseButton) {
	ps := &s.pointers[pointerID]
	if ps.hoverNode != nil && ps.hoverNode.disposed {
		ps.hoverNode = nil
	}
	target := s.hitTest(x, y)

	if target != ps.hoverNode {
		if ps.hoverNode != nil {
			s.firePointer(ps.hoverNode, ps.hoverNode.OnPointerLeave, nil, x, y, button)
		}
		if target != nil {
			s.firePointer(target, target.OnPointerEnter, nil, x, y, button)
		}
		ps.hoverNode = target
	}

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.button = button
		ps.hitNode = target
		var onDown func(PointerContext)
		if target != nil {
			onDown = target.OnPointerDown
		}
		s.firePointer(target, onDown, s.handlers.pointerDown, x, y, button)
	case !pressed && ps.down:
		if ps.hitNode == target {
			s.fireClick(target, x, y, ps.button)
		}
		if target != nil {
			s.firePointer(target, target.OnPointerUp, nil, x, y, ps.button)
		}
		ps.down = false
		ps.hitNode = nil
	}
	ps.lastX, ps.lastY = x, y
}

func (s *Scene) firePointer(node *Node, fn func(PointerContext), scene []pointerHandler, x, y float64, button MouseButton) {
	ctx := PointerContext{Node: node, GlobalX: x, GlobalY: y, Button: button}
	if node != nil {
		ctx.LocalX, ctx.LocalY = node.WorldToLocal(x, y)
		ctx.UserData = node.UserData
	}
	for _, h := range scene {
		h.fn(ctx)
	}
	if fn != nil {
		fn(ctx)
	}
}

func (s *Scene) fireClick(node *Node, x, y float64, button MouseButton) {
	ctx := ClickContext{Node: node, GlobalX: x, GlobalY: y, Button: button}
	if node != nil {
		ctx.LocalX, ctx.LocalY = node.WorldToLocal(x, y)
		ctx.UserData = node.UserData
	}
	for _, h := range s.handlers.click {
		h.fn(ctx)
	}
	if node != nil && node.OnClick != nil {
		node.OnClick(ctx)
	}
	if s.store != nil {
		ev := InteractionEvent{Type: EventClick, GlobalX: x, GlobalY: y, Button: button}
		if node != nil {
			ev.NodeName = node.Name
		}
		s.store.EmitEvent(ev)
	}
}
