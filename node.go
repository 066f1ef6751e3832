package memewall

import (
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
)

// HitShape is used for custom hit testing regions in local coordinates.
type HitShape interface {
	Contains(x, y float64) bool
}

// PointerContext carries pointer event data.
type PointerContext struct {
	Node     *Node
	UserData any
	GlobalX  float64
	GlobalY  float64
	LocalX   float64
	LocalY   float64
	Button   MouseButton
}

// ClickContext carries click event data.
type ClickContext struct {
	Node     *Node
	UserData any
	GlobalX  float64
	GlobalY  float64
	LocalX   float64
	LocalY   float64
	Button   MouseButton
}

// nodeIDCounter is a plain counter; the scene is single-threaded.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is the scene graph element. One flat struct serves every node type.
type Node struct {
	ID   uint32
	Name string
	Type NodeType

	Parent   *Node
	children []*Node

	// Local transform. Pivot is in local units before scaling.
	X, Y     float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64
	PivotX   float64
	PivotY   float64

	worldTransform [6]float64
	worldAlpha     float64
	transformDirty bool

	Alpha        float64
	Visible      bool
	Interactable bool
	ZIndex       int

	UserData any

	// Sprite fields. A nil Image draws a solid Color box of Width×Height.
	// A non-nil Image is stretched to Width×Height when both are set.
	Image  *ebiten.Image
	Width  float64
	Height float64
	Color  Color

	// Shape fields (NodeTypeShape): a circle centered on the node origin.
	Radius      float64
	StrokeWidth float64 // zero fills the circle

	// Text fields (NodeTypeText)
	TextBlock *TextBlock

	HitShape HitShape

	OnPointerDown  func(PointerContext)
	OnPointerUp    func(PointerContext)
	OnClick        func(ClickContext)
	OnPointerEnter func(PointerContext)
	OnPointerLeave func(PointerContext)

	// OnUpdate runs once per frame with the frame time in seconds.
	OnUpdate func(dt float64)

	tags     []string
	disposed bool
	sorted   []*Node
}

func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.ScaleX = 1
	n.ScaleY = 1
	n.Alpha = 1
	n.Color = ColorWhite
	n.Visible = true
	n.transformDirty = true
}

// NewContainer creates a group node with no visual output.
func NewContainer(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeContainer}
	nodeDefaults(n)
	return n
}

// NewSprite creates a sprite node drawing img at its natural size.
func NewSprite(name string, img *ebiten.Image) *Node {
	n := &Node{Name: name, Type: NodeTypeSprite, Image: img}
	nodeDefaults(n)
	if img != nil {
		b := img.Bounds()
		n.Width, n.Height = float64(b.Dx()), float64(b.Dy())
	}
	return n
}

// NewRect creates a solid color box.
func NewRect(name string, w, h float64, c Color) *Node {
	n := &Node{Name: name, Type: NodeTypeSprite, Width: w, Height: h}
	nodeDefaults(n)
	n.Color = c
	return n
}

// NewCircle creates a circle of the given radius centered on the node origin.
// It is hit-testable by default.
func NewCircle(name string, radius float64, c Color) *Node {
	n := &Node{Name: name, Type: NodeTypeShape, Radius: radius}
	nodeDefaults(n)
	n.Color = c
	n.HitShape = HitCircle{Radius: radius}
	return n
}

// NewText creates a text node.
func NewText(name, content string, face *FontFace) *Node {
	n := &Node{
		Name: name,
		Type: NodeTypeText,
		TextBlock: &TextBlock{
			Content: content,
			Face:    face,
			Color:   ColorWhite,
		},
	}
	nodeDefaults(n)
	return n
}

// SetImage swaps the sprite image, keeping the display size.
func (n *Node) SetImage(img *ebiten.Image) {
	n.Image = img
	if img != nil && n.Width == 0 && n.Height == 0 {
		b := img.Bounds()
		n.Width, n.Height = float64(b.Dx()), float64(b.Dy())
	}
}

// --- Tags ---

// AddTag attaches a presentation tag. Duplicates are ignored.
func (n *Node) AddTag(tag string) {
	if !slices.Contains(n.tags, tag) {
		n.tags = append(n.tags, tag)
	}
}

// RemoveTag detaches a tag if present.
func (n *Node) RemoveTag(tag string) {
	if i := slices.Index(n.tags, tag); i >= 0 {
		n.tags = slices.Delete(n.tags, i, i+1)
	}
}

// SetTags replaces the node's tags.
func (n *Node) SetTags(tags []string) {
	n.tags = append(n.tags[:0], tags...)
}

// HasTag reports whether the node carries tag.
func (n *Node) HasTag(tag string) bool {
	return slices.Contains(n.tags, tag)
}

// Tags returns the node's tags. The returned slice MUST NOT be mutated.
func (n *Node) Tags() []string {
	return n.tags
}

// --- Tree manipulation ---

// AddChild appends child to this node's children, detaching it from any
// previous parent. Panics if child is nil or an ancestor of n.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("memewall: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("memewall: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	markSubtreeDirty(child)
	if globalDebug {
		debugCheckChildCount(n)
	}
}

// RemoveChild detaches child from this node. Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("memewall: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	markSubtreeDirty(child)
}

// RemoveFromParent detaches this node from its parent, if any.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// SetZIndex sets the draw order among siblings; higher draws later.
func (n *Node) SetZIndex(z int) {
	n.ZIndex = z
}

// Dispose removes this node from its parent and recursively disposes its
// descendants. Disposed nodes are skipped by tweens and input.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.sorted = nil
	n.HitShape = nil
	n.TextBlock = nil
	n.Image = nil
	n.UserData = nil
	n.OnPointerDown = nil
	n.OnPointerUp = nil
	n.OnClick = nil
	n.OnPointerEnter = nil
	n.OnPointerLeave = nil
	n.OnUpdate = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// drawOrder returns the children sorted by ZIndex, stable in insertion order.
func (n *Node) drawOrder() []*Node {
	n.sorted = append(n.sorted[:0], n.children...)
	slices.SortStableFunc(n.sorted, func(a, b *Node) int {
		return a.ZIndex - b.ZIndex
	})
	return n.sorted
}

func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
func (n *Node) removeChildByPtr(child *Node) {
	if i := slices.Index(n.children, child); i >= 0 {
		n.children = slices.Delete(n.children, i, i+1)
	}
}

func markSubtreeDirty(node *Node) {
	node.transformDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}
