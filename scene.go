package memewall

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// EntityStore receives interaction events when set on a Scene.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries a click for the ECS bridge.
type InteractionEvent struct {
	Type     EventType
	NodeName string // empty for clicks on the background
	GlobalX  float64
	GlobalY  float64
	Button   MouseButton
}

// Scene owns the node tree, running tweens, pointer state and the frame
// callbacks.
type Scene struct {
	root  *Node
	store EntityStore
	debug bool

	// ClearColor fills the screen before the tree is drawn. A zero alpha
	// leaves the screen untouched.
	ClearColor Color

	updateFunc func() error
	tweens     []*TweenGroup
	snapshots  *Snapshots
	runner     *ScriptRunner

	handlers    handlerRegistry
	pointers    [maxPointers]pointerState
	hitBuf      []*Node
	touchIDs    []ebiten.TouchID
	injectQueue []syntheticPointerEvent
	headless    bool // skip real mouse and touch polling
}

// NewScene creates a scene with an interactable root container.
func NewScene() *Scene {
	root := NewContainer("root")
	root.Interactable = true
	return &Scene{root: root, snapshots: NewSnapshots("screenshots")}
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node {
	return s.root
}

// SetUpdateFunc registers a callback run at the start of every Update.
// A non-nil error stops the game loop.
func (s *Scene) SetUpdateFunc(fn func() error) {
	s.updateFunc = fn
}

// AddTween runs g every frame until it finishes or its target is disposed.
func (s *Scene) AddTween(g *TweenGroup) *TweenGroup {
	s.tweens = append(s.tweens, g)
	return g
}

// Tweens returns the number of running tweens.
func (s *Scene) Tweens() int {
	return len(s.tweens)
}

// Update advances one frame at the ebiten tick rate.
func (s *Scene) Update() error {
	return s.Step(1.0 / float64(ebiten.TPS()))
}

// Step advances one frame of dt seconds: the update callback, node
// OnUpdate hooks, tweens, then input against fresh world transforms.
func (s *Scene) Step(dt float64) error {
	if s.updateFunc != nil {
		if err := s.updateFunc(); err != nil {
			return err
		}
	}
	updateNodes(s.root, dt)
	s.updateTweens(float32(dt))
	if s.runner != nil {
		s.runner.step(s)
	}
	updateWorldTransform(s.root, identityTransform, 1, false)
	s.processInput()
	return nil
}

func (s *Scene) updateTweens(dt float32) {
	live := s.tweens[:0]
	for _, g := range s.tweens {
		g.Update(dt)
		if !g.Done {
			live = append(live, g)
		}
	}
	clear(s.tweens[len(live):])
	s.tweens = live
}

func updateNodes(n *Node, dt float64) {
	if n.OnUpdate != nil {
		n.OnUpdate(dt)
	}
	// OnUpdate may detach children; iterate a stable view.
	for _, child := range n.drawOrder() {
		if !child.disposed {
			updateNodes(child, dt)
		}
	}
}

// Draw clears the screen and renders the tree.
func (s *Scene) Draw(screen *ebiten.Image) {
	if s.ClearColor.A > 0 {
		screen.Fill(s.ClearColor.toRGBA())
	}
	updateWorldTransform(s.root, identityTransform, 1, false)

	var stats drawStats
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}
	s.traverse(screen, s.root, &stats)
	if s.debug {
		s.debugLog(stats, time.Since(t0))
	}
	s.snapshots.flush(screen)
}

// Screenshot queues a capture of the next drawn frame.
func (s *Scene) Screenshot(label string) {
	s.snapshots.Queue(label)
}

// Snapshots returns the scene's frame capture queue.
func (s *Scene) Snapshots() *Snapshots {
	return s.snapshots
}

// SetEntityStore sets the optional ECS bridge.
func (s *Scene) SetEntityStore(store EntityStore) {
	s.store = store
}

// SetHeadless disables real mouse and touch polling. Injected input still
// runs. Used by scripted runs and tests.
func (s *Scene) SetHeadless(headless bool) {
	s.headless = headless
}

// SetDebugMode enables disposed-node checks and per-frame draw stats on
// stderr.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recent SetDebugMode so node operations,
// which have no scene pointer, can check it.
var globalDebug bool
