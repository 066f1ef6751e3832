package memewall

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"github.com/google/uuid"
)

// WallOptions carries the wall's collaborators. Zero values pick the real
// clock, a time-seeded random source, uuid identifiers and stderr logging.
type WallOptions struct {
	Clock Clock
	Rand  *rand.Rand
	Sink  EventSink
	Log   io.Writer
	NewID func() string
}

// Wall is the background churn controller. It owns the position registry,
// the image reservations and every element timer, and is driven by calling
// Update once per frame. It is not safe for concurrent use.
type Wall struct {
	cfg      WallConfig
	vp       Viewport
	sched    *Scheduler
	alloc    *Allocator
	pool     *ImagePool
	renderer Renderer
	rng      *rand.Rand
	sink     EventSink
	log      io.Writer
	newID    func() string
	debug    bool

	elements []*Element
	pending  int // spawns scheduled but not yet fired

	spawnTimers []*Timer
	waveTimers  []*Timer
	recurring   []*Timer
	resizeTimer *Timer

	turnoverActive bool
	turnoverVictim *Element

	started bool
}

// NewWall creates a wall for the viewport. Call Start to begin churning.
func NewWall(cfg WallConfig, vp Viewport, pool *ImagePool, renderer Renderer, opts WallOptions) *Wall {
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.Rand == nil {
		seed := uint64(time.Now().UnixNano())
		opts.Rand = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	if opts.Log == nil {
		opts.Log = os.Stderr
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if renderer == nil {
		renderer = NopRenderer{}
	}

	w := &Wall{
		cfg:      cfg,
		vp:       vp,
		sched:    NewScheduler(opts.Clock),
		pool:     pool,
		renderer: renderer,
		rng:      opts.Rand,
		sink:     opts.Sink,
		log:      opts.Log,
		newID:    opts.NewID,
	}
	w.alloc = NewAllocator(AllocatorConfig{
		Attempts:   cfg.PlacementAttempts,
		EdgeMargin: cfg.EdgeMargin,
		Buffer:     cfg.CollisionBuffer,
		Zone:       cfg.Zone,
	}, vp, opts.Rand)
	w.sched.OnPanic = func(name string, v any) {
		w.logf("task %q panicked: %v", name, v)
	}
	return w
}

// Start schedules the initial creation waves and the recurring maintenance
// and overlap-correction tasks. Calling Start twice is a no-op.
func (w *Wall) Start() {
	if w.started {
		return
	}
	w.started = true
	w.scheduleWaves(0)
	w.recurring = append(w.recurring,
		w.sched.Every("maintain", w.cfg.MaintainInterval, w.Tick),
		w.sched.Every("resolve-overlaps", w.cfg.ResolveInterval, func() { w.ResolveOverlaps() }),
	)
}

// Stop takes every element off screen, returns their positions and images
// and cancels every pending task. A later Start builds the wall afresh.
func (w *Wall) Stop() {
	w.purge()
	w.sched.Clear()
	w.recurring = nil
	w.spawnTimers = nil
	w.waveTimers = nil
	w.resizeTimer = nil
	w.pending = 0
	w.started = false
}

// Update runs every task that has fallen due. Call once per frame.
func (w *Wall) Update() {
	w.sched.Run()
}

// Click reacts to a user click anywhere on the page with a churn tick.
func (w *Wall) Click() {
	w.Tick()
}

// Count returns the number of elements on screen, fading ones included,
// plus spawns already scheduled. Churn decisions are made on this number.
func (w *Wall) Count() int {
	return len(w.elements) + w.pending
}

// Live returns the number of elements on screen, fading ones included.
func (w *Wall) Live() int {
	return len(w.elements)
}

// Elements returns the elements on screen. The returned slice MUST NOT be mutated.
func (w *Wall) Elements() []*Element {
	return w.elements
}

// Viewport returns the area the wall is laid out for.
func (w *Wall) Viewport() Viewport {
	return w.vp
}

// Scheduler exposes the wall's task queue.
func (w *Wall) Scheduler() *Scheduler {
	return w.sched
}

// Allocator exposes the position registry.
func (w *Wall) Allocator() *Allocator {
	return w.alloc
}

// Pool exposes the image reservations.
func (w *Wall) Pool() *ImagePool {
	return w.pool
}

// Config returns the wall tuning.
func (w *Wall) Config() WallConfig {
	return w.cfg
}

// SetDebugMode enables verbose lifecycle logging.
func (w *Wall) SetDebugMode(enabled bool) {
	w.debug = enabled
}

// WallStats is a snapshot of the wall's bookkeeping.
type WallStats struct {
	Live     int
	Fading   int
	Pending  int
	Reserved int
	Records  int
	Tasks    int
}

// Stats returns a snapshot of the wall's bookkeeping.
func (w *Wall) Stats() WallStats {
	s := WallStats{
		Live:     len(w.elements),
		Pending:  w.pending,
		Reserved: w.pool.Reserved(),
		Records:  w.alloc.Len(),
		Tasks:    w.sched.Len(),
	}
	for _, el := range w.elements {
		if el.fading {
			s.Fading++
		}
	}
	return s
}

// Resize schedules a rebuild for a new viewport. Repeated calls within the
// debounce window collapse into one rebuild.
func (w *Wall) Resize(vp Viewport) {
	w.resizeTimer.Cancel()
	w.resizeTimer = w.sched.AfterPriority("resize", w.cfg.ResizeDebounce, PriorityLayout, func() {
		w.resizeTimer = nil
		w.purge()
		w.vp = vp
		w.alloc.SetViewport(vp)
		w.scheduleWaves(w.cfg.WaveSpacing)
	})
}

func (w *Wall) scheduleWaves(first time.Duration) {
	w.waveTimers = pruneTimers(w.waveTimers)
	for i := range w.cfg.RebuildWaves {
		d := first + time.Duration(i)*w.cfg.WaveSpacing
		w.waveTimers = append(w.waveTimers, w.sched.After("wave", d, w.Tick))
	}
}

func (w *Wall) emit(t WallEventType, el *Element) {
	if w.sink == nil {
		return
	}
	ev := WallEvent{Type: t, Count: len(w.elements), At: w.sched.Now()}
	if el != nil {
		ev.ElementID = el.ID
		ev.Image = el.Image
		ev.Size = el.Size
		if el.Record != nil {
			ev.X, ev.Y = el.Record.X, el.Record.Y
		}
	}
	w.sink.EmitWallEvent(ev)
}

func (w *Wall) logf(format string, args ...any) {
	_, _ = fmt.Fprintf(w.log, "[memewall] "+format+"\n", args...)
}

func (w *Wall) debugf(format string, args ...any) {
	if w.debug {
		w.logf(format, args...)
	}
}

func pruneTimers(timers []*Timer) []*Timer {
	live := timers[:0]
	for _, t := range timers {
		if t.Active() {
			live = append(live, t)
		}
	}
	clear(timers[len(live):])
	return live
}
