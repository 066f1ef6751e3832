package memewall

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"math/rand/v2"
	"os"
	"time"
)

// Clicker plays the click sound.
type Clicker interface {
	Click()
}

// LandingOptions wires a Landing to its resources. Images and Assets are
// required unless Loader is set.
type LandingOptions struct {
	Config Config
	// Images holds the pool files, Assets the hover GIFs.
	Images fs.FS
	Assets fs.FS
	// Loader overrides how pool images are resolved.
	Loader ImageLoader
	Sound  Clicker
	Sink   EventSink
	Store  EntityStore
	// Capture saves a frame whenever the wall emits one of these events.
	Capture []WallEventType
	Clock   Clock
	Rand    *rand.Rand
	Log     io.Writer
}

// Landing is the whole page: background wall, hero, loading overlay and
// the preloader gating the buttons.
type Landing struct {
	cfg      Config
	scene    *Scene
	wall     *Wall
	renderer *SceneRenderer
	hero     *Hero
	overlay  *LoadingOverlay
	preload  *Preloader
	assets   *ImageSource
	sound    Clicker
	log      io.Writer
	vp       Viewport
	cancel   context.CancelFunc
	onFrame  []func()
}

// NewLanding builds the page for the configured window size. Nothing runs
// until Start.
func NewLanding(opts LandingOptions) (*Landing, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("landing: %w", err)
	}
	if opts.Loader == nil && opts.Images == nil {
		return nil, fmt.Errorf("landing: %w: no image source", ErrInvalidConfig)
	}
	if opts.Log == nil {
		opts.Log = os.Stderr
	}
	if opts.Rand == nil {
		seed := uint64(time.Now().UnixNano())
		opts.Rand = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	loader := opts.Loader
	if loader == nil {
		loader = NewImageSource(opts.Images)
	}

	l := &Landing{
		cfg:   cfg,
		scene: NewScene(),
		sound: opts.Sound,
		log:   opts.Log,
		vp:    Viewport{Width: float64(cfg.Window.Width), Height: float64(cfg.Window.Height)},
	}
	l.scene.ClearColor = Color{0.04, 0.04, 0.08, 1}
	if opts.Store != nil {
		l.scene.SetEntityStore(opts.Store)
	}
	snaps := l.scene.Snapshots()
	snaps.Log = opts.Log
	snaps.Caption = func() string {
		st := l.wall.Stats()
		return fmt.Sprintf("live%d-fading%d", st.Live, st.Fading)
	}
	sink := opts.Sink
	if len(opts.Capture) > 0 {
		sink = snaps.Sink(opts.Sink, opts.Capture...)
	}

	background := NewContainer("background")
	l.scene.Root().AddChild(background)

	wallCfg := cfg.Wall
	l.renderer = NewSceneRenderer(l.scene, background, loader, SpriteOptions{
		FadeIn:         wallCfg.FadeIn,
		FloatAmplitude: 10,
		FloatPeriod:    6 * time.Second,
		Rand:           opts.Rand,
	})
	pool := NewImagePool(cfg.Pool.Prefix, cfg.Pool.Ext, cfg.Pool.Count)
	l.wall = NewWall(wallCfg, l.vp, pool, l.renderer, WallOptions{
		Clock: opts.Clock,
		Rand:  opts.Rand,
		Sink:  sink,
		Log:   opts.Log,
	})

	l.hero = NewHero(l.scene, cfg.Hero, wallCfg.Zone)
	l.hero.Node.ZIndex = 1
	l.scene.Root().AddChild(l.hero.Node)
	var hovers []string
	for _, b := range l.hero.Buttons {
		b.Log = opts.Log
		b.OnActivate = l.onLink
		if b.cfg.Hover != "" {
			hovers = append(hovers, b.cfg.Hover)
		}
	}
	l.hero.Layout(l.vp)

	if opts.Assets != nil {
		l.assets = NewImageSource(opts.Assets)
		l.preload = NewPreloader(hovers, cfg.Preload.Timeout, ImageStrategies(l.assets)...)
	} else {
		l.preload = NewPreloader(nil, cfg.Preload.Timeout)
	}
	l.preload.SetLog(opts.Log)
	l.preload.OnReady(l.enableButtons)

	l.overlay = NewLoadingOverlay(l.scene, l.wall.Scheduler(), l.vp, cfg.Overlay, opts.Rand)

	l.scene.OnClick(func(ctx ClickContext) {
		if ctx.Node == nil {
			l.wall.Click()
		}
	})
	l.scene.SetUpdateFunc(l.update)
	if cfg.Debug {
		l.SetDebugMode(true)
	}
	return l, nil
}

// Start begins preloading and churning.
func (l *Landing) Start(ctx context.Context) {
	ctx, l.cancel = context.WithCancel(ctx)
	l.preload.Start(ctx, l.wall.Scheduler())
	l.wall.Start()
}

// Stop cancels outstanding preload work and every scheduled task.
func (l *Landing) Stop() {
	if l.cancel != nil {
		l.cancel()
	}
	l.wall.Stop()
}

func (l *Landing) update() error {
	l.preload.Update()
	l.wall.Update()
	for _, fn := range l.onFrame {
		fn()
	}
	return nil
}

// OnFrame registers fn to run after the wall on every frame.
func (l *Landing) OnFrame(fn func()) {
	l.onFrame = append(l.onFrame, fn)
}

func (l *Landing) enableButtons() {
	for _, b := range l.hero.Buttons {
		if l.assets != nil && b.cfg.Hover != "" && l.preload.Warm(b.cfg.Hover) {
			anim, err := l.assets.LoadAnimation(b.cfg.Hover)
			if err != nil {
				_, _ = fmt.Fprintf(l.log, "[memewall] hover %s: %v\n", b.cfg.Hover, err)
			} else {
				b.SetAnimation(anim)
			}
		}
	}
	l.hero.SetEnabled(true)
	st := l.preload.Stats()
	_, _ = fmt.Fprintf(l.log, "[memewall] preload ready: %d ok, %d failed, timed out %v\n",
		st.Succeeded, st.Failed, st.TimedOut)
}

func (l *Landing) onLink(string) {
	if l.sound != nil {
		l.sound.Click()
	}
	l.wall.Click()
}

// Layout reacts to a new window size.
func (l *Landing) Layout(width, height int) {
	vp := Viewport{Width: float64(width), Height: float64(height)}
	if vp == l.vp {
		return
	}
	l.vp = vp
	l.hero.Layout(vp)
	if l.overlay.Visible() {
		l.overlay.Resize(vp)
	}
	l.wall.Resize(vp)
}

// SetDebugMode turns on verbose wall logging, scene diagnostics and the
// stats widget.
func (l *Landing) SetDebugMode(enabled bool) {
	l.wall.SetDebugMode(enabled)
	l.scene.SetDebugMode(enabled)
	if enabled {
		l.scene.Root().AddChild(NewStatsWidget(func() string {
			s := l.wall.Stats()
			return fmt.Sprintf("live %d fading %d\npending %d tasks %d", s.Live, s.Fading, s.Pending, s.Tasks)
		}))
	}
}

// Run opens the window and blocks until it closes.
func (l *Landing) Run(ctx context.Context) error {
	l.Start(ctx)
	defer l.Stop()
	return Run(l.scene, RunConfig{
		Title:     l.cfg.Window.Title,
		Width:     l.cfg.Window.Width,
		Height:    l.cfg.Window.Height,
		Resizable: true,
		OnLayout:  l.Layout,
	})
}

// Scene returns the page's scene graph.
func (l *Landing) Scene() *Scene { return l.scene }

// Wall returns the background controller.
func (l *Landing) Wall() *Wall { return l.wall }

// Hero returns the title block.
func (l *Landing) Hero() *Hero { return l.hero }

// Overlay returns the loading overlay.
func (l *Landing) Overlay() *LoadingOverlay { return l.overlay }

// Preloader returns the asset warmer.
func (l *Landing) Preloader() *Preloader { return l.preload }

// Renderer returns the background sprite renderer.
func (l *Landing) Renderer() *SceneRenderer { return l.renderer }
