package memewall

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
)

// PreloadStrategy is one way of warming an asset. Failures are counted,
// never fatal.
type PreloadStrategy struct {
	Name string
	Load func(ctx context.Context, asset string) error
}

// ImageStrategies returns the three warmers used for hover animations:
// reading the bytes, decoding them, and uploading the GIF frames.
func ImageStrategies(src *ImageSource) []PreloadStrategy {
	return []PreloadStrategy{
		{Name: "raw", Load: func(_ context.Context, asset string) error {
			_, err := src.ReadRaw(asset)
			return err
		}},
		{Name: "decode", Load: func(_ context.Context, asset string) error {
			_, err := src.Decode(asset)
			return err
		}},
		{Name: "upload", Load: func(_ context.Context, asset string) error {
			_, err := src.LoadAnimation(asset)
			return err
		}},
	}
}

type preloadResult struct {
	asset    string
	strategy string
	err      error
}

// PreloadStats summarizes a preload run.
type PreloadStats struct {
	Assets    int
	Succeeded int
	Failed    int
	TimedOut  bool
	Elapsed   time.Duration
}

// Preloader warms a fixed asset list with every strategy concurrently. It
// becomes ready when each asset has at least one success, when every
// attempt has finished, or when the timeout passes, whichever comes first.
// Results are collected on the update loop by Update.
type Preloader struct {
	assets     []string
	strategies []PreloadStrategy
	timeout    time.Duration
	log        io.Writer

	sched   *Scheduler
	started time.Time
	timer   *Timer
	cancel  context.CancelFunc
	results chan preloadResult
	done    chan struct{}

	warm     map[string]bool
	finished bool
	ready    bool
	stats    PreloadStats
	onReady  []func()
}

// NewPreloader creates a preloader for assets.
func NewPreloader(assets []string, timeout time.Duration, strategies ...PreloadStrategy) *Preloader {
	return &Preloader{
		assets:     assets,
		strategies: strategies,
		timeout:    timeout,
		log:        os.Stderr,
		warm:       make(map[string]bool),
		stats:      PreloadStats{Assets: len(assets)},
	}
}

// SetLog redirects failure diagnostics.
func (p *Preloader) SetLog(w io.Writer) {
	p.log = w
}

// Start launches the workers and schedules the timeout on sched.
func (p *Preloader) Start(ctx context.Context, sched *Scheduler) {
	if p.results != nil {
		return
	}
	p.sched = sched
	p.started = sched.Now()
	ctx, p.cancel = context.WithCancel(ctx)
	p.results = make(chan preloadResult, len(p.assets)*len(p.strategies))
	p.done = make(chan struct{})

	if p.timeout > 0 {
		p.timer = sched.AfterPriority("preload-timeout", p.timeout, PriorityLifecycle, func() {
			p.stats.TimedOut = true
			p.cancel()
			p.markReady()
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, asset := range p.assets {
		for _, s := range p.strategies {
			g.Go(func() error {
				err := s.Load(gctx, asset)
				p.results <- preloadResult{asset: asset, strategy: s.Name, err: err}
				return nil
			})
		}
	}
	go func() {
		_ = g.Wait()
		close(p.results)
		close(p.done)
	}()
	if len(p.assets) == 0 {
		p.markReady()
	}
}

// Wait blocks until every strategy has returned.
func (p *Preloader) Wait() {
	if p.done != nil {
		<-p.done
	}
}

// Update collects finished attempts and fires OnReady callbacks. Call it
// once per frame.
func (p *Preloader) Update() {
	if p.results == nil || p.finished {
		return
	}
	for {
		select {
		case r, ok := <-p.results:
			if !ok {
				p.finished = true
				p.cancel()
				p.markReady()
				return
			}
			p.record(r)
		default:
			return
		}
	}
}

func (p *Preloader) record(r preloadResult) {
	if r.err != nil {
		p.stats.Failed++
		_, _ = fmt.Fprintf(p.log, "[memewall] preload %s via %s: %v\n", r.asset, r.strategy, r.err)
		return
	}
	p.stats.Succeeded++
	p.warm[r.asset] = true
	if len(p.warm) == len(p.assets) {
		p.markReady()
	}
}

func (p *Preloader) markReady() {
	if p.ready {
		return
	}
	p.ready = true
	if p.sched != nil {
		p.stats.Elapsed = p.sched.Now().Sub(p.started)
	}
	p.timer.Cancel()
	fns := p.onReady
	p.onReady = nil
	for _, fn := range fns {
		fn()
	}
}

// OnReady registers fn to run once the preloader is ready. If it already
// is, fn runs immediately.
func (p *Preloader) OnReady(fn func()) {
	if p.ready {
		fn()
		return
	}
	p.onReady = append(p.onReady, fn)
}

// Ready reports whether the preloader has become ready.
func (p *Preloader) Ready() bool {
	return p.ready
}

// Warm reports whether at least one strategy succeeded for asset.
func (p *Preloader) Warm(asset string) bool {
	return p.warm[asset]
}

// Stats returns the counts collected so far.
func (p *Preloader) Stats() PreloadStats {
	return p.stats
}
