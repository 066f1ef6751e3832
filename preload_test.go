package memewall

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"
)

func okStrategy(name string) PreloadStrategy {
	return PreloadStrategy{Name: name, Load: func(context.Context, string) error { return nil }}
}

func failStrategy(name string, bad map[string]bool) PreloadStrategy {
	return PreloadStrategy{Name: name, Load: func(_ context.Context, asset string) error {
		if bad[asset] {
			return errors.New("boom")
		}
		return nil
	}}
}

func blockStrategy(name string) PreloadStrategy {
	return PreloadStrategy{Name: name, Load: func(ctx context.Context, _ string) error {
		<-ctx.Done()
		return ctx.Err()
	}}
}

func newTestPreloader(assets []string, timeout time.Duration, strategies ...PreloadStrategy) (*Preloader, *ManualClock, *Scheduler) {
	clock := NewManualClock(epoch)
	sched := NewScheduler(clock)
	p := NewPreloader(assets, timeout, strategies...)
	p.SetLog(io.Discard)
	return p, clock, sched
}

func TestPreloaderReadyWhenAllWarm(t *testing.T) {
	assets := []string{"x.gif", "tg.gif", "me.gif"}
	p, _, sched := newTestPreloader(assets, time.Second, okStrategy("a"), okStrategy("b"))

	var fired int
	p.OnReady(func() { fired++ })
	p.Start(context.Background(), sched)
	p.Wait()
	p.Update()

	if !p.Ready() || fired != 1 {
		t.Fatalf("ready=%v fired=%d", p.Ready(), fired)
	}
	st := p.Stats()
	if st.Succeeded != 6 || st.Failed != 0 || st.TimedOut {
		t.Errorf("stats = %+v", st)
	}
	if sched.Pending("preload-timeout") != 0 {
		t.Error("timeout still scheduled after ready")
	}

	late := false
	p.OnReady(func() { late = true })
	if !late {
		t.Error("OnReady after ready did not run immediately")
	}
}

func TestPreloaderReadyAfterAllAttemptsFail(t *testing.T) {
	bad := map[string]bool{"tg.gif": true}
	p, _, sched := newTestPreloader([]string{"x.gif", "tg.gif"}, time.Minute,
		failStrategy("a", bad), failStrategy("b", bad))
	p.Start(context.Background(), sched)
	p.Wait()
	p.Update()

	if !p.Ready() {
		t.Fatal("not ready after every attempt finished")
	}
	if p.Warm("tg.gif") || !p.Warm("x.gif") {
		t.Error("warm flags wrong")
	}
	if st := p.Stats(); st.Failed != 2 || st.Succeeded != 2 {
		t.Errorf("stats = %+v", st)
	}
}

func TestPreloaderTimeout(t *testing.T) {
	p, clock, sched := newTestPreloader([]string{"x.gif"}, 3*time.Second, blockStrategy("slow"))
	p.Start(context.Background(), sched)

	clock.Advance(2 * time.Second)
	sched.Run()
	p.Update()
	if p.Ready() {
		t.Fatal("ready before the timeout")
	}

	clock.Advance(time.Second)
	sched.Run()
	if !p.Ready() {
		t.Fatal("timeout did not force readiness")
	}
	st := p.Stats()
	if !st.TimedOut || st.Elapsed != 3*time.Second {
		t.Errorf("stats = %+v", st)
	}

	// The timeout cancels the workers.
	p.Wait()
	p.Update()
	if st := p.Stats(); st.Failed != 1 {
		t.Errorf("cancelled attempt not counted: %+v", st)
	}
}

func TestPreloaderReadyBeforeSlowStrategies(t *testing.T) {
	p, _, sched := newTestPreloader([]string{"x.gif"}, time.Minute, okStrategy("fast"), blockStrategy("slow"))
	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx, sched)

	deadline := time.Now().Add(5 * time.Second)
	for !p.Ready() && time.Now().Before(deadline) {
		p.Update()
		time.Sleep(time.Millisecond)
	}
	if !p.Ready() {
		t.Fatal("one warm strategy should be enough")
	}
	cancel()
	p.Wait()
}

func TestPreloaderNoAssets(t *testing.T) {
	p, _, sched := newTestPreloader(nil, time.Second)
	var fired atomic.Int32
	p.OnReady(func() { fired.Add(1) })
	p.Start(context.Background(), sched)
	if !p.Ready() || fired.Load() != 1 {
		t.Error("empty preloader should be ready at start")
	}
}

func TestImageStrategies(t *testing.T) {
	src := NewImageSource(fstest.MapFS{"x.gif": {Data: []byte("not a gif")}})
	p, _, sched := newTestPreloader([]string{"x.gif", "missing.gif"}, time.Minute, ImageStrategies(src)...)
	p.Start(context.Background(), sched)
	p.Wait()
	p.Update()

	st := p.Stats()
	// Only reading x.gif's bytes can succeed.
	if st.Succeeded != 1 || st.Failed != 5 {
		t.Errorf("stats = %+v", st)
	}
	if !p.Warm("x.gif") || p.Warm("missing.gif") {
		t.Error("warm flags wrong")
	}
}
