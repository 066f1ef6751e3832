package memewall

import (
	"container/heap"
	"time"
)

// Priority orders tasks that fall due at the same instant. Lower runs first.
type Priority uint8

const (
	PriorityLifecycle Priority = iota // element removal and failure handling
	PriorityChurn                     // spawns, lifetime expiry, ticks
	PriorityLayout                    // overlap correction and resize
)

// Timer is a handle to a scheduled task.
type Timer struct {
	name     string
	due      time.Time
	interval time.Duration // > 0 for recurring tasks
	priority Priority
	seq      uint64
	fn       func()

	index     int // heap index, -1 when not queued
	cancelled bool
}

// Name returns the task name given at scheduling time.
func (t *Timer) Name() string {
	return t.name
}

// Due returns the next time the task fires.
func (t *Timer) Due() time.Time {
	return t.due
}

// Cancel stops the task from firing. Safe to call more than once, on a nil
// timer, and from inside the task itself.
func (t *Timer) Cancel() {
	if t == nil {
		return
	}
	t.cancelled = true
}

// Active reports whether the task will still fire.
func (t *Timer) Active() bool {
	return t != nil && !t.cancelled && t.index >= 0
}

type timerQueue []*Timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	a, b := q[i], q[j]
	if !a.due.Equal(b.due) {
		return a.due.Before(b.due)
	}
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	return a.seq < b.seq
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*Timer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}

// Scheduler is a single-threaded task queue driven by a Clock. All wall
// timers live here so ordering is explicit and tests can drive time by hand.
//
// While a task runs, Now reports the task's due time rather than the clock,
// so work scheduled from inside a task is offset from when it was meant to
// fire, not from when the frame happened to dispatch it.
type Scheduler struct {
	clock   Clock
	queue   timerQueue
	seq     uint64
	now     time.Time
	running bool

	// OnPanic, if set, receives values recovered from panicking tasks.
	// When nil the panic propagates.
	OnPanic func(name string, v any)
}

// NewScheduler creates a scheduler reading time from clock.
func NewScheduler(clock Clock) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Scheduler{clock: clock, now: clock.Now()}
}

// Clock returns the scheduler's time source.
func (s *Scheduler) Clock() Clock {
	return s.clock
}

// Now returns the scheduler's current time: the due time of the running task
// during dispatch, the clock time otherwise.
func (s *Scheduler) Now() time.Time {
	if s.running {
		return s.now
	}
	return s.clock.Now()
}

// After runs fn once, d after Now, at PriorityChurn.
func (s *Scheduler) After(name string, d time.Duration, fn func()) *Timer {
	return s.AfterPriority(name, d, PriorityChurn, fn)
}

// AfterPriority runs fn once, d after Now, at the given priority.
func (s *Scheduler) AfterPriority(name string, d time.Duration, p Priority, fn func()) *Timer {
	if d < 0 {
		d = 0
	}
	return s.push(&Timer{name: name, due: s.Now().Add(d), priority: p, fn: fn})
}

// Every runs fn every interval, first firing one interval from Now.
// Non-positive intervals are clamped to one millisecond.
func (s *Scheduler) Every(name string, interval time.Duration, fn func()) *Timer {
	if interval <= 0 {
		interval = time.Millisecond
	}
	return s.push(&Timer{name: name, due: s.Now().Add(interval), interval: interval, priority: PriorityLayout, fn: fn})
}

func (s *Scheduler) push(t *Timer) *Timer {
	s.seq++
	t.seq = s.seq
	heap.Push(&s.queue, t)
	return t
}

// Run dispatches every task due at or before the clock's current time, in
// due order. Tasks scheduled during dispatch that are already due also run.
// Returns the number of tasks executed.
func (s *Scheduler) Run() int {
	limit := s.clock.Now()
	ran := 0
	for len(s.queue) > 0 {
		next := s.queue[0]
		if next.due.After(limit) {
			break
		}
		heap.Pop(&s.queue)
		if next.cancelled {
			continue
		}
		if next.interval > 0 {
			next.due = next.due.Add(next.interval)
			s.seq++
			next.seq = s.seq
			heap.Push(&s.queue, next)
		}
		s.dispatch(next)
		ran++
	}
	return ran
}

func (s *Scheduler) dispatch(t *Timer) {
	prevRunning, prevNow := s.running, s.now
	s.running = true
	if t.interval > 0 {
		s.now = t.due.Add(-t.interval)
	} else {
		s.now = t.due
	}
	defer func() {
		s.running, s.now = prevRunning, prevNow
		if s.OnPanic == nil {
			return
		}
		if v := recover(); v != nil {
			s.OnPanic(t.name, v)
		}
	}()
	t.fn()
}

// Len returns the number of queued tasks, including cancelled ones not yet
// drained.
func (s *Scheduler) Len() int {
	return len(s.queue)
}

// Pending returns how many live tasks carry the given name.
func (s *Scheduler) Pending(name string) int {
	n := 0
	for _, t := range s.queue {
		if t.name == name && !t.cancelled {
			n++
		}
	}
	return n
}

// Clear cancels and drops every queued task.
func (s *Scheduler) Clear() {
	for _, t := range s.queue {
		t.cancelled = true
		t.index = -1
	}
	s.queue = s.queue[:0]
}
