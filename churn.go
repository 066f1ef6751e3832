package memewall

import "time"

// Tick runs one pass of the churn state machine:
//
//   - below MinElements, spawn up to the minimum;
//   - below TargetElements, spawn up to the target;
//   - below MaxElements, maybe spawn one bonus element;
//   - at MaxElements, maybe force a turnover.
//
// Spawns are staggered so elements never pop in together. Tick is driven by
// the "maintain" task, the creation waves and user clicks.
func (w *Wall) Tick() {
	n := w.Count()
	switch {
	case n < w.cfg.MinElements:
		w.scheduleSpawns(w.cfg.MinElements - n)
	case n < w.cfg.TargetElements:
		w.scheduleSpawns(w.cfg.TargetElements - n)
	case n < w.cfg.MaxElements:
		if w.rng.Float64() < w.cfg.BonusChance {
			w.scheduleSpawns(1)
		}
	default:
		if w.rng.Float64() < w.cfg.TurnoverChance {
			w.Turnover()
		}
	}
}

// scheduleSpawns queues n spawns, Stagger apart, the first one immediately.
func (w *Wall) scheduleSpawns(n int) {
	w.spawnTimers = pruneTimers(w.spawnTimers)
	for i := range n {
		w.pending++
		t := w.sched.After("spawn", time.Duration(i)*w.cfg.Stagger, func() {
			w.pending--
			w.spawn()
		})
		w.spawnTimers = append(w.spawnTimers, t)
	}
}

// Turnover replaces a random element at full population: the newcomer is
// shown first and the victim retired TurnoverDelay later, so the wall runs
// one over MaxElements for the cross-fade. Only one turnover runs at a time.
// It reports whether a turnover started.
func (w *Wall) Turnover() bool {
	if w.turnoverActive {
		return false
	}
	candidates := make([]*Element, 0, len(w.elements))
	for _, el := range w.elements {
		if !el.fading {
			candidates = append(candidates, el)
		}
	}
	if len(candidates) == 0 {
		return false
	}
	if w.spawn() == nil {
		return false
	}

	victim := candidates[w.rng.IntN(len(candidates))]
	w.turnoverActive = true
	w.turnoverVictim = victim
	w.emit(WallTurnover, victim)

	gen := victim.gen
	victim.track(w.sched.After("turnover", w.cfg.TurnoverDelay, func() {
		if !w.stale(victim, gen) {
			w.Retire(victim)
		}
	}))
	return true
}
