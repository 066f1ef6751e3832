package memewall

import "slices"

// create builds one element and hands it to the renderer. It returns nil
// when every image is already on screen; callers treat that as "try again
// next tick", not as an error.
func (w *Wall) create() *Element {
	name := w.pool.Pick(w.rng)
	if name == "" {
		w.debugf("pool exhausted (%d/%d displayed)", w.pool.Reserved(), w.pool.Size())
		return nil
	}
	w.pool.Reserve(name)

	class := w.cfg.Sizes.Pick(w.rng)
	size := w.cfg.Sizes.Pixels(class, w.vp.Width)
	el := &Element{
		ID:      w.newID(),
		Image:   name,
		Class:   class,
		Size:    size,
		Record:  w.alloc.FindSafePosition(size),
		Created: w.sched.Now(),
		gen:     1,
	}
	w.elements = append(w.elements, el)
	w.debugf("show %s (%s, %.0fpx) at %.0f,%.0f tier=%d",
		el.Image, el.Class, el.Size, el.Record.X, el.Record.Y, w.alloc.LastTier())

	gen := el.gen
	w.renderer.Show(el, func(err error) {
		// Deferred to the next dispatch so the renderer may report failure
		// from inside Show without re-entering the wall.
		w.sched.AfterPriority("image-error", 0, PriorityLifecycle, func() {
			w.fail(el, gen, err)
		})
	})
	w.emit(WallElementShown, el)
	return el
}

// spawn creates an element and schedules its lifetime expiry. The wall
// never grows past one above MaxElements.
func (w *Wall) spawn() *Element {
	if len(w.elements) > w.cfg.MaxElements {
		return nil
	}
	el := w.create()
	if el == nil {
		return nil
	}
	gen := el.gen
	life := w.cfg.Lifetime.Random(w.rng)
	el.track(w.sched.After("lifetime", life, func() { w.expire(el, gen) }))
	return el
}

func (w *Wall) stale(el *Element, gen uint64) bool {
	return el.removed || el.gen != gen
}

// fail drops an element whose image could not be loaded. It skips the
// minimum lifetime and the fade-out.
func (w *Wall) fail(el *Element, gen uint64, err error) {
	if w.stale(el, gen) {
		return
	}
	w.logf("image %s failed to load: %v", el.Image, err)
	w.removeNow(el)
	w.emit(WallImageFailed, el)
}

// expire handles the end of an element's randomized lifetime. Counts are
// read at fire time, not when the lifetime was scheduled. With the wall
// nearly full a successor is shown first and the element retired after
// HandoffDelay; at the floor the expiry is retried after DeferDelay.
func (w *Wall) expire(el *Element, gen uint64) {
	if w.stale(el, gen) || el.fading {
		return
	}
	n := w.Count()
	if n >= w.cfg.HandoffThreshold && n < w.cfg.MaxElements && w.spawn() != nil {
		el.track(w.sched.After("handoff", w.cfg.HandoffDelay, func() {
			if !w.stale(el, gen) {
				w.Retire(el)
			}
		}))
		return
	}
	if w.active()-1 <= w.cfg.MinElements {
		w.debugf("defer %s: %d active at floor", el.Image, w.active())
		el.track(w.sched.After("defer", w.cfg.DeferDelay, func() { w.expire(el, gen) }))
		return
	}
	w.Retire(el)
}

// active counts elements that are not fading plus scheduled spawns: what
// will still be on screen once current fades finish.
func (w *Wall) active() int {
	n := w.pending
	for _, el := range w.elements {
		if !el.fading {
			n++
		}
	}
	return n
}

// Retire removes an element through its fade-out. An element younger than
// MinVisible is retried once it comes of age, so no element leaves the
// screen before MinVisible plus the fade duration.
func (w *Wall) Retire(el *Element) {
	if el == nil || el.removed || el.fading {
		return
	}
	age := w.sched.Now().Sub(el.Created)
	if age < w.cfg.MinVisible {
		gen := el.gen
		wait := w.cfg.MinVisible - age + w.cfg.RetireSlack
		el.track(w.sched.After("retire", wait, func() {
			if !w.stale(el, gen) {
				w.Retire(el)
			}
		}))
		return
	}
	w.beginFade(el)
}

func (w *Wall) beginFade(el *Element) {
	el.fading = true
	el.gen++
	el.cancelTimers()
	w.renderer.Hide(el, w.cfg.FadeOut)
	w.emit(WallElementFading, el)

	gen := el.gen
	el.track(w.sched.AfterPriority("remove", w.cfg.FadeOut, PriorityLifecycle, func() {
		if !w.stale(el, gen) {
			w.removeNow(el)
		}
	}))
}

// removeNow takes an element off screen and returns its position and image
// to their pools.
func (w *Wall) removeNow(el *Element) {
	el.removed = true
	el.gen++
	el.cancelTimers()
	w.renderer.Remove(el)
	w.alloc.Release(el.Record)
	w.pool.Release(el.Image)
	if i := slices.Index(w.elements, el); i >= 0 {
		w.elements = slices.Delete(w.elements, i, i+1)
	}
	if w.turnoverVictim == el {
		w.turnoverActive = false
		w.turnoverVictim = nil
	}
	w.debugf("removed %s after %v", el.Image, w.sched.Now().Sub(el.Created))
	w.emit(WallElementRemoved, el)
}

// purge clears the wall immediately, dropping every scheduled spawn.
func (w *Wall) purge() {
	for _, el := range slices.Clone(w.elements) {
		w.removeNow(el)
	}
	for _, t := range w.spawnTimers {
		t.Cancel()
	}
	for _, t := range w.waveTimers {
		t.Cancel()
	}
	w.spawnTimers = nil
	w.waveTimers = nil
	w.pending = 0
	w.alloc.Reset()
	w.pool.Reset()
	w.turnoverActive = false
	w.turnoverVictim = nil
	w.emit(WallPurged, nil)
}
