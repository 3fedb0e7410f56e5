package evdispatch

import "github.com/loopkit/evdispatch/reactor"

// OnEvent is called for every delivered event, including the synthetic
// Cleanup event. Every one of the target's watchers is disabled just before
// the call; a truthy return re-arms them all, a falsy return leaves them
// stopped but still registered. During cleanup the return value is ignored.
type OnEvent[T comparable] func(target T, revents reactor.EventMask, payload any) bool

// OnApply is called exactly once when target first appears in the registry.
type OnApply[T comparable] func(target T)

// OnFree is called exactly once when target leaves the registry, pairing
// one-to-one with the OnApply call for the same appearance.
type OnFree[T comparable] func(target T)

// Dispatcher routes loop events to targets of type T: a target-identity ->
// watcher-sequence registry, the watcher-reuse rule (reuse.go), the
// disable/call/maybe-re-arm delivery rule, and the end-of-loop cleanup
// protocol (cleanup.go).
//
// Generalises a "submit a task, get a callback" model into "one callback
// per (target, kind) registration", so a single handler observes every
// event for a target regardless of which of its watchers produced it.
type Dispatcher[T comparable] struct {
	loop    *reactor.Loop
	onEvent OnEvent[T]
	onApply OnApply[T]
	onFree  OnFree[T]

	entries  map[T]*targetEntry[T]
	cleaning bool
	cleanupW *reactor.CleanupWatcher
}

// New constructs a Dispatcher with no apply/free hooks.
func New[T comparable](onEvent OnEvent[T], loop *reactor.Loop) *Dispatcher[T] {
	return NewWithHooks[T](onEvent, nil, nil, loop)
}

// NewWithHooks constructs a Dispatcher with apply/free hooks, each called
// exactly once per target appearance/departure.
func NewWithHooks[T comparable](onEvent OnEvent[T], onApply OnApply[T], onFree OnFree[T], loop *reactor.Loop) *Dispatcher[T] {
	if onEvent == nil {
		panic(panicNilOnEvent)
	}
	if loop == nil {
		panic(panicNilLoop)
	}

	d := &Dispatcher[T]{
		loop:    loop,
		onEvent: onEvent,
		onApply: onApply,
		onFree:  onFree,
		entries: make(map[T]*targetEntry[T]),
	}
	d.cleanupW = loop.RegisterCleanupWatcher(d.runCleanup)
	return d
}

// entryFor returns target's registry row, creating it (and calling onApply)
// if this is the target's first appearance.
func (d *Dispatcher[T]) entryFor(target T) *targetEntry[T] {
	if e, ok := d.entries[target]; ok {
		return e
	}
	e := &targetEntry[T]{target: target}
	d.entries[target] = e
	if d.onApply != nil {
		d.onApply(target)
	}
	return e
}

// WatchTimer installs or reuses a timer watcher for target with after =
// repeat = timeout seconds. Refuses while cleanup is in progress. A target's
// first watcher is only added to the registry (and only fires onApply) once
// Start actually succeeds; a setup failure on a brand-new target leaves the
// registry untouched.
func (d *Dispatcher[T]) WatchTimer(target T, timeout float64) bool {
	if d.cleaning {
		return false
	}

	if entry, ok := d.entries[target]; ok {
		if h := findCompatible(entry, kindTimer, 0, 0); h != nil {
			h.w.Stop()
			h.timeout = timeout
			return h.w.(*reactor.TimerWatcher).Start(timeout, timeout)
		}
	}

	h := &watcherHandle[T]{kind: kindTimer, timeout: timeout}
	h.w = d.loop.NewTimerWatcher(func() {
		d.handleFire(target, reactor.EventTimer, nil)
	})
	if !h.w.(*reactor.TimerWatcher).Start(timeout, timeout) {
		return false
	}

	entry := d.entryFor(target)
	entry.watchers = append(entry.watchers, h)
	return true
}

// WatchIO installs or reuses an I/O watcher for target bound to fd. payload
// delivered to onEvent is fd. Same registry-on-success-only rule as
// WatchTimer.
func (d *Dispatcher[T]) WatchIO(target T, fd int, events reactor.EventMask) bool {
	if d.cleaning {
		return false
	}

	if entry, ok := d.entries[target]; ok {
		if h := findCompatible(entry, kindIO, fd, 0); h != nil {
			h.w.Stop()
			ok := h.w.(*reactor.IOWatcher).Start(fd, events)
			if ok {
				h.fd = fd
				h.ioEvents = events
			}
			return ok
		}
	}

	h := &watcherHandle[T]{kind: kindIO, fd: -1}
	h.w = d.loop.NewIOWatcher(func(ev reactor.EventMask) {
		d.handleFire(target, ev, h.fd)
	})
	if !h.w.(*reactor.IOWatcher).Start(fd, events) {
		return false
	}
	h.fd = fd
	h.ioEvents = events

	entry := d.entryFor(target)
	entry.watchers = append(entry.watchers, h)
	return true
}

// WatchSignal installs or reuses a signal watcher for target bound to
// signum. payload delivered to onEvent is signum. Same
// registry-on-success-only rule as WatchTimer.
func (d *Dispatcher[T]) WatchSignal(target T, signum int) bool {
	if d.cleaning {
		return false
	}

	if entry, ok := d.entries[target]; ok {
		if h := findCompatible(entry, kindSignal, 0, signum); h != nil {
			h.w.Stop()
			ok := h.w.(*reactor.SignalWatcher).Start(signum)
			if ok {
				h.signum = signum
			}
			return ok
		}
	}

	h := &watcherHandle[T]{kind: kindSignal, signum: -1}
	h.w = d.loop.NewSignalWatcher(func() {
		d.handleFire(target, reactor.EventSignal, h.signum)
	})
	if !h.w.(*reactor.SignalWatcher).Start(signum) {
		return false
	}
	h.signum = signum

	entry := d.entryFor(target)
	entry.watchers = append(entry.watchers, h)
	return true
}

// EnableWatching arms every currently-inactive watcher of target. Refuses
// (returns false) while cleanup is in progress or target is unknown.
func (d *Dispatcher[T]) EnableWatching(target T) bool {
	if d.cleaning {
		return false
	}
	e, ok := d.entries[target]
	if !ok {
		return false
	}
	d.armAll(e)
	return true
}

// DisableWatching stops every watcher of target. Not guarded by the
// cleaning flag, like disableAll, which handleFire runs as the first step of
// every delivery, including the cleanup pass's own delivery of the synthetic
// Cleanup event.
func (d *Dispatcher[T]) DisableWatching(target T) bool {
	e, ok := d.entries[target]
	if !ok {
		return false
	}
	d.disableAll(e)
	return true
}

// ReleaseWatching stops every watcher of target, removes the registry
// entry, and calls onFree if configured. Idempotent: releasing an already
// absent (or never-present) target returns false, no-op. Not guarded by the
// cleaning flag, since cleanup's own last step is a call to this method for
// every remaining target.
func (d *Dispatcher[T]) ReleaseWatching(target T) bool {
	e, ok := d.entries[target]
	if !ok {
		return false
	}
	d.disableAll(e)
	delete(d.entries, target)
	if d.onFree != nil {
		d.onFree(target)
	}
	return true
}

func (d *Dispatcher[T]) disableAll(e *targetEntry[T]) {
	for _, h := range e.watchers {
		h.w.Stop()
	}
}

func (d *Dispatcher[T]) armAll(e *targetEntry[T]) {
	for _, h := range e.watchers {
		if h.w.IsActive() {
			continue
		}
		switch h.kind {
		case kindTimer:
			h.w.(*reactor.TimerWatcher).Start(h.timeout, h.timeout)
		case kindIO:
			h.w.(*reactor.IOWatcher).Start(h.fd, h.ioEvents)
		case kindSignal:
			h.w.(*reactor.SignalWatcher).Start(h.signum)
		}
	}
}

// handleFire is the single delivery path every watcher callback funnels
// through, and the one cleanup reuses to deliver the synthetic Cleanup
// event.
func (d *Dispatcher[T]) handleFire(target T, revents reactor.EventMask, payload any) {
	e, ok := d.entries[target]
	if !ok {
		// The target was released by an earlier event in the same tick
		// (e.g. another of its watchers already fired and the handler
		// released it); nothing left to disable or deliver to.
		return
	}

	d.disableAll(e)
	rearm := d.onEvent(target, revents, payload)

	if d.cleaning {
		// The handler's return value is ignored during cleanup — every
		// watcher is about to be released regardless.
		return
	}

	if !rearm {
		return
	}

	// Release is authoritative. If the handler released target during the
	// call above, d.entries no longer holds e (or holds a different entry
	// created by a fresh watch_* call) — either way, do not re-arm the
	// entry that just fired.
	if cur, stillLive := d.entries[target]; stillLive && cur == e {
		d.armAll(e)
	}
}
