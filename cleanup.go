package evdispatch

import "github.com/loopkit/evdispatch/reactor"

// runCleanup is the loop-level cleanup watcher's callback: it fires exactly
// once, when the outermost reactor.Loop.Start frame is about to return.
// Every Watch*/EnableWatching call no-ops for its duration.
func (d *Dispatcher[T]) runCleanup() {
	d.cleaning = true
	defer func() { d.cleaning = false }()

	all := make([]T, 0, len(d.entries))
	active := make([]T, 0, len(d.entries))
	for t, e := range d.entries {
		all = append(all, t)
		if e.hasActiveWatcher() {
			active = append(active, t)
		}
	}

	for _, t := range active {
		d.handleFire(t, reactor.EventCleanup, nil)
	}

	for _, t := range all {
		d.ReleaseWatching(t)
	}
}
