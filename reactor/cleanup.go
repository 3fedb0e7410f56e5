package reactor

// CleanupWatcher fires cb exactly once, when the outermost Start call is
// about to return — whether that is because RunDefault ran out of pending
// work, Stop was called, or a handler panicked. Unlike the other watcher
// kinds, it has no Stop-then-restart lifecycle during normal operation: a
// dispatcher registers one per Loop it uses and relies on the loop to fire
// it at most once.
type CleanupWatcher struct {
	loop   *Loop
	cb     func()
	active bool
	fired  bool
}

func (w *CleanupWatcher) IsActive() bool { return w.active }

// Stop deregisters the watcher so it will not fire on the next teardown.
func (w *CleanupWatcher) Stop() {
	if !w.active {
		return
	}
	w.active = false
	w.loop.removeCleanupWatcher(w)
}

// fire invokes cb at most once per registration.
func (w *CleanupWatcher) fire() {
	if w.fired {
		return
	}
	w.fired = true
	w.cb()
}
