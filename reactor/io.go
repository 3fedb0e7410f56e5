package reactor

// platformPoller is the narrow interface reactor.Loop drives; poller_linux.go
// and poller_darwin.go each provide one concrete implementation (epoll,
// kqueue respectively).
type platformPoller interface {
	init() error
	close() error
	add(fd int, events EventMask, cb func(EventMask)) error
	modify(fd int, events EventMask) error
	remove(fd int) error
	// poll blocks for up to timeoutMs (negative: forever, 0: return
	// immediately) and invokes ready callbacks inline. Returns the number
	// of fds with delivered events.
	poll(timeoutMs int) (int, error)
}

// IOWatcher fires cb with the readiness mask reported by the platform
// poller (Read/Write/Error in any combination) whenever fd becomes ready
// for one of the requested events.
//
// Registration goes through platformPoller.add/remove, with no
// RWMutex/atomic version counter guarding concurrent access: single-
// threaded cooperative access means only the loop goroutine ever touches
// the fd table.
type IOWatcher struct {
	loop   *Loop
	cb     func(EventMask)
	active bool
	fd     int
	events EventMask
}

func (w *IOWatcher) IsActive() bool { return w.active }

func (w *IOWatcher) Fd() int { return w.fd }

// Start (re)arms the watcher for fd and events. A negative fd or a zero
// events mask leaves the watcher unarmed. If already active, the existing
// registration is stopped first.
func (w *IOWatcher) Start(fd int, events EventMask) bool {
	w.Stop()
	if fd < 0 || events == 0 {
		return false
	}
	if err := w.loop.poller.add(fd, events, w.cb); err != nil {
		w.loop.logSetupFailure("watch_io", err)
		return false
	}
	w.fd = fd
	w.events = events
	w.active = true
	w.loop.activeCount++
	return true
}

func (w *IOWatcher) Stop() {
	if !w.active {
		return
	}
	w.active = false
	w.loop.activeCount--
	_ = w.loop.poller.remove(w.fd)
}
