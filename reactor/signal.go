package reactor

import (
	"os"
	"os/signal"
	"syscall"
)

// SignalWatcher fires cb once per delivery of a given process signal. The
// loop multiplexes a single os/signal.Notify registration per distinct
// signal number across every SignalWatcher watching it.
//
// Uses the loop's self-pipe wakeup (see wake/drainWake in loop.go) to kick
// a blocked poll syscall whenever a signal arrives, the classic self-pipe
// trick applied to os/signal delivery.
type SignalWatcher struct {
	loop   *Loop
	cb     func()
	active bool
	signum int
}

func (w *SignalWatcher) IsActive() bool { return w.active }

// Start (re)arms the watcher for signum. A negative signum leaves the
// watcher unarmed (IsActive() false). If already active, the existing
// registration is stopped first.
func (w *SignalWatcher) Start(signum int) bool {
	w.Stop()
	if signum < 0 {
		return false
	}
	w.signum = signum
	w.active = true
	w.loop.activeCount++
	w.loop.addSignalWatcher(signum, w)
	return true
}

func (w *SignalWatcher) Stop() {
	if !w.active {
		return
	}
	w.active = false
	w.loop.activeCount--
	w.loop.removeSignalWatcher(w.signum, w)
}

// signalMux is the loop's process-wide signal funnel: a single
// os/signal.Notify channel per distinct signal number, read by one
// background goroutine per number, which writes the signal number into the
// loop's sigCh and nudges the self-pipe so a blocked poll wakes up.
type signalMux struct {
	watchers map[int][]*SignalWatcher
	notifyCh map[int]chan os.Signal
	stopCh   map[int]chan struct{}
}

func newSignalMux() *signalMux {
	return &signalMux{
		watchers: make(map[int][]*SignalWatcher),
		notifyCh: make(map[int]chan os.Signal),
		stopCh:   make(map[int]chan struct{}),
	}
}

func (l *Loop) addSignalWatcher(signum int, w *SignalWatcher) {
	mux := l.sigMux
	mux.watchers[signum] = append(mux.watchers[signum], w)
	if _, ok := mux.notifyCh[signum]; ok {
		return
	}
	ch := make(chan os.Signal, 4)
	stop := make(chan struct{})
	mux.notifyCh[signum] = ch
	mux.stopCh[signum] = stop
	signal.Notify(ch, syscall.Signal(signum))
	go func() {
		for {
			select {
			case <-ch:
				l.sigCh <- signum
				l.wake()
			case <-stop:
				return
			}
		}
	}()
}

func (l *Loop) removeSignalWatcher(signum int, w *SignalWatcher) {
	mux := l.sigMux
	list := mux.watchers[signum]
	for i, cur := range list {
		if cur == w {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(mux.watchers, signum)
		if ch, ok := mux.notifyCh[signum]; ok {
			signal.Stop(ch)
			close(mux.stopCh[signum])
			delete(mux.notifyCh, signum)
			delete(mux.stopCh, signum)
		}
		return
	}
	mux.watchers[signum] = list
}

// dispatchSignal delivers a received signal number to every active watcher
// registered against it, called from the loop goroutine only.
//
// Ranges over a snapshot of the watcher slice, not the live one: a callback
// may synchronously call Stop, which removes itself from
// l.sigMux.watchers[signum] in place, and a range over the live backing
// array would re-read the mutated slice and skip the watcher shifted into
// the vacated index.
func (l *Loop) dispatchSignal(signum int) {
	watchers := append([]*SignalWatcher(nil), l.sigMux.watchers[signum]...)
	for _, w := range watchers {
		if w.active {
			w.cb()
		}
	}
}
