package reactor

import (
	"container/heap"
	"sync"
	"time"
)

var (
	defaultLoopOnce sync.Once
	defaultLoop     *Loop
)

// Current returns the process-wide default Loop, constructing it (with no
// options) on first use.
func Current() *Loop {
	defaultLoopOnce.Do(func() {
		l, err := New()
		if err != nil {
			// Init only fails if the platform poller or self-pipe can't be
			// created, which means the process cannot do I/O at all; there
			// is no sane fallback.
			panic(err)
		}
		defaultLoop = l
	})
	return defaultLoop
}

// runFrame tracks the break state of one nested Start invocation.
type runFrame struct {
	breakOne bool
}

// Loop is a single-threaded, cooperative event loop: one platform poller
// (epoll/kqueue), one timer min-heap, and a signal multiplexer, all driven
// from the goroutine that calls Start.
//
// New/Start/tick/Close and the wake-pipe fields follow a familiar reactor
// shape (New/Run/run/tick/shutdown, wakePipe/wakePipeWrite/drainWakeUpPipe),
// simplified from a multi-producer/multi-consumer design (mutexed ingress
// queues, atomic fast-state, dual fast-path/IO-path execution) down to a
// plain single-threaded reactor: no multi-threaded dispatch, no
// cross-thread submission surface.
type Loop struct {
	poller platformPoller
	timers timerHeap

	sigMux *signalMux
	sigCh  chan int

	cleanupWatchers []*CleanupWatcher

	wakeR, wakeW int
	wakeBuf      [64]byte

	state       LoopState
	runStack    []*runFrame
	breakAll    bool
	activeCount int

	logger         Logger
	maxPollTimeout time.Duration
	limiter        RateLimiter
}

// New constructs a Loop. The returned Loop owns OS resources (the platform
// poller's fd, a self-pipe) that must be released with Close.
func New(opts ...Option) (*Loop, error) {
	cfg := resolveOptions(opts)

	l := &Loop{
		poller:         newPlatformPoller(),
		sigMux:         newSignalMux(),
		sigCh:          make(chan int, 16),
		logger:         cfg.logger,
		maxPollTimeout: cfg.maxPollTimeout,
		limiter:        cfg.limiter,
	}

	if err := l.poller.init(); err != nil {
		return nil, err
	}

	r, w, err := selfPipe()
	if err != nil {
		_ = l.poller.close()
		return nil, err
	}
	l.wakeR, l.wakeW = r, w

	if err := l.poller.add(l.wakeR, EventRead, l.drainWake); err != nil {
		_ = closeFD(l.wakeR)
		_ = closeFD(l.wakeW)
		_ = l.poller.close()
		return nil, err
	}

	return l, nil
}

// now is the loop's notion of the current time; a seam for tests to
// override it is intentionally not provided — timers only need wall-clock
// re-arming semantics, not fakeable time.
func (l *Loop) now() time.Time { return time.Now() }

func (l *Loop) wake() {
	_, _ = writeFD(l.wakeW, []byte{0})
}

func (l *Loop) drainWake(EventMask) {
	for {
		n, err := readFD(l.wakeR, l.wakeBuf[:])
		if n <= 0 || err != nil {
			return
		}
		if n < len(l.wakeBuf) {
			return
		}
	}
}

// NewTimerWatcher creates a TimerWatcher bound to this loop, inactive until
// Start is called.
func (l *Loop) NewTimerWatcher(cb func()) *TimerWatcher {
	return &TimerWatcher{loop: l, cb: cb}
}

// NewIOWatcher creates an IOWatcher bound to this loop, inactive until
// Start is called.
func (l *Loop) NewIOWatcher(cb func(EventMask)) *IOWatcher {
	w := &IOWatcher{loop: l}
	w.cb = func(ev EventMask) { cb(ev) }
	return w
}

// NewSignalWatcher creates a SignalWatcher bound to this loop, inactive
// until Start is called.
func (l *Loop) NewSignalWatcher(cb func()) *SignalWatcher {
	return &SignalWatcher{loop: l, cb: cb}
}

// RegisterCleanupWatcher creates and activates a CleanupWatcher bound to
// this loop. Unlike the other watcher kinds it is active immediately; there
// is no separate Start call, since a cleanup watcher's only parameter is
// the callback itself.
func (l *Loop) RegisterCleanupWatcher(cb func()) *CleanupWatcher {
	w := &CleanupWatcher{loop: l, cb: cb, active: true}
	l.cleanupWatchers = append(l.cleanupWatchers, w)
	return w
}

func (l *Loop) removeCleanupWatcher(w *CleanupWatcher) {
	for i, cur := range l.cleanupWatchers {
		if cur == w {
			l.cleanupWatchers = append(l.cleanupWatchers[:i], l.cleanupWatchers[i+1:]...)
			return
		}
	}
}

// Start drives the loop according to mode. It returns true iff, when it
// returns, the loop still has pending work (at least one active watcher
// registered against it).
//
// Start may be called reentrantly from a watcher callback running on the
// same goroutine (a "nested Start frame"); Stop(StopOne) terminates only
// the innermost such frame, Stop(StopAll) unwinds every nested frame back
// to the outermost caller.
func (l *Loop) Start(mode RunMode) (pending bool, err error) {
	if l.state == StateClosed {
		return false, ErrLoopClosed
	}

	frame := &runFrame{}
	l.runStack = append(l.runStack, frame)
	depth := len(l.runStack)
	l.state = StateRunning

	defer func() {
		l.runStack = l.runStack[:depth-1]
		if depth == 1 {
			l.breakAll = false
			if l.state != StateClosed {
				l.state = StateIdle
			}
		}

		if r := recover(); r != nil {
			if depth == 1 {
				l.runCleanup()
			}
			panic(r)
		}
	}()

	switch mode {
	case RunOnce:
		l.tick(l.pollTimeout())
	case RunNoWait:
		l.tick(0)
	default: // RunDefault
		for !frame.breakOne && !l.breakAll && l.activeCount > 0 {
			l.tick(l.pollTimeout())
		}
	}

	if depth == 1 && (l.breakAll || frame.breakOne || (mode == RunDefault && l.activeCount == 0)) {
		l.runCleanup()
	}

	return l.activeCount > 0, nil
}

// Stop requests termination per how. It sets the break flags without
// synchronisation, so it is not safe to call from another goroutine while
// Start runs. Its effect is observed once the loop next checks its break
// condition; Stop also nudges the self-pipe so a blocked poll wakes promptly.
func (l *Loop) Stop(how StopMode) {
	switch how {
	case StopAll:
		l.breakAll = true
	case StopOne:
		if n := len(l.runStack); n > 0 {
			l.runStack[n-1].breakOne = true
		}
	case StopCancel:
		if n := len(l.runStack); n > 0 {
			l.runStack[n-1].breakOne = false
		}
		l.breakAll = false
	}
	l.wake()
}

// pollTimeout computes how long the next poll may block: up to the next
// timer deadline, capped at maxPollTimeout so a poll never blocks longer
// than that, even with no timers pending.
func (l *Loop) pollTimeout() int {
	ceiling := l.maxPollTimeout
	if len(l.timers) == 0 {
		return int(ceiling / time.Millisecond)
	}
	d := time.Until(l.timers[0].when)
	if d < 0 {
		d = 0
	}
	if d > ceiling {
		d = ceiling
	}
	return int(d / time.Millisecond)
}

// tick runs timers due so far, polls I/O for up to timeoutMs, and drains
// any signal numbers delivered since the last tick.
func (l *Loop) tick(timeoutMs int) {
	l.runTimers()

	if n, err := l.poller.poll(timeoutMs); err != nil {
		l.logger.Log(LevelWarn, "poll", "poll error", err, nil)
		_ = n
	}

	l.drainSignals()
	l.runTimers()
}

func (l *Loop) runTimers() {
	now := l.now()
	for len(l.timers) > 0 && !l.timers[0].when.After(now) {
		e := heap.Pop(&l.timers).(*timerEntry)
		w := e.watcher
		w.entry = nil
		if e.repeat > 0 {
			e.when = now.Add(time.Duration(e.repeat * float64(time.Second)))
			e.index = -1
			heap.Push(&l.timers, e)
			w.entry = e
		} else {
			w.active = false
			l.activeCount--
		}
		w.cb()
		// Note: w.cb (the dispatcher's handleFire closure) may itself call
		// Stop/Start on w via the disable-before-handler / re-arm-on-true
		// rule; activeCount bookkeeping for that path lives in
		// TimerWatcher.Start/Stop, not here.
	}
}

func (l *Loop) drainSignals() {
	for {
		select {
		case s := <-l.sigCh:
			l.dispatchSignal(s)
		default:
			return
		}
	}
}

// runCleanup fires every registered CleanupWatcher at most once, then
// leaves them deregistered. Called by Start when the outermost frame is
// about to return, whether due to exhausted work, an explicit Stop, or a
// propagating panic (see the deferred recover above).
func (l *Loop) runCleanup() {
	watchers := l.cleanupWatchers
	l.cleanupWatchers = nil
	for _, w := range watchers {
		w.active = false
		w.fire()
	}
}

// Close releases the loop's OS resources (the platform poller, the
// self-pipe). It does not run the cleanup protocol; call Stop(StopAll) and
// let an outermost Start return first if cleanup must run.
func (l *Loop) Close() error {
	if l.state == StateClosed {
		return nil
	}
	l.state = StateClosed
	_ = closeFD(l.wakeR)
	_ = closeFD(l.wakeW)
	return l.poller.close()
}

// State reports the loop's current lifecycle stage.
func (l *Loop) State() LoopState { return l.state }
