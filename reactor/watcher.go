package reactor

// EventMask is a bitset describing what kind of event a Watcher fired for.
// I/O watchers may report Read/Write/Error in combination; Timer, Signal and
// Cleanup watchers each report exactly one bit.
type EventMask uint32

const (
	EventRead EventMask = 1 << iota
	EventWrite
	EventError
	EventTimer
	EventSignal
	EventCleanup
)

func (m EventMask) Has(bit EventMask) bool { return m&bit != 0 }

// Watcher is the common handle returned by a Loop's New*Watcher factories.
// Every concrete watcher type (TimerWatcher, IOWatcher, SignalWatcher,
// CleanupWatcher) implements it.
type Watcher interface {
	// IsActive reports whether the watcher is currently armed with the
	// loop (i.e. it will fire again without a further Start call).
	IsActive() bool

	// Stop disarms the watcher. Idempotent: stopping an already-inactive
	// watcher is a no-op.
	Stop()
}

// RunMode selects how Loop.Start processes the event stream.
type RunMode int

const (
	// RunDefault blocks, processing events, until Stop is called or no
	// watcher registered against the loop is active (no pending work).
	RunDefault RunMode = iota

	// RunOnce runs a single loop iteration: due timers, one poll that blocks
	// at most until the next timer deadline or the poll ceiling, and pending
	// signals. It returns after that iteration even if nothing fired.
	RunOnce

	// RunNoWait polls for immediately-ready events without blocking and
	// returns, even if nothing fired.
	RunNoWait
)

// StopMode selects which nested Start frame(s) a Stop call terminates.
type StopMode int

const (
	// StopCancel clears a previously requested StopOne/StopAll on the
	// innermost frame, without otherwise affecting it.
	StopCancel StopMode = iota

	// StopOne terminates only the innermost active Start call.
	StopOne

	// StopAll terminates every nested Start call, unwinding the whole
	// call stack back to the outermost Start.
	StopAll
)
