package evdispatch

import "github.com/loopkit/evdispatch/reactor"

// watcherKind discriminates the kind-specific identity a watcherHandle
// carries: timer, io, or signal.
type watcherKind int

const (
	kindTimer watcherKind = iota
	kindIO
	kindSignal
)

// watcherHandle pairs one reactor.Watcher with the kind-specific parameters
// the dispatcher needs to re-arm it or test it for reuse-compatibility,
// without reaching back into the concrete reactor type on every operation.
type watcherHandle[T comparable] struct {
	kind watcherKind
	w    reactor.Watcher

	// timer
	timeout float64

	// io
	fd       int
	ioEvents reactor.EventMask

	// signal
	signum int
}

// targetEntry is one registry row: a target identity and its ordered
// watcher sequence, in insertion order.
type targetEntry[T comparable] struct {
	target   T
	watchers []*watcherHandle[T]
}

func (e *targetEntry[T]) hasActiveWatcher() bool {
	for _, h := range e.watchers {
		if h.w.IsActive() {
			return true
		}
	}
	return false
}
