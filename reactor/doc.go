// Package reactor provides a single-threaded, cooperative event loop: the
// "library with run/break and per-watcher start/stop primitives" that the
// evdispatch package builds its target-registry semantics on top of.
//
// # Architecture
//
// A [Loop] owns exactly one instance of each platform poller (epoll on
// Linux, kqueue on Darwin), a timer min-heap, and a process-wide signal
// multiplexer funneled through a self-pipe. All three are driven from a
// single goroutine — the one that calls [Loop.Start] — except for signal
// delivery, which arrives through os/signal.Notify on a background goroutine
// started by the signal multiplexer and is handed off to the loop goroutine
// via the self-pipe wakeup.
//
// # Watchers
//
// [TimerWatcher], [IOWatcher], [SignalWatcher] and [CleanupWatcher] all
// implement [Watcher]. None of them are safe for concurrent Start/Stop calls
// from multiple goroutines; they are meant to be driven entirely from the
// loop goroutine, mirroring the cooperative model the dispatcher above them
// assumes.
//
// # Execution model
//
// [Loop.Start] supports three run modes ([RunDefault], [RunOnce],
// [RunNoWait]) and nested invocation: a watcher callback may itself call
// Start, and [Loop.Stop] distinguishes breaking the innermost frame
// ([StopOne]) from breaking every nested frame ([StopAll]).
//
// # Thread safety
//
// Loop, and every watcher type in this package, must only be driven from a
// single goroutine. This includes [Loop.Stop]: it sets the break flags
// without synchronisation, so calling it from another goroutine while Start
// runs is a data race.
package reactor
