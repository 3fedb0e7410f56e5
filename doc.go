// Package evdispatch implements a generic, single-threaded event
// dispatcher over a reactor.Loop: a target registry keyed by caller-chosen
// identity (T comparable), a watcher-reuse rule that re-parameterizes
// rather than leaks file descriptors and timers, a single delivery rule
// (disable every watcher for a target before invoking its handler, re-arm
// them only if the handler returns true), and a cleanup protocol that
// delivers a terminal Cleanup event to every target with an active watcher
// and then releases every target before the loop tears down.
//
// # Usage
//
//	loop, err := reactor.New()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer loop.Close()
//
//	d := evdispatch.New[string](func(target string, revents reactor.EventMask, payload any) bool {
//		fmt.Println(target, revents, payload)
//		return true // re-arm
//	}, loop)
//
//	d.WatchTimer("heartbeat", 1.0) // seconds
//
//	if _, err := loop.Start(reactor.RunDefault); err != nil {
//		log.Fatal(err)
//	}
//
// # Target identity
//
// Targets are identified by T (any comparable type — an int, a string, a
// pointer), looked up via a plain Go map. The dispatcher never allocates
// or frees targets; callers own their identities and are responsible for
// choosing ones that do not collide unless collision is intended (all
// watch_* calls for the same T share one registry entry).
package evdispatch
