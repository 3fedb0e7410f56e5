package reactor

import "testing"

func TestCleanupWatcherFiresOnce(t *testing.T) {
	w := &CleanupWatcher{active: true}
	calls := 0
	w.cb = func() { calls++ }

	w.fire()
	w.fire()

	if calls != 1 {
		t.Fatalf("expected exactly one call, got %d", calls)
	}
}

func TestLoopRunCleanupFiresEveryRegisteredWatcherAtMostOnce(t *testing.T) {
	loop, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer loop.Close()

	var calls int
	loop.RegisterCleanupWatcher(func() { calls++ })
	loop.RegisterCleanupWatcher(func() { calls++ })

	loop.runCleanup()
	loop.runCleanup() // idempotent: list was cleared, second call is a no-op

	if calls != 2 {
		t.Fatalf("expected 2 total calls, got %d", calls)
	}
	if len(loop.cleanupWatchers) != 0 {
		t.Fatalf("expected cleanupWatchers cleared, got %d remaining", len(loop.cleanupWatchers))
	}
}
