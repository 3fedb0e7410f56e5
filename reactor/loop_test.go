package reactor

import "testing"

func TestStartRunDefaultReturnsImmediatelyWithNoPendingWork(t *testing.T) {
	loop, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer loop.Close()

	pending, err := loop.Start(RunDefault)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if pending {
		t.Fatal("expected no pending work to be reported")
	}
}

func TestStartOnClosedLoopReturnsErrLoopClosed(t *testing.T) {
	loop, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := loop.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := loop.Start(RunNoWait); err != ErrLoopClosed {
		t.Fatalf("expected ErrLoopClosed, got %v", err)
	}
}

// A Stop(StopOne) called from a nested Start frame unwinds only that frame,
// letting the outer callback resume and the outer frame stop itself
// separately. Driven through nested Start calls on a single goroutine
// rather than a real signal, since the loop is strictly
// single-threaded/cooperative.
func TestNestedStopOneExitsOnlyTheInnermostFrame(t *testing.T) {
	loop, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer loop.Close()

	var innerRan, outerContinued bool

	outer := loop.NewTimerWatcher(func() {
		inner := loop.NewTimerWatcher(func() {
			innerRan = true
			loop.Stop(StopOne)
		})
		inner.Start(0, 0)

		if _, err := loop.Start(RunOnce); err != nil {
			t.Errorf("nested Start: %v", err)
		}

		outerContinued = true
		loop.Stop(StopOne)
	})
	outer.Start(0, 0)

	if _, err := loop.Start(RunDefault); err != nil {
		t.Fatalf("outer Start: %v", err)
	}

	if !innerRan {
		t.Fatal("inner timer callback never ran")
	}
	if !outerContinued {
		t.Fatal("outer callback did not resume after the nested Start returned")
	}
}

func TestPanicPropagatesAfterCleanupRuns(t *testing.T) {
	loop, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer loop.Close()

	var cleanedUp bool
	loop.RegisterCleanupWatcher(func() { cleanedUp = true })

	tw := loop.NewTimerWatcher(func() { panic("boom") })
	tw.Start(0, 0)

	defer func() {
		r := recover()
		if r != "boom" {
			t.Fatalf("expected panic value %q, got %v", "boom", r)
		}
		if !cleanedUp {
			t.Fatal("cleanup did not run before the panic propagated")
		}
	}()

	loop.Start(RunDefault)
	t.Fatal("Start should not have returned normally")
}
