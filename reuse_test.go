package evdispatch

import "testing"

type fakeWatcher struct{ active bool }

func (f *fakeWatcher) IsActive() bool { return f.active }
func (f *fakeWatcher) Stop()          { f.active = false }

func TestFindCompatibleIOMatchesFDOrUnbound(t *testing.T) {
	e := &targetEntry[string]{target: "T"}
	h1 := &watcherHandle[string]{kind: kindIO, fd: 3, w: &fakeWatcher{}}
	e.watchers = append(e.watchers, h1)

	if got := findCompatible(e, kindIO, 3, 0); got != h1 {
		t.Fatal("expected reuse of the watcher bound to the matching fd")
	}
	if got := findCompatible(e, kindIO, 7, 0); got != nil {
		t.Fatal("expected no match for a distinct, already-bound fd")
	}

	h2 := &watcherHandle[string]{kind: kindIO, fd: -1, w: &fakeWatcher{}}
	e.watchers = append(e.watchers, h2)
	if got := findCompatible(e, kindIO, 7, 0); got != h2 {
		t.Fatal("expected the never-bound (fd == -1) watcher to be reused")
	}
}

func TestFindCompatibleTimerIgnoresParams(t *testing.T) {
	e := &targetEntry[string]{target: "T"}
	ts := &watcherHandle[string]{kind: kindTimer, w: &fakeWatcher{}}
	e.watchers = append(e.watchers, ts)

	if got := findCompatible(e, kindTimer, 0, 0); got != ts {
		t.Fatal("expected the only timer watcher to be reused regardless of params")
	}
}

func TestFindCompatibleSignalMatchesSignumOrUnbound(t *testing.T) {
	e := &targetEntry[string]{target: "T"}
	sg := &watcherHandle[string]{kind: kindSignal, signum: 2, w: &fakeWatcher{}}
	e.watchers = append(e.watchers, sg)

	if got := findCompatible(e, kindSignal, 0, 2); got != sg {
		t.Fatal("expected reuse of the watcher bound to the matching signum")
	}
	if got := findCompatible(e, kindSignal, 0, 9); got != nil {
		t.Fatal("expected no match for a distinct, already-bound signum")
	}
}

func TestFindCompatibleReturnsNilForDifferentKind(t *testing.T) {
	e := &targetEntry[string]{target: "T"}
	e.watchers = append(e.watchers, &watcherHandle[string]{kind: kindTimer, w: &fakeWatcher{}})

	if got := findCompatible(e, kindIO, 3, 0); got != nil {
		t.Fatal("expected no match across differing kinds")
	}
}
