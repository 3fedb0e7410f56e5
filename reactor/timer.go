package reactor

import (
	"container/heap"
	"time"
)

// TimerWatcher fires cb repeatedly, libev-style: after seconds after the
// first Start, then every repeat seconds thereafter. A negative after
// normalizes to "do not arm" (IsActive stays false); a negative repeat
// normalizes to 0 (one-shot — the watcher goes inactive once it fires).
//
// Backed by a container/heap-based min-heap (timerHeap), generalised from
// a plain "submit a task at time T" model to after/repeat re-arming.
type TimerWatcher struct {
	loop   *Loop
	cb     func()
	active bool
	entry  *timerEntry
}

func (w *TimerWatcher) IsActive() bool { return w.active }

// Start (re)arms the watcher. If already active, the existing registration
// is stopped first. Returns IsActive() after the attempt.
func (w *TimerWatcher) Start(after, repeat float64) bool {
	w.Stop()

	if after < 0 {
		return false
	}
	if repeat < 0 {
		repeat = 0
	}

	now := w.loop.now()
	e := &timerEntry{
		watcher: w,
		repeat:  repeat,
		when:    now.Add(time.Duration(after * float64(time.Second))),
	}
	w.entry = e
	w.active = true
	w.loop.activeCount++
	heap.Push(&w.loop.timers, e)
	return true
}

func (w *TimerWatcher) Stop() {
	if !w.active {
		return
	}
	w.active = false
	w.loop.activeCount--
	if w.entry != nil && w.entry.index >= 0 {
		heap.Remove(&w.loop.timers, w.entry.index)
	}
	w.entry = nil
}

// timerEntry is one entry in the loop's timer min-heap.
type timerEntry struct {
	watcher *TimerWatcher
	when    time.Time
	repeat  float64
	index   int
}

// timerHeap implements container/heap.Interface, ordered by when ascending.
type timerHeap []*timerEntry

func (h timerHeap) Len() int            { return len(h) }
func (h timerHeap) Less(i, j int) bool  { return h[i].when.Before(h[j].when) }
func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	e := x.(*timerEntry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}
