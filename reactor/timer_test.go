package reactor

import (
	"container/heap"
	"testing"
	"time"
)

func TestTimerHeapOrdering(t *testing.T) {
	h := &timerHeap{}
	heap.Init(h)

	now := time.Now()
	e1 := &timerEntry{when: now.Add(3 * time.Second)}
	e2 := &timerEntry{when: now.Add(1 * time.Second)}
	e3 := &timerEntry{when: now.Add(2 * time.Second)}

	heap.Push(h, e1)
	heap.Push(h, e2)
	heap.Push(h, e3)

	if first := heap.Pop(h).(*timerEntry); first != e2 {
		t.Fatal("expected earliest entry popped first")
	}
	if second := heap.Pop(h).(*timerEntry); second != e3 {
		t.Fatal("expected second-earliest entry popped second")
	}
}

func TestTimerHeapRemoveMid(t *testing.T) {
	h := &timerHeap{}
	heap.Init(h)

	now := time.Now()
	e1 := &timerEntry{when: now.Add(1 * time.Second)}
	e2 := &timerEntry{when: now.Add(2 * time.Second)}
	e3 := &timerEntry{when: now.Add(3 * time.Second)}
	heap.Push(h, e1)
	heap.Push(h, e2)
	heap.Push(h, e3)

	heap.Remove(h, e2.index)

	if h.Len() != 2 {
		t.Fatalf("expected 2 entries remaining, got %d", h.Len())
	}
	for _, e := range *h {
		if e == e2 {
			t.Fatal("removed entry still present in heap")
		}
	}
}

func TestTimerWatcherNegativeAfterLeavesUnarmed(t *testing.T) {
	loop, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer loop.Close()

	tw := loop.NewTimerWatcher(func() {})
	if tw.Start(-1, 0) {
		t.Fatal("negative after should leave the watcher unarmed")
	}
	if tw.IsActive() {
		t.Fatal("IsActive should be false after a rejected Start")
	}
}

func TestTimerWatcherNegativeRepeatNormalizesToOneShot(t *testing.T) {
	loop, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer loop.Close()

	tw := loop.NewTimerWatcher(func() {})
	if !tw.Start(0, -1) {
		t.Fatal("expected the watcher to arm")
	}
	if tw.entry.repeat != 0 {
		t.Fatalf("expected repeat normalized to 0, got %v", tw.entry.repeat)
	}
}

func TestTimerWatcherStopRemovesFromHeap(t *testing.T) {
	loop, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer loop.Close()

	tw := loop.NewTimerWatcher(func() {})
	if !tw.Start(10, 0) {
		t.Fatal("expected the watcher to arm")
	}
	before := loop.activeCount
	tw.Stop()
	if loop.activeCount != before-1 {
		t.Fatalf("expected activeCount to drop by one, got %d -> %d", before, loop.activeCount)
	}
	if len(loop.timers) != 0 {
		t.Fatalf("expected timer heap empty after Stop, got %d entries", len(loop.timers))
	}
}
