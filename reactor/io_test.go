//go:build linux || darwin

package reactor

import (
	"os"
	"testing"
	"time"
)

func TestIOWatcherFiresOnReadReadiness(t *testing.T) {
	loop, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer loop.Close()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Pipe: %v", err)
	}
	defer r.Close()
	defer w.Close()

	fired := make(chan EventMask, 1)
	iow := loop.NewIOWatcher(func(ev EventMask) {
		fired <- ev
		loop.Stop(StopOne)
	})
	if !iow.Start(int(r.Fd()), EventRead) {
		t.Fatal("expected the io watcher to arm")
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		_, _ = w.Write([]byte("x"))
	}()

	if _, err := loop.Start(RunDefault); err != nil {
		t.Fatalf("Start: %v", err)
	}

	select {
	case ev := <-fired:
		if !ev.Has(EventRead) {
			t.Fatalf("expected Read bit set, got %v", ev)
		}
	default:
		t.Fatal("io watcher never fired")
	}
}

func TestIOWatcherNegativeFDLeavesUnarmed(t *testing.T) {
	loop, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer loop.Close()

	iow := loop.NewIOWatcher(func(EventMask) {})
	if iow.Start(-1, EventRead) {
		t.Fatal("negative fd should leave the watcher unarmed")
	}
	if iow.Start(3, 0) {
		t.Fatal("zero events mask should leave the watcher unarmed")
	}
}
