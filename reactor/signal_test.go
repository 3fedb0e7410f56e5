//go:build linux || darwin

package reactor

import (
	"os"
	"syscall"
	"testing"
	"time"
)

func TestSignalWatcherDeliversOnMatchingSignal(t *testing.T) {
	loop, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer loop.Close()

	fired := make(chan struct{}, 1)
	sw := loop.NewSignalWatcher(func() {
		select {
		case fired <- struct{}{}:
		default:
		}
		loop.Stop(StopOne)
	})
	if !sw.Start(int(syscall.SIGUSR1)) {
		t.Fatal("expected the signal watcher to arm")
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = syscall.Kill(os.Getpid(), syscall.SIGUSR1)
	}()

	if _, err := loop.Start(RunDefault); err != nil {
		t.Fatalf("Start: %v", err)
	}

	select {
	case <-fired:
	default:
		t.Fatal("signal watcher never fired")
	}
}

func TestSignalWatcherNegativeSignumLeavesUnarmed(t *testing.T) {
	loop, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer loop.Close()

	sw := loop.NewSignalWatcher(func() {})
	if sw.Start(-1) {
		t.Fatal("negative signum should leave the watcher unarmed")
	}
}

func TestSignalMuxTeardownOnLastWatcherRemoved(t *testing.T) {
	loop, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer loop.Close()

	sw1 := loop.NewSignalWatcher(func() {})
	sw2 := loop.NewSignalWatcher(func() {})

	sw1.Start(int(syscall.SIGUSR2))
	sw2.Start(int(syscall.SIGUSR2))

	sw1.Stop()
	if _, ok := loop.sigMux.notifyCh[int(syscall.SIGUSR2)]; !ok {
		t.Fatal("expected notifyCh to remain while a watcher is still registered")
	}

	sw2.Stop()
	if _, ok := loop.sigMux.notifyCh[int(syscall.SIGUSR2)]; ok {
		t.Fatal("expected notifyCh torn down once the last watcher is removed")
	}
}
