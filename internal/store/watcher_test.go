package store

import (
	"context"
	"testing"
	"time"
)

func TestWatcherReportsExternalWrite(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer fs.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewWatcher(fs, nil)
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Simulate another process writing to the same state directory.
	other, err := NewFileStore(dir, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := other.Set(KeyState, "external"); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-w.Events():
		if ev.Key != KeyState {
			t.Errorf("key: got %q, want %q", ev.Key, KeyState)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change event observed")
	}
}

func TestWatcherClosesOnCancel(t *testing.T) {
	fs, err := NewFileStore(t.TempDir(), 0)
	if err != nil {
		t.Fatal(err)
	}
	defer fs.Close()

	ctx, cancel := context.WithCancel(context.Background())
	w := NewWatcher(fs, nil)
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	cancel()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-w.Events():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("events channel never closed after cancel")
		}
	}
}
