package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestIgnored(t *testing.T) {
	for _, p := range []string{"tasks/.lock", "activity.jsonl", "overlay.db-journal", "overlay.db-wal"} {
		if !Ignored(p) {
			t.Errorf("%s should be ignored", p)
		}
	}
	for _, p := range []string{"tasks/001-a.md", "overlay.db", "config.yml"} {
		if Ignored(p) {
			t.Errorf("%s should trigger a reload", p)
		}
	}
}

func TestDebouncedReload(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	fired := make(chan struct{}, 8)

	w, err := NewWithDelay([]string{dir}, 50*time.Millisecond, func() {
		calls.Add(1)
		fired <- struct{}{}
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx, nil)

	if err := os.WriteFile(filepath.Join(dir, ".lock"), nil, 0o600); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(filepath.Join(dir, "001-a.md"), []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("callback not invoked")
	}
	time.Sleep(150 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Fatalf("callback ran %d times, want 1", n)
	}
}
