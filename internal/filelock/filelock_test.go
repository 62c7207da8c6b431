package filelock

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
)

func TestWithSerializesWriters(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lock")

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		overlap bool
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := With(path, func() error {
				mu.Lock()
				inside++
				if inside > 1 {
					overlap = true
				}
				mu.Unlock()

				mu.Lock()
				inside--
				mu.Unlock()
				return nil
			})
			if err != nil {
				t.Errorf("with: %v", err)
			}
		}()
	}
	wg.Wait()
	if overlap {
		t.Fatal("two holders inside the lock")
	}
}

func TestWithReturnsCallbackError(t *testing.T) {
	want := errors.New("boom")
	if err := With(filepath.Join(t.TempDir(), ".lock"), func() error { return want }); !errors.Is(err, want) {
		t.Fatalf("err = %v", err)
	}
}
