// Package watcher reloads the board when its task files or database change.
package watcher

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts of writes (a save rewrites and renames a
// task file) into one notification.
const DefaultDebounce = 100 * time.Millisecond

// ignored holds names the board writes itself on every mutation.
var ignored = map[string]bool{
	".lock":          true,
	"activity.jsonl": true,
	"logs":           true,
}

// Ignored reports whether an event on path should not trigger a reload.
// SQLite journal and WAL side files are skipped as well.
func Ignored(path string) bool {
	name := filepath.Base(path)
	if ignored[name] {
		return true
	}
	return strings.HasSuffix(name, "-journal") || strings.HasSuffix(name, "-wal") || strings.HasSuffix(name, "-shm")
}

// Watcher watches board directories and invokes a callback, debounced.
type Watcher struct {
	fsw      *fsnotify.Watcher
	delay    time.Duration
	mu       sync.Mutex
	timer    *time.Timer
	callback func()
}

// New watches paths and calls callback after changes settle for DefaultDebounce.
func New(paths []string, callback func()) (*Watcher, error) {
	return NewWithDelay(paths, DefaultDebounce, callback)
}

// NewWithDelay is New with a custom debounce delay.
func NewWithDelay(paths []string, delay time.Duration, callback func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		if err := fsw.Add(p); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return &Watcher{fsw: fsw, delay: delay, callback: callback}, nil
}

// Run blocks until ctx is canceled. Watcher errors go to errFn when set.
func (w *Watcher) Run(ctx context.Context, errFn func(error)) {
	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if Ignored(event.Name) {
				continue
			}
			w.debounce()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if errFn != nil {
				errFn(err)
			}
		}
	}
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) debounce() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.callback)
}
