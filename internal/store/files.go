package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/twiced-technology-gmbh/mioplan/internal/filelock"
	"github.com/twiced-technology-gmbh/mioplan/internal/task"
)

const (
	lockFileName = ".lock"
	dirMode      = 0o750
)

// Files keeps one markdown file per task in a directory. Writes hold an
// advisory lock on <dir>/.lock.
type Files struct {
	dir string

	mu       sync.Mutex
	warnings []string
}

// NewFiles returns a store over the task files in dir.
func NewFiles(dir string) *Files {
	return &Files{dir: dir}
}

// Dir returns the tasks directory.
func (f *Files) Dir() string { return f.dir }

// Warnings returns the files skipped by the last List.
func (f *Files) Warnings() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.warnings...)
}

// List reads every task file, skipping malformed ones.
func (f *Files) List(_ context.Context) ([]task.Task, error) {
	ptrs, warnings, err := task.ReadAllLenient(f.dir)
	if err != nil {
		return nil, err
	}
	msgs := make([]string, 0, len(warnings))
	for _, w := range warnings {
		msgs = append(msgs, fmt.Sprintf("skipping %s: %v", w.File, w.Err))
	}
	f.mu.Lock()
	f.warnings = msgs
	f.mu.Unlock()

	tasks := make([]task.Task, 0, len(ptrs))
	for _, t := range ptrs {
		tasks = append(tasks, *t)
	}
	return tasks, nil
}

// Get reads the task file for id.
func (f *Files) Get(_ context.Context, id int) (task.Task, error) {
	path, err := task.FindByID(f.dir, id)
	if err != nil {
		return task.Task{}, err
	}
	t, err := task.Read(path)
	if err != nil {
		return task.Task{}, err
	}
	return *t, nil
}

// Put writes t to its file, renaming the file when the title changed.
// A task with an unknown id gets a new file.
func (f *Files) Put(_ context.Context, t task.Task) error {
	if err := task.Validate(t); err != nil {
		return err
	}
	return f.locked(func() error {
		old, err := task.FindByID(f.dir, t.ID)
		if err != nil && !isNotFound(err) {
			return err
		}
		return f.write(t, old)
	})
}

// Create assigns the next free id to t and writes it.
func (f *Files) Create(_ context.Context, t task.Task) (task.Task, error) {
	if err := task.Validate(t); err != nil {
		return task.Task{}, err
	}
	err := f.locked(func() error {
		highest, err := task.MaxID(f.dir)
		if err != nil {
			return err
		}
		t.ID = highest + 1
		return f.write(t, "")
	})
	if err != nil {
		return task.Task{}, err
	}
	t.File = filepath.Join(f.dir, task.Filename(t))
	return t, nil
}

// Delete removes the task file for id.
func (f *Files) Delete(_ context.Context, id int) error {
	return f.locked(func() error {
		path, err := task.FindByID(f.dir, id)
		if err != nil {
			return err
		}
		return os.Remove(path)
	})
}

func (f *Files) write(t task.Task, oldPath string) error {
	path := filepath.Join(f.dir, task.Filename(t))
	if err := task.Write(path, &t); err != nil {
		return fmt.Errorf("writing task: %w", err)
	}
	if oldPath != "" && oldPath != path {
		if err := os.Remove(oldPath); err != nil {
			return fmt.Errorf("removing old file: %w", err)
		}
	}
	return nil
}

func (f *Files) locked(fn func() error) error {
	if err := os.MkdirAll(f.dir, dirMode); err != nil {
		return fmt.Errorf("creating tasks directory: %w", err)
	}
	return filelock.With(filepath.Join(f.dir, lockFileName), fn)
}
