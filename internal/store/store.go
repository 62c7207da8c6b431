// Package store connects the board to wherever tasks live: markdown task
// files, a SQLite overlay, or a remote mioplan server.
package store

import (
	"context"
	"fmt"
	"slices"

	"github.com/twiced-technology-gmbh/mioplan/internal/clierr"
	"github.com/twiced-technology-gmbh/mioplan/internal/task"
)

// Source supplies the tasks shown on the board.
type Source interface {
	List(ctx context.Context) ([]task.Task, error)
}

// Sink persists one mutated task.
type Sink interface {
	Put(ctx context.Context, t task.Task) error
}

// Store is a Source and Sink that can also look up single tasks.
type Store interface {
	Source
	Sink
	Get(ctx context.Context, id int) (task.Task, error)
}

// Creator is implemented by stores that assign ids to new tasks.
type Creator interface {
	Create(ctx context.Context, t task.Task) (task.Task, error)
}

// Deleter is implemented by stores that can remove tasks.
type Deleter interface {
	Delete(ctx context.Context, id int) error
}

// Warner is implemented by stores that skip unreadable records.
type Warner interface {
	Warnings() []string
}

// find returns the task with id from tasks.
func find(tasks []task.Task, id int) (task.Task, error) {
	i := slices.IndexFunc(tasks, func(t task.Task) bool { return t.ID == id })
	if i < 0 {
		return task.Task{}, task.NotFound(id)
	}
	return tasks[i], nil
}

func isNotFound(err error) bool {
	return clierr.HasCode(err, clierr.TaskNotFound)
}

// Merge overlays local placements on tasks from a remote source. Remote
// tasks keep their identity, title, description and tags; the overlay
// supplies importance and complexity and each date, a missing overlay date
// falling back to the remote one. Overlay entries for unknown ids are
// ignored. The result follows remote order.
func Merge(remote, overlay []task.Task) []task.Task {
	byID := make(map[int]task.Task, len(overlay))
	for _, o := range overlay {
		byID[o.ID] = o
	}

	merged := make([]task.Task, 0, len(remote))
	for _, r := range remote {
		m := r.Clone()
		if o, ok := byID[r.ID]; ok {
			m.Importance = o.Importance
			m.Complexity = o.Complexity
			if o.StartDate != nil {
				d := *o.StartDate
				m.StartDate = &d
			}
			if o.EndDate != nil {
				d := *o.EndDate
				m.EndDate = &d
			}
		}
		merged = append(merged, m)
	}
	return merged
}

// Merged serves remote tasks with placements from a local overlay store.
// Writes go to the overlay only.
type Merged struct {
	Remote  Source
	Overlay Store
}

// List fetches both sides and merges them.
func (m *Merged) List(ctx context.Context) ([]task.Task, error) {
	remote, err := m.Remote.List(ctx)
	if err != nil {
		return nil, err
	}
	overlay, err := m.Overlay.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading overlay: %w", err)
	}
	return Merge(remote, overlay), nil
}

// Get returns one merged task.
func (m *Merged) Get(ctx context.Context, id int) (task.Task, error) {
	tasks, err := m.List(ctx)
	if err != nil {
		return task.Task{}, err
	}
	return find(tasks, id)
}

// Put stores t in the overlay.
func (m *Merged) Put(ctx context.Context, t task.Task) error {
	return m.Overlay.Put(ctx, t)
}

// Backend names used in configuration.
const (
	BackendFiles  = "files"
	BackendSQLite = "sqlite"
	BackendHTTP   = "http"
)
