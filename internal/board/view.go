// Package board holds the in-memory task view the layout is drawn from,
// the per-lane render surface, overview counters, and the activity log.
package board

import (
	"slices"

	"github.com/twiced-technology-gmbh/mioplan/internal/lane"
	"github.com/twiced-technology-gmbh/mioplan/internal/task"
)

// View is the board's working copy of the task list. Mutations land here
// first and are never rolled back when persisting them fails.
type View struct {
	tasks []task.Task
}

// NewView returns a view over a copy of tasks.
func NewView(tasks []task.Task) *View {
	v := &View{tasks: make([]task.Task, 0, len(tasks))}
	for _, t := range tasks {
		v.tasks = append(v.tasks, t.Clone())
	}
	return v
}

// Tasks returns a copy of every task in source order.
func (v *View) Tasks() []task.Task {
	out := make([]task.Task, 0, len(v.tasks))
	for _, t := range v.tasks {
		out = append(out, t.Clone())
	}
	return out
}

// Replace swaps the whole task list, e.g. after a reload from the source.
func (v *View) Replace(tasks []task.Task) {
	v.tasks = v.tasks[:0]
	for _, t := range tasks {
		v.tasks = append(v.tasks, t.Clone())
	}
}

// Len returns the number of tasks.
func (v *View) Len() int { return len(v.tasks) }

// Get returns the task with id.
func (v *View) Get(id int) (task.Task, bool) {
	if i := v.index(id); i >= 0 {
		return v.tasks[i].Clone(), true
	}
	return task.Task{}, false
}

// Apply replaces the task with t's id, or appends t when it is new.
func (v *View) Apply(t task.Task) {
	if i := v.index(t.ID); i >= 0 {
		v.tasks[i] = t.Clone()
		return
	}
	v.tasks = append(v.tasks, t.Clone())
}

// Remove drops the task with id. It reports whether it was present.
func (v *View) Remove(id int) bool {
	i := v.index(id)
	if i < 0 {
		return false
	}
	v.tasks = slices.Delete(v.tasks, i, i+1)
	return true
}

// Lane returns the tasks sitting in id.
func (v *View) Lane(id lane.ID) []task.Task {
	var out []task.Task
	for _, t := range v.tasks {
		if lane.Of(t) == id {
			out = append(out, t.Clone())
		}
	}
	return out
}

func (v *View) index(id int) int {
	return slices.IndexFunc(v.tasks, func(t task.Task) bool { return t.ID == id })
}
