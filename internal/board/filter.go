package board

import (
	"slices"
	"strings"

	"github.com/twiced-technology-gmbh/mioplan/internal/lane"
	"github.com/twiced-technology-gmbh/mioplan/internal/task"
)

// FilterOptions defines which tasks to include.
type FilterOptions struct {
	Lanes    []lane.ID // any of these lanes; lane.Unsorted matches unclassified tasks
	Tag      string
	Search   string // case-insensitive substring match across title, description, and tags
	Unsorted bool   // only unclassified tasks
}

// Filter returns tasks matching all specified criteria (AND logic).
func Filter(tasks []task.Task, opts FilterOptions) []task.Task {
	var result []task.Task
	for _, t := range tasks {
		if matchesFilter(t, opts) {
			result = append(result, t)
		}
	}
	return result
}

func matchesFilter(t task.Task, opts FilterOptions) bool {
	id := lane.Of(t)
	if len(opts.Lanes) > 0 && !slices.Contains(opts.Lanes, id) {
		return false
	}
	if opts.Unsorted && id != lane.Unsorted {
		return false
	}
	if opts.Tag != "" && !slices.Contains(t.Tags, opts.Tag) {
		return false
	}
	if opts.Search != "" && !matchesSearch(t, opts.Search) {
		return false
	}
	return true
}

// matchesSearch performs case-insensitive substring matching across title, description, and tags.
func matchesSearch(t task.Task, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(t.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(t.Description), q) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}
