package board

import (
	"sort"
	"strings"

	"github.com/twiced-technology-gmbh/mioplan/internal/lane"
	"github.com/twiced-technology-gmbh/mioplan/internal/task"
)

// Sort fields.
const (
	FieldID    = "id"
	FieldTitle = "title"
	FieldStart = "start"
	FieldLane  = "lane"
)

// ValidSortFields returns the accepted --sort values.
func ValidSortFields() []string {
	return []string{FieldID, FieldTitle, FieldStart, FieldLane}
}

// SortTasks sorts tasks by field. Lanes sort in board order with Unsorted
// last; missing start dates sort last.
func SortTasks(tasks []task.Task, field string, reverse bool) {
	sort.SliceStable(tasks, func(i, j int) bool {
		less := compareTasks(tasks[i], tasks[j], field)
		if reverse {
			return !less
		}
		return less
	})
}

func compareTasks(a, b task.Task, field string) bool {
	switch field {
	case FieldTitle:
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	case FieldStart:
		return compareStart(a, b)
	case FieldLane:
		ai, bi := laneRank(a), laneRank(b)
		if ai != bi {
			return ai < bi
		}
		return compareStart(a, b)
	default:
		return a.ID < b.ID
	}
}

func compareStart(a, b task.Task) bool {
	if a.StartDate == nil && b.StartDate == nil {
		return a.ID < b.ID
	}
	if a.StartDate == nil {
		return false // nil sorts last
	}
	if b.StartDate == nil {
		return true
	}
	if a.StartDate.Equal(*b.StartDate) {
		return a.ID < b.ID
	}
	return a.StartDate.Before(*b.StartDate)
}

func laneRank(t task.Task) int {
	if i := lane.Index(lane.Of(t)); i >= 0 {
		return i
	}
	return len(lane.All())
}
