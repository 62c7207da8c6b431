// Package lane defines the nine importance x complexity tracks of the board,
// the Unsorted bucket, and the slot packer that stacks overlapping tasks
// within a track.
package lane

import (
	"strings"

	"github.com/twiced-technology-gmbh/mioplan/internal/clierr"
	"github.com/twiced-technology-gmbh/mioplan/internal/task"
)

// ID identifies a lane as "<importance>-<complexity>", e.g. "high-low".
type ID string

// Unsorted is the bucket holding every unclassified task.
const Unsorted ID = "unsorted"

// Lane is one fixed (importance, complexity) track.
type Lane struct {
	ID         ID         `json:"id"`
	Importance task.Level `json:"importance"`
	Complexity task.Level `json:"complexity"`
	Label      string     `json:"label"`
	Color      string     `json:"color"`
}

var colors = map[ID]string{
	"high-high":     "#ef4444",
	"high-medium":   "#f97316",
	"high-low":      "#eab308",
	"medium-high":   "#3b82f6",
	"medium-medium": "#6366f1",
	"medium-low":    "#8b5cf6",
	"low-high":      "#22c55e",
	"low-medium":    "#14b8a6",
	"low-low":       "#84cc16",
}

const unsortedColor = "#6b7280"

var (
	importanceLabels = map[task.Level]string{task.High: "Important", task.Medium: "Moderate", task.Low: "Minor"}
	complexityLabels = map[task.Level]string{task.High: "Hard", task.Medium: "Medium", task.Low: "Easy"}
)

var all = build()

func build() []Lane {
	lanes := make([]Lane, 0, len(colors))
	for _, imp := range task.Levels() {
		for _, cmp := range task.Levels() {
			id := Join(imp, cmp)
			lanes = append(lanes, Lane{
				ID:         id,
				Importance: imp,
				Complexity: cmp,
				Label:      importanceLabels[imp] + " / " + complexityLabels[cmp],
				Color:      colors[id],
			})
		}
	}
	return lanes
}

// All returns the nine lanes in board order: importance descending, then
// complexity descending.
func All() []Lane {
	return append([]Lane(nil), all...)
}

// Join builds the lane id for a level pair.
func Join(importance, complexity task.Level) ID {
	return ID(string(importance) + "-" + string(complexity))
}

// Of returns the lane a task sits in, or Unsorted for unclassified tasks.
func Of(t task.Task) ID {
	if !t.Classified() {
		return Unsorted
	}
	return Join(t.Importance, t.Complexity)
}

// Lookup returns the lane for id. Unsorted and unknown ids report false.
func Lookup(id ID) (Lane, bool) {
	for _, l := range all {
		if l.ID == id {
			return l, true
		}
	}
	return Lane{}, false
}

// Index returns the board position of id, 0..8, or -1.
func Index(id ID) int {
	for i, l := range all {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// Color returns the display color for id. Unsorted gets a neutral grey.
func Color(id ID) string {
	if c, ok := colors[id]; ok {
		return c
	}
	return unsortedColor
}

// Parse validates a lane id and splits it into its levels. "unsorted" is
// accepted and yields Unset levels.
func Parse(s string) (ID, task.Level, task.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if ID(s) == Unsorted {
		return Unsorted, task.Unset, task.Unset, nil
	}
	imp, cmp, ok := strings.Cut(s, "-")
	if ok {
		if l, found := Lookup(ID(s)); found {
			return l.ID, task.Level(imp), task.Level(cmp), nil
		}
	}
	return "", task.Unset, task.Unset, Invalid(s)
}

// Invalid returns an INVALID_LANE error for s.
func Invalid(s string) *clierr.Error {
	allowed := make([]string, 0, len(all)+1)
	for _, l := range all {
		allowed = append(allowed, string(l.ID))
	}
	allowed = append(allowed, string(Unsorted))
	return clierr.Newf(clierr.InvalidLane, "invalid lane %q", s).
		WithDetails(map[string]any{"lane": s, "allowed": allowed})
}
