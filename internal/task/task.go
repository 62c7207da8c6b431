// Package task holds the board's task model and its markdown task files.
package task

import (
	"slices"

	"github.com/twiced-technology-gmbh/mioplan/internal/date"
)

// Task is a card placed on the importance x complexity board.
// Dates are calendar dates; any time-of-day coming from a source is dropped.
type Task struct {
	ID          int        `yaml:"id" json:"id"`
	Title       string     `yaml:"title" json:"title"`
	Importance  Level      `yaml:"importance,omitempty" json:"importance"`
	Complexity  Level      `yaml:"complexity,omitempty" json:"complexity"`
	StartDate   *date.Date `yaml:"start_date,omitempty" json:"startDate"`
	EndDate     *date.Date `yaml:"end_date,omitempty" json:"endDate"`
	Tags        []string   `yaml:"tags,omitempty" json:"tags"`

	// Description is the markdown body below the frontmatter (not in YAML).
	Description string `yaml:"-" json:"description"`

	// File is the path to the task file (not in YAML).
	File string `yaml:"-" json:"-"`
}

// HasDates reports whether both start and end dates are set.
func (t Task) HasDates() bool {
	return t.StartDate != nil && t.EndDate != nil
}

// Classified reports whether the task sits in one of the nine lanes.
// Tasks missing a level or a date belong to the Unsorted bucket.
func (t Task) Classified() bool {
	return t.Importance.IsSet() && t.Complexity.IsSet() && t.HasDates()
}

// Duration returns the inclusive day count of [StartDate, EndDate], or 0
// when either date is missing.
func (t Task) Duration() int {
	if !t.HasDates() {
		return 0
	}
	return date.InclusiveDays(*t.StartDate, *t.EndDate)
}

// Clone returns a deep copy that shares no memory with t.
func (t Task) Clone() Task {
	c := t
	c.Tags = slices.Clone(t.Tags)
	if t.StartDate != nil {
		d := *t.StartDate
		c.StartDate = &d
	}
	if t.EndDate != nil {
		d := *t.EndDate
		c.EndDate = &d
	}
	return c
}

// Place returns a copy of t classified into (importance, complexity) and
// spanning duration days from start. A duration below 1 is treated as 1.
func (t Task) Place(importance, complexity Level, start date.Date, duration int) Task {
	duration = max(duration, 1)
	end := start.AddDays(duration - 1)
	c := t.Clone()
	c.Importance = importance
	c.Complexity = complexity
	c.StartDate = &start
	c.EndDate = &end
	return c
}

// WithSpan returns a copy of t with the given dates and unchanged levels.
func (t Task) WithSpan(start, end date.Date) Task {
	c := t.Clone()
	c.StartDate = &start
	c.EndDate = &end
	return c
}

// Unclassify returns a copy of t with levels and dates cleared.
func (t Task) Unclassify() Task {
	c := t.Clone()
	c.Importance = Unset
	c.Complexity = Unset
	c.StartDate = nil
	c.EndDate = nil
	return c
}

// SamePlacement reports whether a and b share levels and dates.
func SamePlacement(a, b Task) bool {
	return a.Importance == b.Importance &&
		a.Complexity == b.Complexity &&
		sameDate(a.StartDate, b.StartDate) &&
		sameDate(a.EndDate, b.EndDate)
}

func sameDate(a, b *date.Date) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
