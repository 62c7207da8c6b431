package lane

import (
	"cmp"
	"slices"

	"github.com/twiced-technology-gmbh/mioplan/internal/date"
	"github.com/twiced-technology-gmbh/mioplan/internal/task"
)

// Slotted is a task with its vertical slot inside a lane.
type Slotted struct {
	Task task.Task `json:"task"`
	Slot int       `json:"slot"`
}

// Metrics sizes a lane from its slot count.
type Metrics struct {
	SlotHeight  int `json:"slot_height"`
	BasePadding int `json:"base_padding"`
	MinHeight   int `json:"min_height"`
}

// ByID orders tasks by ID, the default packing tiebreak.
func ByID(a, b task.Task) int {
	return cmp.Compare(a.ID, b.ID)
}

// Pack assigns slots to the tasks of one lane, ordered by ID.
func Pack(tasks []task.Task, window date.Range) []Slotted {
	return PackBy(tasks, window, ByID)
}

// PackBy assigns each task the lowest slot that is free on every day it
// spans inside window. Tasks are visited in the stable order given by
// compare, so the same input always packs the same way.
//
// A task without a start date, or lying entirely outside window, takes
// slot 0 and reserves nothing. A missing end date counts as a one-day span.
// Occupancy is tracked per calendar day, so two tasks that merely touch on
// the same day still stack.
func PackBy(tasks []task.Task, window date.Range, compare func(a, b task.Task) int) []Slotted {
	ordered := slices.Clone(tasks)
	slices.SortStableFunc(ordered, compare)

	occupied := make(map[date.Date]map[int]bool)
	out := make([]Slotted, 0, len(ordered))

	for _, t := range ordered {
		from, to, ok := span(t, window)
		if !ok {
			out = append(out, Slotted{Task: t})
			continue
		}

		slot := 0
		for !free(occupied, from, to, slot) {
			slot++
		}
		for d := from; !d.After(to); d = d.AddDays(1) {
			if occupied[d] == nil {
				occupied[d] = make(map[int]bool)
			}
			occupied[d][slot] = true
		}
		out = append(out, Slotted{Task: t, Slot: slot})
	}
	return out
}

func span(t task.Task, window date.Range) (date.Date, date.Date, bool) {
	if t.StartDate == nil {
		return date.Date{}, date.Date{}, false
	}
	end := *t.StartDate
	if t.EndDate != nil {
		end = *t.EndDate
	}
	return window.Clip(*t.StartDate, end)
}

func free(occupied map[date.Date]map[int]bool, from, to date.Date, slot int) bool {
	for d := from; !d.After(to); d = d.AddDays(1) {
		if occupied[d][slot] {
			return false
		}
	}
	return true
}

// Slots returns the number of slot rows the packed lane needs, at least 1.
func Slots(packed []Slotted) int {
	highest := 0
	for _, s := range packed {
		highest = max(highest, s.Slot)
	}
	return highest + 1
}

// Height returns the lane height for packed tasks, or m.MinHeight for an
// empty lane.
func Height(packed []Slotted, m Metrics) int {
	if len(packed) == 0 {
		return m.MinHeight
	}
	return Slots(packed)*m.SlotHeight + m.BasePadding
}
