package board

import (
	"github.com/twiced-technology-gmbh/mioplan/internal/lane"
	"github.com/twiced-technology-gmbh/mioplan/internal/task"
)

// LaneCount holds the number of tasks in one lane.
type LaneCount struct {
	Lane  lane.ID `json:"lane"`
	Label string  `json:"label"`
	Count int     `json:"count"`
}

// Overview is the aggregate board overview.
type Overview struct {
	BoardName      string      `json:"board_name"`
	TotalTasks     int         `json:"total_tasks"`
	HighImportance int         `json:"high_importance"`
	Unsorted       int         `json:"unsorted"`
	Lanes          []LaneCount `json:"lanes"`
}

// Summary counts tasks per lane in board order, plus the header totals:
// all tasks, high-importance tasks, and unclassified ones.
func Summary(boardName string, tasks []task.Task) Overview {
	counts := make(map[lane.ID]int)
	o := Overview{BoardName: boardName, TotalTasks: len(tasks)}
	for _, t := range tasks {
		if t.Importance == task.High {
			o.HighImportance++
		}
		id := lane.Of(t)
		if id == lane.Unsorted {
			o.Unsorted++
			continue
		}
		counts[id]++
	}

	lanes := lane.All()
	o.Lanes = make([]LaneCount, 0, len(lanes))
	for _, l := range lanes {
		o.Lanes = append(o.Lanes, LaneCount{Lane: l.ID, Label: l.Label, Count: counts[l.ID]})
	}
	return o
}
