package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/mioplan/internal/board"
	"github.com/twiced-technology-gmbh/mioplan/internal/lane"
	"github.com/twiced-technology-gmbh/mioplan/internal/task"
)

// TaskCompact renders tasks one per line.
func TaskCompact(w io.Writer, tasks []task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}
	for _, t := range tasks {
		fmt.Fprintln(w, formatTaskLine(t))
	}
}

// TaskDetailCompact renders a single task with its description indented.
func TaskDetailCompact(w io.Writer, t task.Task) {
	fmt.Fprintln(w, formatTaskLine(t))
	if t.Description != "" {
		for _, line := range strings.Split(t.Description, "\n") {
			fmt.Fprintln(w, "  "+line)
		}
	}
}

// OverviewCompact renders the board counters.
func OverviewCompact(w io.Writer, o board.Overview) {
	fmt.Fprintf(w, "%s (%d tasks, %d high importance, %d unsorted)\n",
		o.BoardName, o.TotalTasks, o.HighImportance, o.Unsorted)

	parts := make([]string, 0, len(o.Lanes))
	for _, lc := range o.Lanes {
		parts = append(parts, string(lc.Lane)+"="+strconv.Itoa(lc.Count))
	}
	fmt.Fprintln(w, "  "+strings.Join(parts, " "))
}

// SurfaceCompact renders one line per drawn card.
func SurfaceCompact(w io.Writer, s board.Surface) {
	for _, ll := range s.Lanes {
		for _, it := range ll.Items {
			fmt.Fprintf(w, "%s slot:%d x:%s w:%s #%d %s\n",
				ll.Lane.ID, it.Slot, formatFloat(it.X), formatFloat(it.Width), it.Task.ID, it.Task.Title)
		}
	}
	for _, t := range s.Unsorted {
		fmt.Fprintf(w, "%s #%d %s\n", lane.Unsorted, t.ID, t.Title)
	}
}

// ActivityCompact renders activity log entries one per line.
func ActivityCompact(w io.Writer, entries []board.LogEntry) {
	for _, e := range entries {
		line := e.Timestamp.Format("2006-01-02T15:04:05") + " " + e.Action + " #" + strconv.Itoa(e.TaskID)
		if e.Lane != "" {
			line += " " + e.Lane
		}
		if e.Detail != "" {
			line += " " + e.Detail
		}
		fmt.Fprintln(w, line)
	}
}

// formatTaskLine builds the one-line representation of a task.
func formatTaskLine(t task.Task) string {
	line := "#" + strconv.Itoa(t.ID) + " [" + string(lane.Of(t)) + "] " + t.Title
	if t.HasDates() {
		line += " " + t.StartDate.String() + ".." + t.EndDate.String()
	}
	if len(t.Tags) > 0 {
		line += " (" + strings.Join(t.Tags, ", ") + ")"
	}
	return line
}
