package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/mioplan/internal/board"
	"github.com/twiced-technology-gmbh/mioplan/internal/date"
	"github.com/twiced-technology-gmbh/mioplan/internal/lane"
	"github.com/twiced-technology-gmbh/mioplan/internal/task"
)

const (
	maxTitleWidth = 48
	maxTagsWidth  = 30
	markdownWrap  = 80
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	tagStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	boldStyle   = lipgloss.NewStyle().Bold(true)

	colorEnabled  = true
	markdownStyle = "dark"
)

// DisableColor strips all styling from table output.
func DisableColor() {
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	tagStyle = lipgloss.NewStyle()
	boldStyle = lipgloss.NewStyle()
	colorEnabled = false
	markdownStyle = "notty"
}

// LaneStyle returns the foreground style of a lane's color.
func LaneStyle(id lane.ID) lipgloss.Style {
	if !colorEnabled {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(lane.Color(id)))
}

// TaskTable renders tasks as a table.
func TaskTable(w io.Writer, tasks []task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	const pad = 2
	idW, laneW, titleW, dateW, daysW, tagsW := 4, 6, 7, 12, 6, 6
	for _, t := range tasks {
		idW = max(idW, len(strconv.Itoa(t.ID))+pad)
		laneW = max(laneW, len(lane.Of(t))+pad)
		titleW = max(titleW, min(len(t.Title)+pad, maxTitleWidth+pad))
		tagsW = max(tagsW, min(len(strings.Join(t.Tags, ","))+pad, maxTagsWidth))
	}

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s %-*s %s",
		idW, "ID", laneW, "LANE", titleW, "TITLE", dateW, "START", dateW, "END", daysW, "DAYS", "TAGS")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	for _, t := range tasks {
		id := lane.Of(t)
		days := dimStyle.Render("--")
		if n := t.Duration(); n > 0 {
			days = strconv.Itoa(n)
		}
		tags := strings.Join(t.Tags, ",")
		if tags == "" {
			tags = dimStyle.Render("--")
		} else {
			tags = tagStyle.Render(tags)
		}

		row := fmt.Sprintf("%-*d %s %s %s %s %s %s",
			idW, t.ID,
			padRight(LaneStyle(id).Render(string(id)), laneW),
			padRight(truncate(t.Title, maxTitleWidth), titleW),
			padRight(dateOrDash(t.StartDate), dateW),
			padRight(dateOrDash(t.EndDate), dateW),
			padRight(days, daysW),
			tags)
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// TaskDetail renders a single task with its description as markdown.
func TaskDetail(w io.Writer, t task.Task) {
	titleLine := fmt.Sprintf("Task #%d: %s", t.ID, t.Title)
	fmt.Fprintln(w, boldStyle.Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", lipgloss.Width(titleLine)))

	id := lane.Of(t)
	label := "Unsorted"
	if l, ok := lane.Lookup(id); ok {
		label = l.Label
	}
	printField(w, "Lane", LaneStyle(id).Render(string(id))+" "+dimStyle.Render("("+label+")"))
	printField(w, "Importance", levelOrDash(t.Importance))
	printField(w, "Complexity", levelOrDash(t.Complexity))
	printField(w, "Start", dateOrDash(t.StartDate))
	printField(w, "End", dateOrDash(t.EndDate))
	if n := t.Duration(); n > 0 {
		printField(w, "Duration", strconv.Itoa(n)+"d")
	}
	if len(t.Tags) > 0 {
		printField(w, "Tags", tagStyle.Render(strings.Join(t.Tags, ", ")))
	} else {
		printField(w, "Tags", dimStyle.Render("--"))
	}

	if t.Description != "" {
		fmt.Fprintln(w)
		fmt.Fprint(w, renderMarkdown(t.Description))
	}
}

// OverviewTable renders the board counters.
func OverviewTable(w io.Writer, o board.Overview) {
	fmt.Fprintln(w, boldStyle.Render(o.BoardName))
	fmt.Fprintf(w, "Total: %d tasks  High importance: %d  Unsorted: %d\n\n",
		o.TotalTasks, o.HighImportance, o.Unsorted)

	const labelW, idW = 22, 16
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-*s %-*s %6s", idW, "LANE", labelW, "LABEL", "COUNT")))
	for _, lc := range o.Lanes {
		count := strconv.Itoa(lc.Count)
		if lc.Count == 0 {
			count = dimStyle.Render(count)
		}
		fmt.Fprintf(w, "%s %-*s %6s\n",
			padRight(LaneStyle(lc.Lane).Render(string(lc.Lane)), idW), labelW, lc.Label, count)
	}
	fmt.Fprintf(w, "%s %-*s %6d\n",
		padRight(LaneStyle(lane.Unsorted).Render(string(lane.Unsorted)), idW), labelW, "Unsorted", o.Unsorted)
}

// SurfaceTable lists each lane's geometry and the cards drawn in it.
func SurfaceTable(w io.Writer, s board.Surface) {
	ctx := s.Context
	fmt.Fprintf(w, "%s %s..%s  %s/day  width %s  height %d\n",
		boldStyle.Render(ctx.Scale.String()), ctx.Window.Start, ctx.Window.End,
		formatFloat(ctx.PixelsPerDay()), formatFloat(s.ContentWidth), s.Height)

	for _, ll := range s.Lanes {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s %s\n",
			LaneStyle(ll.Lane.ID).Bold(colorEnabled).Render(ll.Lane.Label),
			dimStyle.Render(fmt.Sprintf("top %d  height %d  slots %d", ll.Top, ll.Height, ll.Slots)))
		if len(ll.Items) == 0 {
			fmt.Fprintln(w, dimStyle.Render("  --"))
			continue
		}
		for _, it := range ll.Items {
			fmt.Fprintf(w, "  slot %-2d x %-8s w %-8s #%d %s (%s..%s)\n",
				it.Slot, formatFloat(it.X), formatFloat(it.Width), it.Task.ID,
				truncate(it.Task.Title, maxTitleWidth), it.Task.StartDate, it.Task.EndDate)
		}
	}

	if len(s.Unsorted) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, LaneStyle(lane.Unsorted).Bold(colorEnabled).Render("Unsorted"))
		for _, t := range s.Unsorted {
			fmt.Fprintf(w, "  #%d %s\n", t.ID, truncate(t.Title, maxTitleWidth))
		}
	}
}

// ActivityTable renders activity log entries.
func ActivityTable(w io.Writer, entries []board.LogEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "No activity recorded.")
		return
	}
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-20s %-8s %-6s %-14s %s", "TIME", "ACTION", "TASK", "LANE", "DETAIL")))
	for _, e := range entries {
		laneID := e.Lane
		if laneID == "" {
			laneID = "--"
		}
		fmt.Fprintf(w, "%-20s %-8s %-6s %s %s\n",
			e.Timestamp.Format("2006-01-02 15:04:05"), e.Action, "#"+strconv.Itoa(e.TaskID),
			padRight(LaneStyle(lane.ID(e.Lane)).Render(laneID), 14), e.Detail) //nolint:mnd // column width
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}

func renderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(markdownStyle),
		glamour.WithWordWrap(markdownWrap),
	)
	if err != nil {
		return md + "\n"
	}
	out, err := r.Render(md)
	if err != nil {
		return md + "\n"
	}
	return out
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

// padRight pads s to the given visible width, ignoring ANSI escapes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func dateOrDash(d *date.Date) string {
	if d == nil {
		return dimStyle.Render("--")
	}
	return d.String()
}

func levelOrDash(l task.Level) string {
	if !l.IsSet() {
		return dimStyle.Render("--")
	}
	return string(l)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
