package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/mioplan/internal/board"
	"github.com/twiced-technology-gmbh/mioplan/internal/gesture"
	"github.com/twiced-technology-gmbh/mioplan/internal/lane"
	"github.com/twiced-technology-gmbh/mioplan/internal/task"
)

const chipMaxWidth = 24

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	majorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	gridStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))

	statusBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	activeCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("16")).
			Background(lipgloss.Color("226"))

	unsortedDropStyle = lipgloss.NewStyle().Background(lipgloss.Color("236"))
)

// Style keys for canvas cells.
const (
	styleNone     = ""
	styleHeader   = "header"
	styleMajor    = "major"
	styleGrid     = "grid"
	styleActive   = "active"
	styleDropZone = "dropzone"
	styleCard     = "card:"
	styleHover    = "hover:"
	styleLabel    = "label:"
)

func cellStyle(key string) lipgloss.Style {
	switch {
	case key == styleHeader:
		return headerStyle
	case key == styleMajor:
		return majorStyle
	case key == styleGrid:
		return gridStyle
	case key == styleActive:
		return activeCardStyle
	case key == styleDropZone:
		return unsortedDropStyle
	case strings.HasPrefix(key, styleCard):
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("16")).
			Background(lipgloss.Color(lane.Color(lane.ID(strings.TrimPrefix(key, styleCard)))))
	case strings.HasPrefix(key, styleHover):
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(lane.Color(lane.ID(strings.TrimPrefix(key, styleHover))))).
			Reverse(true)
	case strings.HasPrefix(key, styleLabel):
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(lane.Color(lane.ID(strings.TrimPrefix(key, styleLabel))))).
			Bold(true)
	}
	return lipgloss.NewStyle()
}

type cell struct {
	ch    rune
	style string
}

// row is one line of the timeline area.
type row []cell

func blankRow(width int) row {
	r := make(row, width)
	for i := range r {
		r[i] = cell{ch: ' '}
	}
	return r
}

// put writes s from column col, clipped to the row.
func (r row) put(col int, s, style string) int {
	for _, ch := range s {
		if col >= len(r) {
			break
		}
		if col >= 0 {
			r[col] = cell{ch: ch, style: style}
		}
		col++
	}
	return col
}

// render groups runs of equal style into styled segments.
func (r row) render() string {
	var sb strings.Builder
	start := 0
	for i := 1; i <= len(r); i++ {
		if i < len(r) && r[i].style == r[start].style {
			continue
		}
		var seg strings.Builder
		for _, c := range r[start:i] {
			seg.WriteRune(c.ch)
		}
		if r[start].style == styleNone {
			sb.WriteString(seg.String())
		} else {
			sb.WriteString(cellStyle(r[start].style).Render(seg.String()))
		}
		start = i
	}
	return sb.String()
}

func (b *Board) viewBoard() string {
	lines := make([]string, 0, b.height)
	lines = append(lines, b.renderHeader())
	lines = append(lines, b.renderUnsorted()...)
	lines = append(lines, b.renderLanes()...)
	lines = append(lines, "")
	lines = append(lines, b.renderStatusBar()...)
	return strings.Join(lines, "\n")
}

// col maps a content position to a timeline column.
func (b *Board) col(x float64) int {
	return int(math.Floor(x - b.vp.Viewport().ScrollX))
}

func (b *Board) renderHeader() string {
	ctx := b.vp.Context()
	side := padCells(" "+ctx.Scale.String()+" "+b.vp.FocusDate().String(), sidebarWidth)

	r := blankRow(b.timelineWidth())
	next := 0
	for _, g := range b.surface.Grid {
		c := b.col(g.X)
		if c < next || c >= len(r) {
			continue
		}
		style := styleHeader
		if g.Major {
			style = styleMajor
		}
		next = r.put(c, "│"+g.Label, style) + 1
	}
	return headerStyle.Render(side) + r.render()
}

// layoutChips places the Unsorted tasks as chips, wrapping across the
// panel rows. Chips that do not fit are counted, not drawn.
func (b *Board) layoutChips() {
	b.chips = b.chips[:0]
	width := b.timelineWidth()
	rowIdx, col := 0, 0
	for _, t := range b.surface.Unsorted {
		label := " " + truncate("#"+strconv.Itoa(t.ID)+" "+t.Title, chipMaxWidth) + " "
		w := lipgloss.Width(label)
		if col+w > width && col > 0 {
			rowIdx++
			col = 0
		}
		if rowIdx >= unsortedRows {
			break
		}
		b.chips = append(b.chips, chip{
			id:    t.ID,
			label: label,
			row:   rowIdx,
			from:  sidebarWidth + col,
			to:    sidebarWidth + col + w,
		})
		col += w + 1
	}
}

func (b *Board) renderUnsorted() []string {
	width := b.timelineWidth()
	rows := make([]row, unsortedRows)
	for i := range rows {
		rows[i] = blankRow(width)
	}

	if b.hover.ok && b.hover.lane == lane.Unsorted {
		for _, r := range rows {
			for i := range r {
				r[i].style = styleDropZone
			}
		}
	}

	active, dragging := b.activeID()
	for _, c := range b.chips {
		style := styleCard + string(lane.Unsorted)
		if dragging && c.id == active {
			style = styleActive
		}
		rows[c.row].put(c.from-sidebarWidth, c.label, style)
	}
	if hidden := len(b.surface.Unsorted) - len(b.chips); hidden > 0 {
		more := "+" + strconv.Itoa(hidden) + " more"
		rows[unsortedRows-1].put(width-len(more), more, styleHeader)
	}

	label := fmt.Sprintf(" Unsorted (%d)", len(b.surface.Unsorted))
	out := make([]string, unsortedRows)
	for i, r := range rows {
		side := ""
		if i == 0 {
			side = label
		}
		out[i] = cellStyle(styleLabel+string(lane.Unsorted)).Render(padCells(side, sidebarWidth)) + r.render()
	}
	return out
}

func (b *Board) renderLanes() []string {
	height := b.lanesHeight()
	out := make([]string, 0, height)

	hl, hasHL := b.hoverHighlight()
	active, busy := b.activeID()
	resizing := b.gestures.State() == gesture.Resizing

	for _, ll := range b.surface.Lanes {
		slotRows := ll.Slots * b.metrics.SlotHeight
		for r := 0; r < ll.Height; r++ {
			sy := ll.Top + r
			if sy < b.laneScroll {
				continue
			}
			if len(out) >= height {
				return out
			}

			line := blankRow(b.timelineWidth())
			if r >= slotRows && r == ll.Height-1 {
				for i := range line {
					line[i] = cell{ch: '─', style: styleGrid}
				}
			} else {
				b.drawGrid(line)
			}
			if hasHL && hl.Lane == ll.Lane.ID && r < max(slotRows, b.metrics.SlotHeight) {
				b.drawHighlight(line, hl.X, hl.Width, ll.Lane.ID)
			}
			for _, it := range ll.Items {
				if r < it.Top || r >= it.Top+b.metrics.SlotHeight {
					continue
				}
				style := styleCard + string(ll.Lane.ID)
				if busy && it.Task.ID == active {
					style = styleActive
				}
				b.drawCard(line, it, style, resizing && it.Task.ID == active)
			}

			side := ""
			sideStyle := styleLabel + string(ll.Lane.ID)
			if r == 0 {
				side = " " + ll.Lane.Label
			}
			if b.hover.ok && b.hover.lane == ll.Lane.ID {
				sideStyle = styleHover + string(ll.Lane.ID)
			}
			out = append(out, cellStyle(sideStyle).Render(padCells(side, sidebarWidth))+line.render())
		}
	}
	for len(out) < height {
		out = append(out, "")
	}
	return out
}

func (b *Board) drawGrid(line row) {
	for _, g := range b.surface.Grid {
		if !g.Major {
			continue
		}
		if c := b.col(g.X); c >= 0 && c < len(line) {
			line[c] = cell{ch: '┊', style: styleGrid}
		}
	}
}

func (b *Board) drawHighlight(line row, x, width float64, id lane.ID) {
	from, to := b.col(x), b.col(x+width)
	to = max(to, from+1)
	for c := max(from, 0); c < min(to, len(line)); c++ {
		line[c] = cell{ch: '░', style: styleHover + string(id)}
	}
}

// drawCard fills the card's cells with its label; resize handles mark the
// edges of the card being resized.
func (b *Board) drawCard(line row, it board.Item, style string, handles bool) {
	scroll := b.vp.Viewport().ScrollX
	var cols []int
	for c := range line {
		cx := float64(c) + scroll
		if cx >= it.X && cx < it.X+it.Width {
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		return
	}
	label := []rune(cardLabel(it.Task))
	for i, c := range cols {
		ch := ' '
		if i < len(label) {
			ch = label[i]
		}
		line[c] = cell{ch: ch, style: style}
	}
	if handles && len(cols) > 1 {
		line[cols[0]].ch = '▌'
		line[cols[len(cols)-1]].ch = '▐'
	}
}

func cardLabel(t task.Task) string {
	return "#" + strconv.Itoa(t.ID) + " " + t.Title
}

func (b *Board) renderStatusBar() []string {
	vpCtx := b.vp.Context()
	status := fmt.Sprintf(" %s | %s | %s..%s | %d tasks",
		b.cfg.Board.Name, vpCtx.Scale, vpCtx.Window.Start, vpCtx.Window.End, b.session.View().Len())

	switch t, ok := b.gestures.Snapshot(); {
	case ok && b.gestures.State() == gesture.Dragging:
		status += " | moving #" + strconv.Itoa(t.ID)
		if b.hover.ok && b.hover.lane == lane.Unsorted {
			status += " → unsorted"
		} else if b.hover.ok {
			status += " → " + string(b.hover.lane) + " " + b.hover.date.String()
		}
	case ok:
		status += " | resizing #" + strconv.Itoa(t.ID)
		if cur, found := b.session.View().Get(t.ID); found && cur.HasDates() {
			status += " " + cur.StartDate.String() + ".." + cur.EndDate.String()
		}
	case b.notice != "":
		status += " | " + b.notice
	default:
		status += " | " + keys.helpLine()
	}

	bar := statusBarStyle.Render(truncate(status, b.width))
	if b.err != nil {
		return []string{errorStyle.Render(truncate("Error: "+b.err.Error(), b.width)), bar}
	}
	return []string{bar}
}

// padCells pads or cuts s to exactly width cells.
func padCells(s string, width int) string {
	s = truncate(s, width)
	if w := lipgloss.Width(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

func truncate(s string, maxLen int) string {
	if maxLen < 4 { //nolint:mnd // minimum length for truncation
		maxLen = 4
	}
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	target := min(maxLen-3, len(runes)) //nolint:mnd // room for "..."
	for target > 0 && lipgloss.Width(string(runes[:target])) > maxLen-3 {
		target--
	}
	return string(runes[:target]) + "..."
}
