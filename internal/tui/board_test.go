package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/twiced-technology-gmbh/mioplan/internal/config"
	"github.com/twiced-technology-gmbh/mioplan/internal/date"
	"github.com/twiced-technology-gmbh/mioplan/internal/gesture"
	"github.com/twiced-technology-gmbh/mioplan/internal/lane"
	"github.com/twiced-technology-gmbh/mioplan/internal/store"
	"github.com/twiced-technology-gmbh/mioplan/internal/task"
	"github.com/twiced-technology-gmbh/mioplan/internal/timeline"
)

// Day scale, 4 cells per day, window 2025-07-01..09-30. Lanes are empty
// (two rows each) until something is placed, so high-low starts at surface
// row 4, screen row laneTop+4.
func newTestBoard(t *testing.T) (*Board, *store.Files) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.NewDefault("test")
	cfg.SetDir(dir)
	cfg.Timeline.Scale = "day"
	cfg.Timeline.WindowStart = "2025-07-01"
	cfg.Timeline.WindowEnd = "2025-09-30"

	files := store.NewFiles(cfg.TasksPath())
	if _, err := files.Create(t.Context(), task.Task{Title: "Fix login"}); err != nil {
		t.Fatal(err)
	}

	b := NewBoard(cfg, files, nil)
	b.SetNow(func() time.Time { return time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC) })
	b.Update(tea.WindowSizeMsg{Width: sidebarWidth + 80, Height: 40})
	return b, files
}

func mouse(b *Board, action tea.MouseAction, button tea.MouseButton, x, y int) {
	b.Update(tea.MouseMsg{X: x, Y: y, Action: action, Button: button})
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// screenX returns the column of content position cx.
func screenX(b *Board, cx float64) int {
	return sidebarWidth + int(cx-b.vp.Viewport().ScrollX)
}

func TestDragFromUnsortedIntoLane(t *testing.T) {
	b, files := newTestBoard(t)
	if len(b.chips) != 1 {
		t.Fatalf("chips = %+v", b.chips)
	}

	chip := b.chips[0]
	mouse(b, tea.MouseActionPress, tea.MouseButtonLeft, chip.from+1, headerRows)
	if b.gestures.State() != gesture.Dragging {
		t.Fatalf("state = %s", b.gestures.State())
	}

	// 2025-07-10 is day 9 of the window.
	x, y := screenX(b, 9*4+1), laneTop+4
	mouse(b, tea.MouseActionMotion, tea.MouseButtonLeft, x, y)
	if !b.hover.ok || b.hover.lane != "high-low" || b.hover.date.String() != "2025-07-10" {
		t.Fatalf("hover = %+v", b.hover)
	}
	if !strings.Contains(b.View(), "moving #1") {
		t.Fatal("status bar should show the drag")
	}

	mouse(b, tea.MouseActionRelease, tea.MouseButtonNone, x, y)
	if b.gestures.State() != gesture.Idle {
		t.Fatalf("state after drop = %s", b.gestures.State())
	}
	got, _ := b.session.View().Get(1)
	if lane.Of(got) != "high-low" || got.StartDate.String() != "2025-07-10" || got.EndDate.String() != "2025-07-12" {
		t.Fatalf("view task = %+v", got)
	}

	if err := b.Flush(); err != nil {
		t.Fatal(err)
	}
	stored, err := files.Get(t.Context(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if !task.SamePlacement(stored, got) {
		t.Fatalf("stored = %+v", stored)
	}
}

func TestResizeRightEdgeWithMouse(t *testing.T) {
	b, files := newTestBoard(t)
	placed := task.Task{ID: 1, Title: "Fix login"}
	start, _ := date.Parse("2025-07-10")
	placed = placed.Place(task.High, task.Low, start, 3)
	b.session.View().Apply(placed)
	b.relayout()

	hl := b.surface.Lanes[lane.Index("high-low")]
	if len(hl.Items) != 1 {
		t.Fatalf("items = %+v", hl.Items)
	}
	it := hl.Items[0]
	y := laneTop + hl.Top
	last := screenX(b, it.X+it.Width-1)

	mouse(b, tea.MouseActionPress, tea.MouseButtonLeft, last, y)
	if b.gestures.State() != gesture.Resizing {
		t.Fatalf("state = %s", b.gestures.State())
	}
	mouse(b, tea.MouseActionMotion, tea.MouseButtonLeft, last+4, y)
	mouse(b, tea.MouseActionMotion, tea.MouseButtonLeft, last+8, y)
	if cur, _ := b.session.View().Get(1); cur.EndDate.String() != "2025-07-14" {
		t.Fatalf("preview end = %s", cur.EndDate)
	}
	mouse(b, tea.MouseActionRelease, tea.MouseButtonNone, last+8, y)

	if err := b.Flush(); err != nil {
		t.Fatal(err)
	}
	stored, err := files.Get(t.Context(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if stored.EndDate == nil || stored.EndDate.String() != "2025-07-14" || stored.StartDate.String() != "2025-07-10" {
		t.Fatalf("stored = %+v", stored)
	}
}

func TestEscapeAbortsResizeAndRollsBack(t *testing.T) {
	b, _ := newTestBoard(t)
	start, _ := date.Parse("2025-07-10")
	b.session.View().Apply(task.Task{ID: 1, Title: "Fix login"}.Place(task.Low, task.Low, start, 3))
	b.relayout()

	ll := b.surface.Lanes[lane.Index("low-low")]
	it := ll.Items[0]
	y := laneTop + ll.Top
	last := screenX(b, it.X+it.Width-1)

	mouse(b, tea.MouseActionPress, tea.MouseButtonLeft, last, y)
	mouse(b, tea.MouseActionMotion, tea.MouseButtonLeft, last+8, y)
	b.Update(tea.KeyMsg{Type: tea.KeyEsc})

	if b.gestures.State() != gesture.Idle {
		t.Fatalf("state = %s", b.gestures.State())
	}
	if cur, _ := b.session.View().Get(1); cur.EndDate.String() != "2025-07-12" {
		t.Fatalf("end after abort = %s", cur.EndDate)
	}
}

func TestScaleKeyDefersRecenter(t *testing.T) {
	b, _ := newTestBoard(t)
	b.vp.ScrollTo(200)
	focus := b.vp.FocusDate()

	_, cmd := b.Update(runeKey("w"))
	if cmd == nil {
		t.Fatal("scale change should schedule a commit")
	}
	if b.vp.Context().Scale != timeline.Week || !b.vp.Pending() {
		t.Fatalf("scale = %s pending = %v", b.vp.Context().Scale, b.vp.Pending())
	}

	b.Update(scaleCommitMsg{})
	if b.vp.Pending() {
		t.Fatal("commit should clear the pending recenter")
	}
	if got := b.vp.FocusDate(); !got.Equal(focus) {
		t.Fatalf("focus = %s, want %s", got, focus)
	}

	if _, cmd := b.Update(runeKey("w")); cmd != nil {
		t.Fatal("same scale should not schedule anything")
	}
}

func TestReloadWaitsForGesture(t *testing.T) {
	b, files := newTestBoard(t)
	chip := b.chips[0]
	mouse(b, tea.MouseActionPress, tea.MouseButtonLeft, chip.from+1, headerRows)

	if _, err := files.Create(t.Context(), task.Task{Title: "Second"}); err != nil {
		t.Fatal(err)
	}
	b.Update(ReloadMsg{})
	if b.session.View().Len() != 1 {
		t.Fatal("reload should wait for the drag to end")
	}

	// released over the header: nothing to drop on
	mouse(b, tea.MouseActionRelease, tea.MouseButtonNone, chip.from+1, 0)
	if b.session.View().Len() != 2 {
		t.Fatalf("deferred reload did not run: %d tasks", b.session.View().Len())
	}
}

func TestViewRendersLanes(t *testing.T) {
	b, _ := newTestBoard(t)
	out := b.View()
	for _, want := range []string{"Unsorted (1)", "Important / Hard", "Minor / Easy", "#1 Fix login"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
