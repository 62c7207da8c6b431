// Package tui implements the terminal timeline board.
package tui

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/twiced-technology-gmbh/mioplan/internal/board"
	"github.com/twiced-technology-gmbh/mioplan/internal/clierr"
	"github.com/twiced-technology-gmbh/mioplan/internal/config"
	"github.com/twiced-technology-gmbh/mioplan/internal/date"
	"github.com/twiced-technology-gmbh/mioplan/internal/gesture"
	"github.com/twiced-technology-gmbh/mioplan/internal/lane"
	"github.com/twiced-technology-gmbh/mioplan/internal/logging"
	"github.com/twiced-technology-gmbh/mioplan/internal/placement"
	"github.com/twiced-technology-gmbh/mioplan/internal/store"
	"github.com/twiced-technology-gmbh/mioplan/internal/task"
	"github.com/twiced-technology-gmbh/mioplan/internal/timeline"
	"github.com/twiced-technology-gmbh/mioplan/internal/viewport"
)

// Layout constants, in terminal cells.
const (
	sidebarWidth = 18
	headerRows   = 1 // grid labels
	unsortedRows = 2
	laneTop      = headerRows + unsortedRows
	boardChrome  = 2 // blank line + status bar below the lanes
	errorChrome  = 1
	scrollCells  = 8

	// scaleCommitDelay lets the new scale render before the viewport recenters.
	scaleCommitDelay = 16 * time.Millisecond
	loadTimeout      = 10 * time.Second
)

// Board is the top-level bubbletea model.
type Board struct {
	cfg      *config.Config
	store    store.Store
	logger   *logging.Logger
	session  *board.Session
	gestures *gesture.Controller
	vp       *viewport.Controller
	metrics  lane.Metrics
	surface  board.Surface
	chips    []chip

	width      int
	height     int
	sized      bool
	laneScroll int
	err        error
	notice     string
	now        func() time.Time

	payload       []byte
	hover         hoverTarget
	reloadPending bool
}

// hoverTarget is where the pointer is during a drag.
type hoverTarget struct {
	lane lane.ID
	date date.Date
	ok   bool
}

// chip is one task in the Unsorted panel, in screen cells.
type chip struct {
	id       int
	label    string
	row      int
	from, to int // [from, to)
}

// NewBoard creates a Board over st. Committed gestures are applied to the
// board at once and written to st in the background.
func NewBoard(cfg *config.Config, st store.Store, logger *logging.Logger) *Board {
	b := &Board{
		cfg:     cfg,
		store:   st,
		logger:  logger,
		metrics: cfg.Metrics(),
		now:     time.Now,
	}
	b.session = board.NewSession(board.NewView(nil), st, cfg.Dir(), logger)
	b.gestures = gesture.New(b.session, gesture.Options{
		DefaultDuration: cfg.Timeline.DefaultDuration,
		Logger:          logger,
	})
	b.vp = viewport.NewController(cfg.Context(b.today()), 0)
	b.loadTasks()
	return b
}

// SetNow overrides the clock used for "today" (for testing).
func (b *Board) SetNow(fn func() time.Time) {
	b.now = fn
	b.vp.SetWindow(b.cfg.Window(b.today()))
}

// Flush waits for background writes and returns their failures.
func (b *Board) Flush() error {
	return b.session.Flush()
}

// WatchPaths returns the paths that should be watched for changes.
func (b *Board) WatchPaths() []string {
	paths := []string{b.cfg.Dir()}
	if b.cfg.Store.Backend == store.BackendFiles && b.cfg.TasksPath() != b.cfg.Dir() {
		paths = append(paths, b.cfg.TasksPath())
	}
	return paths
}

// Init implements tea.Model.
func (b *Board) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (b *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handleKey(msg)
	case tea.MouseMsg:
		return b.handleMouse(msg)
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.vp.Resize(float64(b.timelineWidth()))
		if !b.sized {
			b.sized = true
			b.vp.CenterOn(b.today())
		}
		b.layoutChips()
		b.clampLaneScroll()
		return b, nil
	case ReloadMsg:
		if b.gestures.State() != gesture.Idle {
			b.reloadPending = true
			return b, nil
		}
		b.loadTasks()
		return b, nil
	case scaleCommitMsg:
		b.vp.Commit()
		return b, nil
	case ErrMsg:
		b.err = msg.Err
		return b, nil
	}
	return b, nil
}

// View implements tea.Model.
func (b *Board) View() string {
	if b.width == 0 {
		return "Loading..."
	}
	return b.viewBoard()
}

func (b *Board) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		b.gestures.Abort("quit")
		return b, tea.Quit
	case key.Matches(msg, keys.Abort):
		b.abortGesture("escape")
	case key.Matches(msg, keys.DayScale):
		return b, b.setScale(timeline.Day)
	case key.Matches(msg, keys.WeekScale):
		return b, b.setScale(timeline.Week)
	case key.Matches(msg, keys.MonthScale):
		return b, b.setScale(timeline.Month)
	case key.Matches(msg, keys.Left):
		b.vp.ScrollBy(-scrollCells)
	case key.Matches(msg, keys.Right):
		b.vp.ScrollBy(scrollCells)
	case key.Matches(msg, keys.Up):
		b.laneScroll--
		b.clampLaneScroll()
	case key.Matches(msg, keys.Down):
		b.laneScroll++
		b.clampLaneScroll()
	case key.Matches(msg, keys.Today):
		b.vp.CenterOn(b.today())
	case key.Matches(msg, keys.Reload):
		if b.gestures.State() == gesture.Idle {
			b.loadTasks()
		}
	}
	return b, nil
}

// setScale switches the scale now and recenters on the focus date after
// the next frame.
func (b *Board) setScale(s timeline.Scale) tea.Cmd {
	if b.gestures.State() != gesture.Idle {
		return nil
	}
	if _, changed := b.vp.SetScale(s); !changed {
		return nil
	}
	b.relayout()
	return tea.Tick(scaleCommitDelay, func(time.Time) tea.Msg { return scaleCommitMsg{} })
}

func (b *Board) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelLeft:
		b.vp.ScrollBy(-scrollCells)
		return b, nil
	case tea.MouseButtonWheelDown, tea.MouseButtonWheelRight:
		b.vp.ScrollBy(scrollCells)
		return b, nil
	case tea.MouseButtonRight:
		if msg.Action == tea.MouseActionPress {
			b.abortGesture("right click")
		}
		return b, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			b.press(msg.X, msg.Y)
		}
	case tea.MouseActionMotion:
		b.motion(msg.X, msg.Y)
	case tea.MouseActionRelease:
		b.release(msg.X, msg.Y)
	}
	return b, nil
}

// press starts a drag on a card body or an Unsorted chip, or a resize on a
// card's first or last cell.
func (b *Board) press(x, y int) {
	if b.gestures.State() != gesture.Idle {
		return
	}
	b.err = nil
	b.notice = ""

	if b.inUnsorted(y) {
		if id, ok := b.chipAt(x, y); ok {
			if t, found := b.session.View().Get(id); found {
				b.startDrag(t)
			}
		}
		return
	}

	cx, ok := b.contentX(x)
	if !ok {
		return
	}
	sy, ok := b.surfaceY(y)
	if !ok {
		return
	}
	it, ok := b.surface.ItemAt(cx, sy, b.metrics.SlotHeight)
	if !ok {
		return
	}

	t, _ := b.session.View().Get(it.Task.ID)
	switch edgeAt(it, cx) {
	case edgeRight:
		b.beginResize(t, gesture.RightEdge, cx)
	case edgeLeft:
		b.beginResize(t, gesture.LeftEdge, cx)
	default:
		b.startDrag(t)
	}
}

func (b *Board) startDrag(t task.Task) {
	payload, err := b.gestures.StartDrag(t)
	if err != nil {
		b.err = err
		return
	}
	b.payload = payload
	b.hover = hoverTarget{}
}

func (b *Board) beginResize(t task.Task, edge gesture.Edge, originX float64) {
	if err := b.gestures.BeginResize(t, edge, originX); err != nil {
		b.err = err
	}
}

func (b *Board) motion(x, y int) {
	ctx := b.vp.Context()
	switch b.gestures.State() {
	case gesture.Dragging:
		b.hover = hoverTarget{}
		if b.inUnsorted(y) {
			if _, err := b.gestures.Over(ctx, 0, lane.Unsorted); err == nil {
				b.hover = hoverTarget{lane: lane.Unsorted, ok: true}
			}
			return
		}
		cx, okX := b.contentX(x)
		id, okY := b.laneAt(y)
		if !okX || !okY {
			_, _ = b.gestures.Over(ctx, -1, "")
			return
		}
		if _, err := b.gestures.Over(ctx, cx, id); err == nil {
			b.hover = hoverTarget{lane: id, date: ctx.PixelToDate(cx), ok: true}
		}
	case gesture.Resizing:
		cx := float64(x-sidebarWidth) + b.vp.Viewport().ScrollX
		if _, changed := b.gestures.ResizeMove(ctx, cx); changed {
			b.relayout()
		}
	}
}

func (b *Board) release(x, y int) {
	switch b.gestures.State() {
	case gesture.Dragging:
		b.drop(x, y)
	case gesture.Resizing:
		b.motion(x, y)
		if t, committed := b.gestures.EndResize(); committed {
			b.notice = "resized #" + strconv.Itoa(t.ID) + " to " + t.StartDate.String() + ".." + t.EndDate.String()
		}
		b.afterGesture()
	}
}

func (b *Board) drop(x, y int) {
	ctx := b.vp.Context()
	payload := b.payload
	b.payload = nil
	b.hover = hoverTarget{}

	var (
		t   task.Task
		err error
	)
	switch {
	case b.inUnsorted(y):
		t, err = b.gestures.Drop(ctx, payload, 0, lane.Unsorted)
	default:
		cx, okX := b.contentX(x)
		id, okY := b.laneAt(y)
		if !okX || !okY {
			b.gestures.Cancel()
			b.afterGesture()
			return
		}
		t, err = b.gestures.Drop(ctx, payload, cx, id)
	}

	switch {
	case clierr.HasCode(err, clierr.UnresolvedTarget):
		// released outside the window; nothing moves
	case err != nil:
		b.err = err
	case lane.Of(t) == lane.Unsorted:
		b.notice = "unsorted #" + strconv.Itoa(t.ID)
	default:
		b.notice = "placed #" + strconv.Itoa(t.ID) + " in " + string(lane.Of(t)) + " from " + t.StartDate.String()
	}
	b.afterGesture()
}

func (b *Board) abortGesture(reason string) {
	if b.gestures.State() == gesture.Idle {
		return
	}
	b.gestures.Abort(reason)
	b.payload = nil
	b.hover = hoverTarget{}
	b.afterGesture()
}

// afterGesture redraws from the view and runs a reload deferred while the
// gesture was in flight.
func (b *Board) afterGesture() {
	if b.reloadPending {
		b.reloadPending = false
		b.loadTasks()
		return
	}
	b.relayout()
}

// loadTasks replaces the view with the store's tasks.
func (b *Board) loadTasks() {
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	tasks, err := b.store.List(ctx)
	if err != nil {
		b.err = err
		return
	}
	b.err = nil
	if w, ok := b.store.(store.Warner); ok && len(w.Warnings()) > 0 {
		b.err = errors.New(w.Warnings()[0])
	}
	b.session.View().Replace(tasks)
	b.relayout()
}

// relayout recomputes the surface from the view under the active context.
func (b *Board) relayout() {
	b.surface = board.Layout(b.vp.Context(), b.session.View().Tasks(), b.metrics)
	b.layoutChips()
	b.clampLaneScroll()
}

// --- Geometry ---

type edge int

const (
	edgeNone edge = iota
	edgeLeft
	edgeRight
)

// edgeAt reports whether cx falls on the last cell (right edge, cards of two
// cells or more) or the first cell (left edge, three cells or more) of it.
func edgeAt(it board.Item, cx float64) edge {
	switch {
	case it.Width >= 2 && it.X+it.Width-cx <= 1:
		return edgeRight
	case it.Width >= 3 && cx-it.X < 1:
		return edgeLeft
	default:
		return edgeNone
	}
}

func (b *Board) timelineWidth() int {
	return max(0, b.width-sidebarWidth)
}

// lanesHeight is the number of screen rows available to lanes.
func (b *Board) lanesHeight() int {
	h := b.height - laneTop - boardChrome
	if b.err != nil {
		h -= errorChrome
	}
	return max(1, h)
}

func (b *Board) clampLaneScroll() {
	limit := max(0, b.surface.Height-b.lanesHeight())
	b.laneScroll = min(max(b.laneScroll, 0), limit)
}

// contentX converts a screen column to a timeline content position.
func (b *Board) contentX(x int) (float64, bool) {
	if x < sidebarWidth || x >= b.width {
		return 0, false
	}
	return float64(x-sidebarWidth) + b.vp.Viewport().ScrollX, true
}

// surfaceY converts a screen row to a row of the lane surface.
func (b *Board) surfaceY(y int) (int, bool) {
	if y < laneTop || y >= laneTop+b.lanesHeight() {
		return 0, false
	}
	return y - laneTop + b.laneScroll, true
}

func (b *Board) laneAt(y int) (lane.ID, bool) {
	sy, ok := b.surfaceY(y)
	if !ok {
		return "", false
	}
	return b.surface.LaneAt(sy)
}

func (b *Board) inUnsorted(y int) bool {
	return y >= headerRows && y < laneTop
}

func (b *Board) chipAt(x, y int) (int, bool) {
	for _, c := range b.chips {
		if c.row == y-headerRows && x >= c.from && x < c.to {
			return c.id, true
		}
	}
	return 0, false
}

func (b *Board) today() date.Date {
	return date.FromTime(b.now())
}

// activeID returns the task an in-flight gesture holds.
func (b *Board) activeID() (int, bool) {
	t, ok := b.gestures.Snapshot()
	return t.ID, ok
}

// hoverHighlight returns the drop highlight of the current drag.
func (b *Board) hoverHighlight() (placement.Highlight, bool) {
	return b.gestures.Highlight()
}

// --- Messages ---

// ReloadMsg is sent by the file watcher to trigger a board refresh.
type ReloadMsg struct{}

type scaleCommitMsg struct{}

// ErrMsg surfaces a background failure, e.g. from the file watcher.
type ErrMsg struct{ Err error }
