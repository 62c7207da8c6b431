// Package gesture runs drag and resize interactions on the board as an
// explicit state machine. One gesture is in flight at a time; every gesture
// ends back in Idle, whether it commits, cancels or aborts.
package gesture

import (
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/twiced-technology-gmbh/mioplan/internal/clierr"
	"github.com/twiced-technology-gmbh/mioplan/internal/lane"
	"github.com/twiced-technology-gmbh/mioplan/internal/logging"
	"github.com/twiced-technology-gmbh/mioplan/internal/placement"
	"github.com/twiced-technology-gmbh/mioplan/internal/task"
	"github.com/twiced-technology-gmbh/mioplan/internal/timeline"
)

// DefaultDuration is the span given to a task dropped with no prior dates.
const DefaultDuration = 3

// State is the controller's gesture state.
type State int

// States.
const (
	Idle State = iota
	Dragging
	Resizing
)

func (s State) String() string {
	switch s {
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	default:
		return "idle"
	}
}

// Edge is the side of a card grabbed for a resize.
type Edge int

// Edges.
const (
	RightEdge Edge = iota
	LeftEdge
)

func (e Edge) String() string {
	if e == LeftEdge {
		return "left"
	}
	return "right"
}

// ParseEdge parses "left" or "right".
func ParseEdge(s string) (Edge, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "right", "end":
		return RightEdge, nil
	case "left", "start":
		return LeftEdge, nil
	}
	return RightEdge, clierr.Newf(clierr.InvalidInput, "invalid edge %q (expected left or right)", s).
		WithDetails(map[string]any{"edge": s, "allowed": []string{"left", "right"}})
}

// Listener receives the mutations a gesture produces. Preview carries live
// resize feedback for the in-memory view; Commit carries the single final
// mutation to persist.
type Listener interface {
	Preview(t task.Task)
	Commit(t task.Task)
}

// Options configures a Controller.
type Options struct {
	// DefaultDuration overrides DefaultDuration when positive.
	DefaultDuration int
	Logger          *logging.Logger
}

// Controller owns the in-flight gesture. It is not safe for concurrent use;
// drive it from the UI event loop.
type Controller struct {
	listener        Listener
	log             *logging.Logger
	defaultDuration int

	state     State
	id        string
	snapshot  task.Task
	highlight *placement.Highlight

	edge    Edge
	originX float64
	current task.Task
}

// New returns an idle controller reporting to l.
func New(l Listener, opts Options) *Controller {
	d := opts.DefaultDuration
	if d < 1 {
		d = DefaultDuration
	}
	return &Controller{listener: l, log: opts.Logger, defaultDuration: d}
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// GestureID returns the id of the in-flight gesture, or "" when idle.
func (c *Controller) GestureID() string { return c.id }

// Snapshot returns the task captured at gesture start.
func (c *Controller) Snapshot() (task.Task, bool) {
	if c.state == Idle {
		return task.Task{}, false
	}
	return c.snapshot, true
}

// Highlight returns the hover rectangle of the current drag, if any.
func (c *Controller) Highlight() (placement.Highlight, bool) {
	if c.highlight == nil {
		return placement.Highlight{}, false
	}
	return *c.highlight, true
}

// StartDrag captures a copy of t and returns the payload the drop will
// carry.
func (c *Controller) StartDrag(t task.Task) ([]byte, error) {
	if err := c.begin(Dragging); err != nil {
		return nil, err
	}
	c.snapshot = t.Clone()
	payload, err := EncodePayload(c.snapshot)
	if err != nil {
		c.reset()
		return nil, err
	}
	return payload, nil
}

// Over updates the hover highlight for the pointer at x over laneID. It
// never mutates the task. An unresolved position clears the highlight.
func (c *Controller) Over(ctx timeline.Context, x float64, laneID lane.ID) (placement.Highlight, error) {
	if c.state != Dragging {
		return placement.Highlight{}, conflict(c.state, "hover")
	}
	if laneID == lane.Unsorted {
		c.highlight = nil
		return placement.Highlight{Lane: lane.Unsorted}, nil
	}
	target, err := placement.Resolve(ctx, x, laneID)
	if err != nil {
		c.highlight = nil
		return placement.Highlight{}, err
	}
	c.highlight = &target.Highlight
	return target.Highlight, nil
}

// Drop ends a drag on laneID at x with the carried payload. The task keeps
// its duration, or gets the default one when it had no dates; dropping on
// Unsorted clears its levels and dates. The result is committed once.
//
// A payload that cannot be parsed, a payload for another task, or a
// position that does not resolve
// aborts the gesture without mutation. Either way the controller is Idle
// afterwards.
func (c *Controller) Drop(ctx timeline.Context, payload []byte, x float64, laneID lane.ID) (task.Task, error) {
	if c.state != Dragging {
		return task.Task{}, conflict(c.state, "drop")
	}
	defer c.reset()

	t, err := DecodePayload(payload)
	if err == nil && t.ID != c.snapshot.ID {
		err = clierr.Newf(clierr.MalformedPayload, "drag payload is for task #%d, dragging #%d", t.ID, c.snapshot.ID).
			WithDetails(map[string]any{"payload_id": t.ID, "task_id": c.snapshot.ID})
	}
	if err != nil {
		c.log.Printf("gesture %s: drop aborted: %v", c.id, err)
		return task.Task{}, err
	}

	var result task.Task
	if laneID == lane.Unsorted {
		result = t.Unclassify()
	} else {
		target, err := placement.Resolve(ctx, x, laneID)
		if err != nil {
			c.log.Printf("gesture %s: drop ignored: %v", c.id, err)
			return task.Task{}, err
		}
		_, imp, cmp, _ := lane.Parse(string(target.Lane))
		duration := c.defaultDuration
		if t.HasDates() {
			duration = t.Duration()
		}
		result = t.Place(imp, cmp, target.Date, duration)
	}

	c.listener.Commit(result)
	return result, nil
}

// Cancel ends a drag without mutation.
func (c *Controller) Cancel() {
	if c.state == Dragging {
		c.reset()
	}
}

// BeginResize grabs edge of t with the pointer at originX.
func (c *Controller) BeginResize(t task.Task, edge Edge, originX float64) error {
	if !t.HasDates() {
		return clierr.Newf(clierr.InvalidDuration, "task #%d has no dates to resize", t.ID).
			WithDetails(map[string]any{"id": t.ID})
	}
	if err := c.begin(Resizing); err != nil {
		return err
	}
	c.snapshot = t.Clone()
	c.current = c.snapshot
	c.edge = edge
	c.originX = originX
	return nil
}

// ResizeMove recomputes the span for the pointer at x, measured from the
// grab origin in whole days under ctx. The right edge changes the duration
// with a floor of one day; the left edge moves the start but never past the
// end. A new span is previewed and returned with true; an unchanged one
// (including any move that would invert the task) returns false.
func (c *Controller) ResizeMove(ctx timeline.Context, x float64) (task.Task, bool) {
	if c.state != Resizing {
		return task.Task{}, false
	}
	ppd := ctx.PixelsPerDay()
	if ppd <= 0 {
		return c.current, false
	}
	delta := int(math.Round((x - c.originX) / ppd))

	start, end := *c.snapshot.StartDate, *c.snapshot.EndDate
	switch c.edge {
	case LeftEdge:
		start = start.AddDays(delta)
		if start.After(end) {
			start = end
		}
	default:
		duration := max(1, c.snapshot.Duration()+delta)
		end = start.AddDays(duration - 1)
	}

	next := c.snapshot.WithSpan(start, end)
	if task.SamePlacement(next, c.current) {
		return c.current, false
	}
	c.current = next
	c.listener.Preview(next)
	return next, true
}

// EndResize releases the edge and commits the final span if it differs
// from the one captured at grab time.
func (c *Controller) EndResize() (task.Task, bool) {
	if c.state != Resizing {
		return task.Task{}, false
	}
	defer c.reset()

	if task.SamePlacement(c.current, c.snapshot) {
		return c.snapshot, false
	}
	c.listener.Commit(c.current)
	return c.current, true
}

// Abort drops whatever gesture is in flight without committing. A resize
// that already previewed is rolled back with a preview of the snapshot.
func (c *Controller) Abort(reason string) {
	if c.state == Idle {
		return
	}
	c.log.Printf("gesture %s: %s aborted: %s", c.id, c.state, reason)
	if c.state == Resizing && !task.SamePlacement(c.current, c.snapshot) {
		c.listener.Preview(c.snapshot)
	}
	c.reset()
}

func (c *Controller) begin(s State) error {
	if c.state != Idle {
		return conflict(c.state, s.String())
	}
	c.state = s
	c.id = uuid.NewString()
	return nil
}

func (c *Controller) reset() {
	c.state = Idle
	c.id = ""
	c.snapshot = task.Task{}
	c.current = task.Task{}
	c.highlight = nil
	c.originX = 0
}

func conflict(s State, action string) *clierr.Error {
	return clierr.Newf(clierr.GestureConflict, "cannot %s while %s", action, s).
		WithDetails(map[string]any{"state": s.String(), "action": action})
}
