// Package viewport tracks the horizontal scroll window over the timeline
// and keeps the focused date centered across scale changes.
package viewport

import (
	"github.com/twiced-technology-gmbh/mioplan/internal/date"
	"github.com/twiced-technology-gmbh/mioplan/internal/timeline"
)

// Viewport is the visible slice of the timeline content, in content units.
type Viewport struct {
	ScrollX float64 `json:"scrollX"`
	Width   float64 `json:"width"`
}

// Center returns the content position at the middle of the viewport.
func (v Viewport) Center() float64 {
	return v.ScrollX + v.Width/2
}

// Clamp returns scroll limited to [0, content-width].
func Clamp(scroll, width, content float64) float64 {
	limit := max(0, content-width)
	return min(max(scroll, 0), limit)
}

// Controller owns the layout context and the viewport. Scale changes go
// through SetScale and Commit: SetScale records the focused date and swaps
// the scale, Commit recenters once the new layout has been drawn.
type Controller struct {
	ctx     timeline.Context
	view    Viewport
	pending *date.Date
}

// NewController returns a controller showing ctx in a viewport of width.
func NewController(ctx timeline.Context, width float64) *Controller {
	return &Controller{ctx: ctx, view: Viewport{Width: width}}
}

// Context returns the active layout context.
func (c *Controller) Context() timeline.Context { return c.ctx }

// Viewport returns the current viewport.
func (c *Controller) Viewport() Viewport { return c.view }

// SetWindow replaces the visible window and keeps the scroll in range.
func (c *Controller) SetWindow(w date.Range) {
	c.ctx.Window = w
	c.ScrollTo(c.view.ScrollX)
}

// Resize changes the viewport width and keeps the focus date centered.
func (c *Controller) Resize(width float64) {
	focus := c.FocusDate()
	c.view.Width = width
	c.CenterOn(focus)
}

// ScrollTo sets the scroll offset, clamped to the content.
func (c *Controller) ScrollTo(x float64) {
	c.view.ScrollX = Clamp(x, c.view.Width, c.ctx.ContentWidth())
}

// ScrollBy moves the scroll offset by dx.
func (c *Controller) ScrollBy(dx float64) {
	c.ScrollTo(c.view.ScrollX + dx)
}

// ScrollDays moves the viewport by n days at the active scale.
func (c *Controller) ScrollDays(n int) {
	c.ScrollBy(float64(n) * c.ctx.PixelsPerDay())
}

// FocusDate returns the date under the viewport center.
func (c *Controller) FocusDate() date.Date {
	return c.ctx.PixelToDate(c.view.Center())
}

// CenterOn scrolls so that the middle of d's column sits at the viewport
// center, as far as the content allows.
func (c *Controller) CenterOn(d date.Date) {
	x := c.ctx.DateToX(d) + c.ctx.PixelsPerDay()/2
	c.ScrollTo(x - c.view.Width/2)
}

// SetScale captures the focus date under the current scale and switches to
// s. The scroll offset is left alone until Commit, which must run after the
// new layout is in place. It reports false when s is already active.
func (c *Controller) SetScale(s timeline.Scale) (date.Date, bool) {
	if s == c.ctx.Scale {
		return c.FocusDate(), false
	}
	focus := c.FocusDate()
	if c.pending != nil {
		focus = *c.pending
	}
	c.ctx = c.ctx.WithScale(s)
	c.pending = &focus
	return focus, true
}

// Pending reports whether a scale change awaits Commit.
func (c *Controller) Pending() bool { return c.pending != nil }

// Commit recenters on the date captured by SetScale. It reports false when
// nothing was pending.
func (c *Controller) Commit() bool {
	if c.pending == nil {
		return false
	}
	focus := *c.pending
	c.pending = nil
	c.CenterOn(focus)
	return true
}
