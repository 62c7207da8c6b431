package timeline

import (
	"math"

	"github.com/twiced-technology-gmbh/mioplan/internal/date"
)

// epsilon absorbs float error when a position sits exactly on a day boundary.
const epsilon = 1e-9

// Context is the layout state every position computation depends on. It is
// passed by value; whoever owns the viewport changes it.
type Context struct {
	Scale  Scale      `json:"scale"`
	Window date.Range `json:"window"`
	Units  Units      `json:"units"`
}

// WithScale returns a copy of c under s.
func (c Context) WithScale(s Scale) Context {
	c.Scale = s
	return c
}

// PixelsPerDay returns the width of one day under the active scale.
func (c Context) PixelsPerDay() float64 {
	return c.Units.PixelsPerDay(c.Scale)
}

// Origin is the date at x = 0. Under the week scale the grid starts on the
// Monday of the window's first week; otherwise it starts at the window.
func (c Context) Origin() date.Date {
	if c.Scale == Week {
		return c.Window.Start.Monday()
	}
	return c.Window.Start
}

// DateToX returns the left edge of d. Dates before the window clamp to the
// window start, so the result is never negative.
func (c Context) DateToX(d date.Date) float64 {
	if d.Before(c.Window.Start) {
		d = c.Window.Start
	}
	ppd := c.PixelsPerDay()
	if c.Scale == Week {
		weeks := c.Origin().DaysUntil(d.Monday()) / daysPerWeek
		return float64(weeks)*c.Units.Week + float64(d.WeekdayOffset())*ppd
	}
	return float64(c.Origin().DaysUntil(d)) * ppd
}

// PixelToDate returns the day whose column contains x. Negative x resolves
// to the origin.
func (c Context) PixelToDate(x float64) date.Date {
	ppd := c.PixelsPerDay()
	if x <= 0 || ppd <= 0 {
		return c.Origin()
	}
	return c.Origin().AddDays(int(math.Floor(x/ppd + epsilon)))
}

// WidthForRange returns the width of the inclusive span [start, end].
func (c Context) WidthForRange(start, end date.Date) float64 {
	return float64(date.InclusiveDays(start, end)) * c.PixelsPerDay()
}

// ContentWidth returns the width of the whole scrollable window.
func (c Context) ContentWidth() float64 {
	return c.DateToX(c.Window.End) + c.PixelsPerDay()
}

// Span returns the clipped left edge and width of [start, end] within the
// window. ok is false when the span lies outside it.
func (c Context) Span(start, end date.Date) (x, width float64, ok bool) {
	from, to, ok := c.Window.Clip(start, end)
	if !ok {
		return 0, 0, false
	}
	return c.DateToX(from), c.WidthForRange(from, to), true
}
