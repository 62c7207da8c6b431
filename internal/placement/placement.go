// Package placement resolves a pointer position over the board into the
// day and lane a dragged task would land on.
package placement

import (
	"github.com/twiced-technology-gmbh/mioplan/internal/clierr"
	"github.com/twiced-technology-gmbh/mioplan/internal/date"
	"github.com/twiced-technology-gmbh/mioplan/internal/lane"
	"github.com/twiced-technology-gmbh/mioplan/internal/timeline"
)

// Highlight is the hover rectangle of one resolved day.
type Highlight struct {
	X     float64 `json:"x"`
	Width float64 `json:"width"`
	Lane  lane.ID `json:"laneId"`
}

// Target is a resolved drop location.
type Target struct {
	Date      date.Date `json:"targetDate"`
	Lane      lane.ID   `json:"targetLane"`
	Highlight Highlight `json:"highlight"`
}

// Resolve quantizes x, in content coordinates, to a whole day under ctx and
// pairs it with laneID. The highlight starts exactly on that day's boundary
// and is one day wide. Positions left of the content, past the window end,
// before the window start, or over something that is not one of the nine
// lanes yield UNRESOLVED_TARGET.
func Resolve(ctx timeline.Context, x float64, laneID lane.ID) (Target, error) {
	if _, ok := lane.Lookup(laneID); !ok {
		return Target{}, unresolved("lane", string(laneID))
	}
	if x < 0 {
		return Target{}, unresolved("x", x)
	}
	d := ctx.PixelToDate(x)
	if !ctx.Window.Contains(d) {
		return Target{}, unresolved("date", d.String())
	}
	return Target{
		Date: d,
		Lane: laneID,
		Highlight: Highlight{
			X:     ctx.DateToX(d),
			Width: ctx.PixelsPerDay(),
			Lane:  laneID,
		},
	}, nil
}

// XForDate returns a pointer position that resolves to d: the middle of
// its day column.
func XForDate(ctx timeline.Context, d date.Date) float64 {
	return ctx.DateToX(d) + ctx.PixelsPerDay()/2
}

func unresolved(field string, value any) *clierr.Error {
	return clierr.Newf(clierr.UnresolvedTarget, "pointer does not resolve to a lane and day (%s %v)", field, value).
		WithDetails(map[string]any{field: value})
}
