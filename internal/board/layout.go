package board

import (
	"github.com/twiced-technology-gmbh/mioplan/internal/lane"
	"github.com/twiced-technology-gmbh/mioplan/internal/placement"
	"github.com/twiced-technology-gmbh/mioplan/internal/task"
	"github.com/twiced-technology-gmbh/mioplan/internal/timeline"
)

// Item is one task card ready for drawing. X and Width are horizontal
// content coordinates; Top is the offset from the lane's top edge.
type Item struct {
	Task  task.Task `json:"task"`
	X     float64   `json:"x"`
	Width float64   `json:"width"`
	Top   int       `json:"topOffset"`
	Slot  int       `json:"slot"`
}

// LaneLayout is one lane of the render surface.
type LaneLayout struct {
	Lane   lane.Lane `json:"lane"`
	Top    int       `json:"top"`
	Height int       `json:"height"`
	Slots  int       `json:"slots"`
	Items  []Item    `json:"items"`
}

// Surface is everything the view layer needs to draw the board.
type Surface struct {
	Context      timeline.Context     `json:"context"`
	ContentWidth float64              `json:"contentWidth"`
	Grid         []timeline.GridLine  `json:"grid"`
	Lanes        []LaneLayout         `json:"lanes"`
	Height       int                  `json:"height"`
	Unsorted     []task.Task          `json:"unsorted"`
	Highlight    *placement.Highlight `json:"highlight,omitempty"`
}

// Layout packs every lane independently and positions its cards under ctx.
// Cards entirely outside the window are packed but not drawn.
func Layout(ctx timeline.Context, tasks []task.Task, m lane.Metrics) Surface {
	byLane := make(map[lane.ID][]task.Task)
	var unsorted []task.Task
	for _, t := range tasks {
		id := lane.Of(t)
		if id == lane.Unsorted {
			unsorted = append(unsorted, t.Clone())
			continue
		}
		byLane[id] = append(byLane[id], t)
	}

	s := Surface{
		Context:      ctx,
		ContentWidth: ctx.ContentWidth(),
		Grid:         ctx.Grid(),
		Unsorted:     unsorted,
	}
	SortTasks(s.Unsorted, FieldID, false)

	top := 0
	for _, l := range lane.All() {
		packed := lane.Pack(byLane[l.ID], ctx.Window)
		ll := LaneLayout{
			Lane:   l,
			Top:    top,
			Height: lane.Height(packed, m),
			Items:  []Item{},
		}
		if len(packed) > 0 {
			ll.Slots = lane.Slots(packed)
		}
		for _, p := range packed {
			x, w, ok := ctx.Span(*p.Task.StartDate, *p.Task.EndDate)
			if !ok {
				continue
			}
			ll.Items = append(ll.Items, Item{
				Task:  p.Task.Clone(),
				X:     x,
				Width: w,
				Top:   p.Slot * m.SlotHeight,
				Slot:  p.Slot,
			})
		}
		s.Lanes = append(s.Lanes, ll)
		top += ll.Height
	}
	s.Height = top
	return s
}

// LaneAt returns the lane whose vertical band contains y, measured from the
// top of the first lane.
func (s Surface) LaneAt(y int) (lane.ID, bool) {
	for _, ll := range s.Lanes {
		if y >= ll.Top && y < ll.Top+ll.Height {
			return ll.Lane.ID, true
		}
	}
	return "", false
}

// ItemAt returns the card under (x, y), with y measured like LaneAt.
func (s Surface) ItemAt(x float64, y int, slotHeight int) (Item, bool) {
	for _, ll := range s.Lanes {
		if y < ll.Top || y >= ll.Top+ll.Height {
			continue
		}
		for _, it := range ll.Items {
			rowTop := ll.Top + it.Top
			if y >= rowTop && y < rowTop+slotHeight && x >= it.X && x < it.X+it.Width {
				return it, true
			}
		}
	}
	return Item{}, false
}
