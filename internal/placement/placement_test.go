package placement

import (
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/mioplan/internal/clierr"
	"github.com/twiced-technology-gmbh/mioplan/internal/date"
	"github.com/twiced-technology-gmbh/mioplan/internal/lane"
	"github.com/twiced-technology-gmbh/mioplan/internal/timeline"
)

func ctx(s timeline.Scale) timeline.Context {
	return timeline.Context{
		Scale:  s,
		Window: date.Range{Start: date.New(2025, time.June, 1), End: date.New(2025, time.August, 31)},
		Units:  timeline.Units{Day: 40, Week: 70, Month: 310},
	}
}

func TestResolveQuantizesToDay(t *testing.T) {
	c := ctx(timeline.Day)
	// 39 days after June 1st, a little into the column.
	target, err := Resolve(c, 39*40+17, "high-low")
	if err != nil {
		t.Fatal(err)
	}
	if target.Date.String() != "2025-07-10" || target.Lane != "high-low" {
		t.Fatalf("target = %+v", target)
	}
	if target.Highlight.X != 39*40 || target.Highlight.Width != 40 {
		t.Fatalf("highlight = %+v", target.Highlight)
	}
}

func TestResolveDayPrecisionOnCoarseScales(t *testing.T) {
	for _, s := range []timeline.Scale{timeline.Week, timeline.Month} {
		c := ctx(s)
		want := date.New(2025, time.July, 16)
		target, err := Resolve(c, XForDate(c, want), "low-medium")
		if err != nil {
			t.Fatalf("%s: %v", s, err)
		}
		if !target.Date.Equal(want) {
			t.Errorf("%s: date = %s", s, target.Date)
		}
		if target.Highlight.Width != 10 {
			t.Errorf("%s: width = %v", s, target.Highlight.Width)
		}
		if target.Highlight.X != c.DateToX(want) {
			t.Errorf("%s: highlight x = %v, day edge %v", s, target.Highlight.X, c.DateToX(want))
		}
	}
}

func TestResolveRejectsOutside(t *testing.T) {
	c := ctx(timeline.Day)
	cases := []struct {
		name string
		x    float64
		lane lane.ID
	}{
		{"negative x", -1, "high-high"},
		{"past window", c.ContentWidth() + 1, "high-high"},
		{"unsorted", 10, lane.Unsorted},
		{"unknown lane", 10, "urgent-easy"},
	}
	for _, tc := range cases {
		if _, err := Resolve(c, tc.x, tc.lane); !clierr.HasCode(err, clierr.UnresolvedTarget) {
			t.Errorf("%s: err = %v", tc.name, err)
		}
	}

	// Under the week scale the grid starts on the Monday before the window;
	// those leading days are not droppable.
	w := ctx(timeline.Week)
	w.Window.Start = date.New(2025, time.June, 4)
	if _, err := Resolve(w, 1, "high-high"); !clierr.HasCode(err, clierr.UnresolvedTarget) {
		t.Fatalf("day before window start resolved: %v", err)
	}
}
