package timeline

import (
	"math"
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/mioplan/internal/clierr"
	"github.com/twiced-technology-gmbh/mioplan/internal/date"
)

var units = Units{Day: 4, Week: 14, Month: 31}

func testContext(s Scale) Context {
	return Context{
		Scale: s,
		// 2025-05-14 is a Wednesday.
		Window: date.Range{Start: date.New(2025, time.May, 14), End: date.New(2025, time.December, 31)},
		Units:  units,
	}
}

func TestParseScale(t *testing.T) {
	for in, want := range map[string]Scale{"day": Day, "Week": Week, "m": Month} {
		got, err := ParseScale(in)
		if err != nil || got != want {
			t.Errorf("ParseScale(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseScale("year"); !clierr.HasCode(err, clierr.InvalidScale) {
		t.Fatalf("expected INVALID_SCALE, got %v", err)
	}
}

func TestPixelsPerDay(t *testing.T) {
	if got := units.PixelsPerDay(Week); got != 2 {
		t.Fatalf("week ppd = %v", got)
	}
	if got := units.PixelsPerDay(Month); got != 1 {
		t.Fatalf("month ppd = %v", got)
	}
	odd := Units{Week: 100, Month: 200}
	if got := odd.PixelsPerDay(Month); math.Abs(got-200.0/31) > 1e-12 {
		t.Fatalf("month ppd = %v", got)
	}
}

func TestRoundTripEveryDay(t *testing.T) {
	for _, s := range Scales() {
		ctx := testContext(s)
		ctx.Units = Units{Day: 37, Week: 100, Month: 200}
		for d := ctx.Window.Start; !d.After(ctx.Window.End); d = d.AddDays(1) {
			if got := ctx.PixelToDate(ctx.DateToX(d)); !got.Equal(d) {
				t.Fatalf("%s: round trip of %s gave %s", s, d, got)
			}
		}
	}
}

func TestDateToXClampsBeforeWindow(t *testing.T) {
	ctx := testContext(Day)
	if x := ctx.DateToX(date.New(2024, time.January, 1)); x != 0 {
		t.Fatalf("x = %v, want 0", x)
	}
	if x := ctx.DateToX(date.New(2025, time.May, 16)); x != 8 {
		t.Fatalf("x = %v, want 8", x)
	}
}

func TestWeekAlignsToMonday(t *testing.T) {
	ctx := testContext(Week)
	if !ctx.Origin().Equal(date.New(2025, time.May, 12)) {
		t.Fatalf("origin = %s", ctx.Origin())
	}
	// Wednesday of the first week sits two days into it.
	if x := ctx.DateToX(ctx.Window.Start); x != 4 {
		t.Fatalf("window start x = %v", x)
	}
	// Monday 2025-05-26 starts the third week.
	if x := ctx.DateToX(date.New(2025, time.May, 26)); x != 28 {
		t.Fatalf("monday x = %v", x)
	}
	grid := ctx.Grid()
	if grid[0].X != 0 || grid[1].X != 14 || !grid[1].Date.Equal(date.New(2025, time.May, 19)) {
		t.Fatalf("grid starts %+v %+v", grid[0], grid[1])
	}
}

func TestWidthForRange(t *testing.T) {
	ctx := testContext(Day)
	start := date.New(2025, time.June, 1)
	if w := ctx.WidthForRange(start, start.AddDays(2)); w != 12 {
		t.Fatalf("width = %v", w)
	}
	if w := ctx.WidthForRange(start, start.AddDays(-1)); w != 0 {
		t.Fatalf("reversed width = %v", w)
	}

	x, w, ok := ctx.Span(date.New(2025, time.May, 10), date.New(2025, time.May, 15))
	if !ok || x != 0 || w != 8 {
		t.Fatalf("clipped span = %v %v %v", x, w, ok)
	}
	if _, _, ok := ctx.Span(date.New(2026, time.May, 10), date.New(2026, time.May, 15)); ok {
		t.Fatal("span after window should not render")
	}
}

func TestMonthGrid(t *testing.T) {
	ctx := testContext(Month)
	grid := ctx.Grid()
	if len(grid) != 8 {
		t.Fatalf("got %d month lines", len(grid))
	}
	if grid[0].Label != "May 2025" || grid[0].X != 0 {
		t.Fatalf("first line %+v", grid[0])
	}
	// June 1st is 18 days after May 14th.
	if grid[1].X != 18 {
		t.Fatalf("june x = %v", grid[1].X)
	}
	if got := ctx.ContentWidth(); got != ctx.DateToX(ctx.Window.End)+1 {
		t.Fatalf("content width = %v", got)
	}
}
