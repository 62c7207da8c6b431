package lane

import (
	"testing"
	"time"

	"github.com/twiced-technology-gmbh/mioplan/internal/clierr"
	"github.com/twiced-technology-gmbh/mioplan/internal/date"
	"github.com/twiced-technology-gmbh/mioplan/internal/task"
)

var june = date.Range{Start: date.New(2025, time.June, 1), End: date.New(2025, time.June, 30)}

func placed(id int, start, end string) task.Task {
	s, _ := date.Parse(start)
	e, _ := date.Parse(end)
	return task.Task{ID: id}.Place(task.High, task.Low, s, date.InclusiveDays(s, e))
}

func TestAllLanesDistinct(t *testing.T) {
	lanes := All()
	if len(lanes) != 9 {
		t.Fatalf("got %d lanes", len(lanes))
	}
	seen := map[string]bool{}
	for _, l := range lanes {
		if seen[l.Color] {
			t.Errorf("color %s reused by %s", l.Color, l.ID)
		}
		seen[l.Color] = true
	}
	if lanes[0].ID != "high-high" || lanes[8].ID != "low-low" {
		t.Fatalf("unexpected order: %s .. %s", lanes[0].ID, lanes[8].ID)
	}
}

func TestParse(t *testing.T) {
	id, imp, cmp, err := Parse("High-Low")
	if err != nil || id != "high-low" || imp != task.High || cmp != task.Low {
		t.Fatalf("Parse = %q %q %q %v", id, imp, cmp, err)
	}
	if id, _, _, err := Parse("unsorted"); err != nil || id != Unsorted {
		t.Fatalf("Parse(unsorted) = %q %v", id, err)
	}
	for _, bad := range []string{"", "high", "high-urgent", "imp-cmp"} {
		if _, _, _, err := Parse(bad); !clierr.HasCode(err, clierr.InvalidLane) {
			t.Errorf("Parse(%q) err = %v", bad, err)
		}
	}
}

func TestOf(t *testing.T) {
	if Of(task.Task{ID: 1, Importance: task.High, Complexity: task.Low}) != Unsorted {
		t.Fatal("task without dates should be unsorted")
	}
	if got := Of(placed(1, "2025-06-01", "2025-06-02")); got != "high-low" {
		t.Fatalf("Of = %s", got)
	}
}

func TestPackOverlappingTasks(t *testing.T) {
	second := placed(2, "2025-06-01", "2025-06-02")
	first := placed(1, "2025-06-01", "2025-06-02")

	packed := Pack([]task.Task{second, first}, june)
	if packed[0].Task.ID != 1 || packed[0].Slot != 0 {
		t.Fatalf("first = %+v", packed[0])
	}
	if packed[1].Task.ID != 2 || packed[1].Slot != 1 {
		t.Fatalf("second = %+v", packed[1])
	}

	m := Metrics{SlotHeight: 2, BasePadding: 1, MinHeight: 3}
	if h := Height(packed, m); h != 5 {
		t.Fatalf("height = %d, want 2 slots * 2 + 1", h)
	}
}

func TestPackReusesFreedSlots(t *testing.T) {
	tasks := []task.Task{
		placed(1, "2025-06-01", "2025-06-03"),
		placed(2, "2025-06-03", "2025-06-05"),
		placed(3, "2025-06-04", "2025-06-06"),
	}
	packed := Pack(tasks, june)
	want := []int{0, 1, 0}
	for i, s := range packed {
		if s.Slot != want[i] {
			t.Errorf("task %d slot = %d, want %d", s.Task.ID, s.Slot, want[i])
		}
	}
}

func TestPackNoSharedSlotOnSharedDay(t *testing.T) {
	tasks := []task.Task{
		placed(5, "2025-06-02", "2025-06-09"),
		placed(3, "2025-06-01", "2025-06-04"),
		placed(9, "2025-06-08", "2025-06-12"),
		placed(1, "2025-06-04", "2025-06-04"),
		placed(4, "2025-06-10", "2025-06-20"),
		placed(7, "2025-06-03", "2025-06-11"),
	}
	packed := Pack(tasks, june)
	for i, a := range packed {
		for _, b := range packed[i+1:] {
			overlap := !a.Task.EndDate.Before(*b.Task.StartDate) && !b.Task.EndDate.Before(*a.Task.StartDate)
			if overlap && a.Slot == b.Slot {
				t.Errorf("tasks %d and %d overlap in slot %d", a.Task.ID, b.Task.ID, a.Slot)
			}
		}
	}

	again := Pack(tasks, june)
	for i := range packed {
		if packed[i].Slot != again[i].Slot || packed[i].Task.ID != again[i].Task.ID {
			t.Fatalf("packing is not deterministic at %d", i)
		}
	}
}

func TestPackIgnoresUndatedAndOutOfWindow(t *testing.T) {
	tasks := []task.Task{
		{ID: 1, Title: "no dates"},
		placed(2, "2025-08-01", "2025-08-03"),
		placed(3, "2025-06-01", "2025-06-01"),
	}
	packed := Pack(tasks, june)
	for _, s := range packed {
		if s.Slot != 0 {
			t.Errorf("task %d slot = %d, want 0", s.Task.ID, s.Slot)
		}
	}
	if h := Height(nil, Metrics{SlotHeight: 2, MinHeight: 4}); h != 4 {
		t.Fatalf("empty lane height = %d", h)
	}
}

func TestPackClipsToWindow(t *testing.T) {
	tasks := []task.Task{
		placed(1, "2025-05-20", "2025-06-01"),
		placed(2, "2025-05-25", "2025-05-31"),
		placed(3, "2025-06-01", "2025-06-02"),
	}
	packed := Pack(tasks, june)
	// Task 2 is outside june and must not push task 3 down.
	if packed[1].Slot != 0 || packed[2].Slot != 1 {
		t.Fatalf("slots = %d %d", packed[1].Slot, packed[2].Slot)
	}
}
