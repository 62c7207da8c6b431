package date

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseISODropsTimeOfDay(t *testing.T) {
	cases := map[string]string{
		"2025-06-01":                "2025-06-01",
		"2025-06-01T00:00:00Z":      "2025-06-01",
		"2025-06-01T23:59:59.999Z":  "2025-06-01",
		"2025-06-01T21:00:00+03:00": "2025-06-01",
	}
	for in, want := range cases {
		got, err := ParseISO(in)
		if err != nil {
			t.Fatalf("ParseISO(%q): %v", in, err)
		}
		if got.String() != want {
			t.Errorf("ParseISO(%q) = %s, want %s", in, got, want)
		}
	}

	if _, err := ParseISO("2025-06-01Tnoon"); err == nil {
		t.Fatal("expected error for malformed timestamp")
	}
	if _, err := ParseISO("June 1"); err == nil {
		t.Fatal("expected error for non-ISO input")
	}
}

func TestDayArithmetic(t *testing.T) {
	start := New(2025, time.June, 1)
	end := start.AddDays(2)
	if end.String() != "2025-06-03" {
		t.Fatalf("AddDays(2) = %s", end)
	}
	if got := start.DaysUntil(end); got != 2 {
		t.Fatalf("DaysUntil = %d, want 2", got)
	}
	if got := end.DaysUntil(start); got != -2 {
		t.Fatalf("DaysUntil backwards = %d, want -2", got)
	}
	if got := InclusiveDays(start, end); got != 3 {
		t.Fatalf("InclusiveDays = %d, want 3", got)
	}
	if got := InclusiveDays(end, start); got != 0 {
		t.Fatalf("InclusiveDays reversed = %d, want 0", got)
	}
	if got := InclusiveDays(start, start); got != 1 {
		t.Fatalf("InclusiveDays same day = %d, want 1", got)
	}
}

func TestMonday(t *testing.T) {
	// 2025-08-15 is a Friday.
	fri := New(2025, time.August, 15)
	if got := fri.WeekdayOffset(); got != 4 {
		t.Fatalf("WeekdayOffset = %d, want 4", got)
	}
	if got := fri.Monday().String(); got != "2025-08-11" {
		t.Fatalf("Monday = %s, want 2025-08-11", got)
	}
	sun := New(2025, time.August, 17)
	if got := sun.Monday().String(); got != "2025-08-11" {
		t.Fatalf("Sunday's Monday = %s, want 2025-08-11", got)
	}
	mon := New(2025, time.August, 11)
	if !mon.Monday().Equal(mon) {
		t.Fatalf("Monday of a Monday should be itself")
	}
}

func TestJSONAcceptsTimestamps(t *testing.T) {
	var payload struct {
		Start *Date `json:"startDate"`
		End   *Date `json:"endDate"`
	}
	if err := json.Unmarshal([]byte(`{"startDate":"2025-07-10T09:30:00.000Z","endDate":null}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Start == nil || payload.Start.String() != "2025-07-10" {
		t.Fatalf("start = %v", payload.Start)
	}
	if payload.End != nil {
		t.Fatalf("null end should stay nil, got %v", payload.End)
	}

	out, err := json.Marshal(New(2025, time.July, 12))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"2025-07-12"` {
		t.Fatalf("marshal = %s", out)
	}
}

func TestRangeClip(t *testing.T) {
	r := Range{Start: New(2025, time.June, 1), End: New(2025, time.June, 30)}
	if r.Days() != 30 {
		t.Fatalf("Days = %d", r.Days())
	}

	from, to, ok := r.Clip(New(2025, time.May, 28), New(2025, time.June, 2))
	if !ok || from.String() != "2025-06-01" || to.String() != "2025-06-02" {
		t.Fatalf("Clip = %s..%s ok=%v", from, to, ok)
	}
	if _, _, ok := r.Clip(New(2025, time.July, 1), New(2025, time.July, 3)); ok {
		t.Fatal("span after the window should not clip")
	}
	if !r.Contains(New(2025, time.June, 30)) || r.Contains(New(2025, time.July, 1)) {
		t.Fatal("Contains should be inclusive of End only")
	}
}
