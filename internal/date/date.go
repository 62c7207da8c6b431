// Package date provides a Date type that marshals as YYYY-MM-DD.
package date

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

const format = "2006-01-02"

// day is the length of one calendar day in the UTC-midnight representation.
const day = 24 * time.Hour

// Date represents a calendar date without time or timezone.
type Date struct {
	time.Time
}

// New creates a Date from year, month, day.
func New(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime drops the time-of-day component of t, keeping the calendar date
// as seen in t's own location.
func FromTime(t time.Time) Date {
	return New(t.Year(), t.Month(), t.Day())
}

// Today returns today's date.
func Today() Date {
	return FromTime(time.Now())
}

// Parse parses a YYYY-MM-DD string into a Date.
func Parse(s string) (Date, error) {
	t, err := time.Parse(format, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date{t}, nil
}

// ParseISO accepts either a calendar date or a full ISO-8601 timestamp.
// The time-of-day of a timestamp is ignored; the date part is taken as written.
func ParseISO(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(format) && s[len(format)] == 'T' {
		if _, err := time.Parse(time.RFC3339Nano, s); err != nil {
			return Date{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
		return Parse(s[:len(format)])
	}
	return Parse(s)
}

// String returns the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(format)
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return Date{d.AddDate(0, 0, n)}
}

// DaysUntil returns the number of whole days from d to other.
// It is negative when other is before d.
func (d Date) DaysUntil(other Date) int {
	return int(other.Sub(d.Time) / day)
}

// WeekdayOffset returns the ISO weekday offset of d: Monday is 0, Sunday is 6.
func (d Date) WeekdayOffset() int {
	return (int(d.Weekday()) + 6) % 7 //nolint:mnd // shift Sunday=0 to Monday=0
}

// Monday returns the Monday that starts d's week.
func (d Date) Monday() Date {
	return d.AddDays(-d.WeekdayOffset())
}

// Equal reports whether d and other are the same calendar date.
func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After reports whether d is strictly after other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

// InclusiveDays returns the number of calendar days spanned by [start, end],
// counting both ends. It is 0 when end precedes start.
func InclusiveDays(start, end Date) int {
	n := start.DaysUntil(end) + 1
	if n < 0 {
		return 0
	}
	return n
}

// MarshalYAML implements yaml.Marshaler.
func (d Date) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// UnmarshalYAML implements yaml.v3 Unmarshaler.
func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseISO(value.Value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseISO(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Range is an inclusive calendar interval [Start, End].
type Range struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

// Contains reports whether d falls within r.
func (r Range) Contains(d Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// Days returns the number of calendar days in r.
func (r Range) Days() int {
	return InclusiveDays(r.Start, r.End)
}

// Clip intersects [start, end] with r. ok is false when they do not overlap.
func (r Range) Clip(start, end Date) (from, to Date, ok bool) {
	from, to = start, end
	if from.Before(r.Start) {
		from = r.Start
	}
	if to.After(r.End) {
		to = r.End
	}
	return from, to, !to.Before(from)
}
