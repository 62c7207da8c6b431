// Package timeline maps calendar dates to horizontal positions on the board
// under the day, week and month scales.
package timeline

import (
	"strings"

	"github.com/twiced-technology-gmbh/mioplan/internal/clierr"
)

// Scale is the period of the rendered time grid. Positions always resolve
// to whole days whatever the scale.
type Scale int

// Scales.
const (
	Day Scale = iota
	Week
	Month
)

const (
	daysPerWeek  = 7
	daysPerMonth = 31
)

var scaleNames = [...]string{Day: "day", Week: "week", Month: "month"}

// Scales returns every scale, finest first.
func Scales() []Scale {
	return []Scale{Day, Week, Month}
}

func (s Scale) String() string {
	if s < Day || s > Month {
		return "unknown"
	}
	return scaleNames[s]
}

// ParseScale parses "day", "week" or "month" (or their first letter).
func ParseScale(s string) (Scale, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for i, name := range scaleNames {
		if v == name || (len(v) == 1 && v[0] == name[0]) {
			return Scale(i), nil
		}
	}
	return Day, clierr.Newf(clierr.InvalidScale, "invalid scale %q", s).
		WithDetails(map[string]any{"scale": s, "allowed": scaleNames[:]})
}

// MarshalText implements encoding.TextMarshaler.
func (s Scale) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Scale) UnmarshalText(text []byte) error {
	parsed, err := ParseScale(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Units holds the nominal width of one grid unit per scale: a day, a week
// and a month respectively.
type Units struct {
	Day   float64 `json:"day"`
	Week  float64 `json:"week"`
	Month float64 `json:"month"`
}

// UnitWidth returns the nominal grid unit width for s.
func (u Units) UnitWidth(s Scale) float64 {
	switch s {
	case Week:
		return u.Week
	case Month:
		return u.Month
	default:
		return u.Day
	}
}

// PixelsPerDay returns the width of one calendar day under s. Weeks divide
// by 7 and months by a fixed 31, so every scale keeps day resolution.
func (u Units) PixelsPerDay(s Scale) float64 {
	switch s {
	case Week:
		return u.Week / daysPerWeek
	case Month:
		return u.Month / daysPerMonth
	default:
		return u.Day
	}
}
