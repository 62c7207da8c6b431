package timeline

import (
	"strconv"

	"github.com/twiced-technology-gmbh/mioplan/internal/date"
)

// GridLine is one vertical grid boundary with its header label.
type GridLine struct {
	X     float64   `json:"x"`
	Date  date.Date `json:"date"`
	Label string    `json:"label"`
	Major bool      `json:"major"`
}

// Grid returns the grid boundaries of the window under the active scale:
// every day, every Monday, or every first of the month. Major lines fall on
// month starts (days, weeks) or on January (months).
func (c Context) Grid() []GridLine {
	var lines []GridLine
	start, end := c.Origin(), c.Window.End
	switch c.Scale {
	case Week:
		for d := start; !d.After(end); d = d.AddDays(daysPerWeek) {
			lines = append(lines, GridLine{
				X:     c.weekX(d),
				Date:  d,
				Label: d.Format("Jan 02"),
				Major: d.Day() <= daysPerWeek,
			})
		}
	case Month:
		first := date.New(start.Year(), start.Month(), 1)
		for d := first; !d.After(end); d = date.FromTime(d.AddDate(0, 1, 0)) {
			lines = append(lines, GridLine{
				X:     c.DateToX(d),
				Date:  d,
				Label: d.Format("Jan 2006"),
				Major: d.Month() == 1,
			})
		}
	default:
		for d := start; !d.After(end); d = d.AddDays(1) {
			lines = append(lines, GridLine{
				X:     c.DateToX(d),
				Date:  d,
				Label: strconv.Itoa(d.Day()),
				Major: d.Day() == 1,
			})
		}
	}
	return lines
}

// weekX positions a Monday without the window clamp, so the first week
// line sits at 0 even when the window starts mid-week.
func (c Context) weekX(monday date.Date) float64 {
	return float64(c.Origin().DaysUntil(monday)/daysPerWeek) * c.Units.Week
}
