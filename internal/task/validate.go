package task

import (
	"github.com/twiced-technology-gmbh/mioplan/internal/clierr"
)

// Validate checks the task's own invariants: known levels and, when both
// dates are set, a start that does not follow the end.
func Validate(t Task) error {
	if t.Importance != Unset && !t.Importance.IsSet() {
		return ValidateLevel(string(t.Importance))
	}
	if t.Complexity != Unset && !t.Complexity.IsSet() {
		return ValidateLevel(string(t.Complexity))
	}
	if t.HasDates() && t.EndDate.Before(*t.StartDate) {
		return clierr.Newf(clierr.InvalidDate,
			"task #%d ends (%s) before it starts (%s)", t.ID, t.EndDate, t.StartDate).
			WithDetails(map[string]any{
				"id":         t.ID,
				"start_date": t.StartDate.String(),
				"end_date":   t.EndDate.String(),
			})
	}
	return nil
}

// ValidateLevel returns a CLIError for an unknown importance/complexity name.
func ValidateLevel(input string) *clierr.Error {
	return clierr.Newf(clierr.InvalidLevel, "invalid level %q", input).
		WithDetails(map[string]any{
			"level":   input,
			"allowed": []Level{High, Medium, Low},
		})
}

// ValidateDate returns a CLIError for invalid date input.
func ValidateDate(field, input string, err error) *clierr.Error {
	return clierr.Newf(clierr.InvalidDate, "invalid %s date: %v", field, err).
		WithDetails(map[string]any{
			"field": field,
			"input": input,
		})
}

// ValidateTaskID returns a CLIError for invalid task ID input.
func ValidateTaskID(input string) *clierr.Error {
	return clierr.Newf(clierr.InvalidTaskID, "invalid task ID %q", input).
		WithDetails(map[string]any{"input": input})
}

// NotFound returns a CLIError for a task ID that no source knows.
func NotFound(id int) *clierr.Error {
	return clierr.Newf(clierr.TaskNotFound, "task not found: #%d", id).
		WithDetails(map[string]any{"id": id})
}
