// Package output formats CLI results as tables, JSON, or compact lines.
package output

import (
	"os"

	"github.com/muesli/termenv"
)

// Format represents an output format.
type Format int

const (
	// FormatAuto uses the default format (table).
	FormatAuto Format = iota
	// FormatJSON outputs JSON.
	FormatJSON
	// FormatTable outputs a human-readable table.
	FormatTable
	// FormatCompact outputs one line per record.
	FormatCompact
)

// EnvFormat overrides the default format when no flag is given.
const EnvFormat = "MIOPLAN_OUTPUT"

// Detect returns the format chosen by flags, then MIOPLAN_OUTPUT, then table.
func Detect(jsonFlag, tableFlag, compactFlag bool) Format {
	switch {
	case jsonFlag:
		return FormatJSON
	case compactFlag:
		return FormatCompact
	case tableFlag:
		return FormatTable
	}

	switch os.Getenv(EnvFormat) {
	case "json":
		return FormatJSON
	case "compact", "oneline":
		return FormatCompact
	}
	return FormatTable
}

// ColorDisabled reports whether NO_COLOR (or CLICOLOR=0) asks for plain output.
func ColorDisabled() bool {
	return termenv.EnvNoColor()
}
