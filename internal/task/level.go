package task

import (
	"encoding/json"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Level is an importance or complexity grade.
type Level string

// Levels in board order, highest first. Unset marks an unclassified task.
const (
	Unset  Level = ""
	High   Level = "high"
	Medium Level = "medium"
	Low    Level = "low"
)

// Levels returns the settable levels in board order.
func Levels() []Level {
	return []Level{High, Medium, Low}
}

// IsSet reports whether l is one of High, Medium or Low.
func (l Level) IsSet() bool {
	switch l {
	case High, Medium, Low:
		return true
	}
	return false
}

// Rank returns the board order of l (0 for High) or -1 when unset.
func (l Level) Rank() int {
	for i, v := range Levels() {
		if v == l {
			return i
		}
	}
	return -1
}

// ParseLevel parses a level name. Empty, "null", "none" and "undefined"
// (as written by older web clients) yield Unset.
func ParseLevel(s string) (Level, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "", "null", "none", "undefined":
		return Unset, nil
	case string(High), string(Medium), string(Low):
		return Level(v), nil
	}
	return Unset, ValidateLevel(s)
}

// MarshalJSON writes Unset as null.
func (l Level) MarshalJSON() ([]byte, error) {
	if !l.IsSet() {
		return []byte("null"), nil
	}
	return json.Marshal(string(l))
}

// UnmarshalJSON accepts null or a level name.
func (l *Level) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = Unset
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseLevel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// UnmarshalYAML implements yaml.v3 Unmarshaler.
func (l *Level) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseLevel(value.Value)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
