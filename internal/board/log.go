package board

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Activity actions.
const (
	ActionAdd    = "add"
	ActionEdit   = "edit"
	ActionPlace  = "place"
	ActionResize = "resize"
	ActionUnsort = "unsort"
	ActionDelete = "delete"
	ActionSync   = "sync"
)

const (
	logFileName   = "activity.jsonl"
	logFileMode   = 0o600
	maxLogEntries = 10000
)

// LogEntry is one line of the activity log.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	TaskID    int       `json:"task_id"`
	Lane      string    `json:"lane,omitempty"`
	Detail    string    `json:"detail"`
}

// AppendLog appends entry to <boardDir>/activity.jsonl, keeping at most
// maxLogEntries lines.
func AppendLog(boardDir string, entry LogEntry) error {
	path := filepath.Join(boardDir, logFileName)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFileMode) //nolint:gosec // path under board dir
	if err != nil {
		return fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling log entry: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing log entry: %w", err)
	}

	_ = trimLog(path)
	return nil
}

// ReadLog returns the newest limit entries, oldest first. A missing log
// yields no entries; limit <= 0 returns everything.
func ReadLog(boardDir string, limit int) ([]LogEntry, error) {
	lines, err := readLines(filepath.Join(boardDir, logFileName))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading activity log: %w", err)
	}
	if limit > 0 && len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}

	entries := make([]LogEntry, 0, len(lines))
	for _, line := range lines {
		var e LogEntry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue // torn write
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func trimLog(path string) error {
	lines, err := readLines(path)
	if err != nil {
		return err
	}
	if len(lines) <= maxLogEntries {
		return nil
	}
	lines = lines[len(lines)-maxLogEntries:]
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), logFileMode)
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // path under board dir
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

// LogMutation records a mutation. Failures are dropped; the activity log
// never fails a command.
func LogMutation(boardDir, action string, taskID int, laneID, detail string) {
	_ = AppendLog(boardDir, LogEntry{
		Timestamp: time.Now(),
		Action:    action,
		TaskID:    taskID,
		Lane:      laneID,
		Detail:    detail,
	})
}
