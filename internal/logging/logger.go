// Package logging writes the board's diagnostic log.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	dirName  = "logs"
	fileName = "mioplan.log"
)

// Logger appends timestamped lines to <board>/logs/mioplan.log. Aborted
// gestures and failed sink writes end up here instead of on the terminal.
// A nil *Logger discards everything.
type Logger struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
}

// New creates (or reuses) the log file under the board directory.
func New(boardDir string) (*Logger, error) {
	logDir := filepath.Join(boardDir, dirName)
	if err := os.MkdirAll(logDir, 0o750); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(logDir, fileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) //nolint:gosec // path under board dir
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	return &Logger{w: f, closer: f}, nil
}

// NewWriter logs to w. Close does not close w.
func NewWriter(w io.Writer) *Logger {
	return &Logger{w: w}
}

// Close releases the file handle.
func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// Printf writes a single timestamped line.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil || l.w == nil {
		return
	}
	line := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	timestamp := time.Now().Format(time.RFC3339)

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, "[%s] %s\n", timestamp, line)
}
