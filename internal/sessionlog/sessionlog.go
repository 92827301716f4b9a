// Package sessionlog writes the operator-facing session log: one
// timestamped line per event, appended to a single file.
package sessionlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/buckleypaul/comsetup/internal/logging"
)

// TimeFormat is the timestamp layout at the start of every line.
const TimeFormat = "2006-01-02 15:04:05"

// Logger appends lines to <dir>/<file>. The directory and file are
// created on the first write. Errors are returned, never swallowed.
type Logger struct {
	dir  string
	file string
	now  func() time.Time
	diag zerolog.Logger
	mu   sync.Mutex
}

// New creates a Logger writing to file inside dir.
func New(dir, file string) *Logger {
	return &Logger{
		dir:  dir,
		file: file,
		now:  time.Now,
		diag: logging.WithComponent("sessionlog"),
	}
}

// WithClock overrides the time source. Used by tests.
func (l *Logger) WithClock(now func() time.Time) *Logger {
	l.now = now
	return l
}

// Dir returns the log directory.
func (l *Logger) Dir() string {
	return l.dir
}

// Path returns the full path of the log file.
func (l *Logger) Path() string {
	return filepath.Join(l.dir, l.file)
}

// Log appends "<timestamp> - <message>" to the log file.
func (l *Logger) Log(message string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("create log dir %s: %w", l.dir, err)
	}

	f, err := os.OpenFile(l.Path(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log %s: %w", l.Path(), err)
	}

	line := fmt.Sprintf("%s - %s\n", l.now().Format(TimeFormat), message)
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return fmt.Errorf("write log %s: %w", l.Path(), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close log %s: %w", l.Path(), err)
	}

	l.diag.Debug().Msg(message)
	return nil
}
