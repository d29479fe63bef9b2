// Package logging writes one JSON object per line, the format shared by the
// request logger, the conversion service, migrations and tracing startup.
package logging

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

// Logger emits JSON log lines stamped in a fixed location.
// It is safe for concurrent use.
type Logger struct {
	mu  sync.Mutex
	w   io.Writer
	loc *time.Location
}

// New returns a Logger writing to w. A nil loc means UTC.
func New(w io.Writer, loc *time.Location) *Logger {
	if loc == nil {
		loc = time.UTC
	}
	return &Logger{w: w, loc: loc}
}

// Stdout returns a Logger writing to standard output.
func Stdout(loc *time.Location) *Logger {
	return New(os.Stdout, loc)
}

// Discard returns a Logger that drops everything, for tests and optional wiring.
func Discard() *Logger {
	return New(io.Discard, time.UTC)
}

// Info logs msg at info level with the given fields.
func (l *Logger) Info(msg string, fields map[string]any) {
	l.write("info", msg, fields)
}

// Error logs msg at error level with the given fields.
func (l *Logger) Error(msg string, fields map[string]any) {
	l.write("error", msg, fields)
}

// Warn logs msg at warn level with the given fields.
func (l *Logger) Warn(msg string, fields map[string]any) {
	l.write("warn", msg, fields)
}

// Log writes a pre-built entry. A missing level is derived from "status".
func (l *Logger) Log(entry map[string]any) {
	if _, ok := entry["level"]; !ok {
		if entry["status"] == "error" {
			entry["level"] = "error"
		} else {
			entry["level"] = "info"
		}
	}
	entry["ts"] = time.Now().In(l.loc).Format(time.RFC3339Nano)
	l.encode(entry)
}

// Location returns the timezone used for timestamps.
func (l *Logger) Location() *time.Location { return l.loc }

func (l *Logger) write(level, msg string, fields map[string]any) {
	entry := make(map[string]any, len(fields)+3)
	for k, v := range fields {
		entry[k] = v
	}
	entry["level"] = level
	entry["msg"] = msg
	l.Log(entry)
}

func (l *Logger) encode(entry map[string]any) {
	b, err := json.Marshal(entry)
	if err != nil {
		return
	}
	b = append(b, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.w.Write(b)
}
