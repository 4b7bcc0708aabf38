package domain

import (
	"time"

	"github.com/google/uuid"
)

// LogLevel classifies a log entry for console filtering.
type LogLevel string

const (
	LogInfo    LogLevel = "info"
	LogSuccess LogLevel = "success"
	LogWarning LogLevel = "warning"
	LogError   LogLevel = "error"
	LogSystem  LogLevel = "system"
	LogNode    LogLevel = "node"
)

// LogEntry is an immutable audit record. Entries are append-only and
// never reordered; insertion order is chronological order.
type LogEntry struct {
	ID        string   `json:"id"`
	Timestamp int64    `json:"timestamp"`
	Level     LogLevel `json:"level"`
	Source    string   `json:"source"`
	Message   string   `json:"message"`
}

// NewLogEntry stamps a log record with a unique id and the current time.
func NewLogEntry(level LogLevel, source, message string) LogEntry {
	return LogEntry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UnixMilli(),
		Level:     level,
		Source:    source,
		Message:   message,
	}
}
