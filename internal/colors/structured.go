package colors

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

var (
	structuredMu      sync.Mutex
	structuredEnabled atomic.Bool
)

func init() {
	structuredEnabled.Store(true)
}

// Level is the severity of a structured entry.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Entry is one structured log line written to stderr in debug mode.
type Entry struct {
	Timestamp string         `json:"timestamp"`
	Level     Level          `json:"level"`
	Component string         `json:"component"`
	Action    string         `json:"action"`
	Status    string         `json:"status"`
	Error     string         `json:"error,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// DisableStructuredLogging stops structured output. The TUI calls this
// because JSON lines on stderr corrupt the alternate screen.
func DisableStructuredLogging() {
	structuredEnabled.Store(false)
}

// EnableStructuredLogging re-enables structured output.
func EnableStructuredLogging() {
	structuredEnabled.Store(true)
}

// Structured writes a JSON entry to stderr when debug mode is on.
func Structured(level Level, component, action, status string, err error, fields map[string]any) {
	if !debugEnabled || !structuredEnabled.Load() {
		return
	}

	entry := Entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level,
		Component: component,
		Action:    action,
		Status:    status,
		Fields:    fields,
	}
	if err != nil {
		entry.Error = err.Error()
	}

	data, marshalErr := json.Marshal(entry)
	if marshalErr != nil {
		errorFallback(fmt.Sprintf("failed to marshal structured log: %v", marshalErr))
		return
	}

	structuredMu.Lock()
	defer structuredMu.Unlock()
	if _, writeErr := fmt.Fprintf(os.Stderr, "%s\n", data); writeErr != nil {
		errorFallback(fmt.Sprintf("failed to write structured log: %v", writeErr))
	}
}

// StructuredInfo logs a structured info entry.
func StructuredInfo(component, action, status string, fields map[string]any) {
	Structured(LevelInfo, component, action, status, nil, fields)
}

// StructuredError logs a structured error entry.
func StructuredError(component, action, status string, err error, fields map[string]any) {
	Structured(LevelError, component, action, status, err, fields)
}
