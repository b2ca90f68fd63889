// Package logging provides structured file logging for pullscroll.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/cristianoliveira/pullscroll/internal/colors"
)

// Logger is the structured logging interface.
type Logger interface {
	// Debug logs a debug message.
	Debug(msg string, args ...any)
	// Info logs an informational message.
	Info(msg string, args ...any)
	// Warn logs a warning message.
	Warn(msg string, args ...any)
	// Error logs an error message.
	Error(msg string, args ...any)
	// With returns a new logger with additional key-value pairs.
	With(args ...any) Logger
	// Shutdown flushes any buffered logs and releases resources.
	Shutdown() error
}

// fileLogger is the charmbracelet/log based implementation writing JSON
// lines to a file.
type fileLogger struct {
	clogger *clog.Logger
	file    *os.File
	path    string
}

// Init creates a Logger for cfg. A disabled config yields a no-op logger.
// The log directory is rotated before the new file is opened.
func Init(cfg Config) (Logger, error) {
	if !cfg.Enabled {
		return noopLogger{}, nil
	}
	logDir := cfg.Dir
	if logDir == "" {
		dir, err := LogDir()
		if err != nil {
			return nil, fmt.Errorf("failed to determine log directory: %w", err)
		}
		logDir = dir
	}
	if err := rotate(logDir, cfg.MaxFiles); err != nil {
		// Non-fatal; continue with the new file.
		fmt.Fprintf(os.Stderr, "log rotation failed: %v\n", err)
	}

	fname := fmt.Sprintf("%s%s_PID%d_%s.log",
		logFilePrefix,
		time.Now().Format("20060102_150405.000000"),
		cfg.PID,
		strings.ReplaceAll(cfg.Command, " ", "_"))
	path := filepath.Join(logDir, fname)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	clogger := clog.NewWithOptions(f, clog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339Nano,
		Level:           parseLevel(cfg.Level),
		Formatter:       clog.JSONFormatter,
	})
	clogger = clogger.With("pid", cfg.PID, "command", cfg.Command)
	return &fileLogger{clogger: clogger, file: f, path: path}, nil
}

// parseLevel converts a string level to clog.Level.
func parseLevel(level string) clog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return clog.DebugLevel
	case "warn", "warning":
		return clog.WarnLevel
	case "error":
		return clog.ErrorLevel
	default:
		return clog.InfoLevel
	}
}

func (l *fileLogger) Debug(msg string, args ...any) { l.clogger.Debug(msg, args...) }
func (l *fileLogger) Info(msg string, args ...any)  { l.clogger.Info(msg, args...) }
func (l *fileLogger) Warn(msg string, args ...any)  { l.clogger.Warn(msg, args...) }
func (l *fileLogger) Error(msg string, args ...any) { l.clogger.Error(msg, args...) }

// With returns a logger sharing the same file with extra fields.
func (l *fileLogger) With(args ...any) Logger {
	return &fileLogger{clogger: l.clogger.With(args...), file: l.file, path: l.path}
}

// Shutdown closes the log file. Loggers derived through With share the
// file, so only the root logger should be shut down.
func (l *fileLogger) Shutdown() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// noopLogger is a logger that discards all output.
type noopLogger struct{}

func (n noopLogger) Debug(msg string, args ...any) {}
func (n noopLogger) Info(msg string, args ...any)  {}
func (n noopLogger) Warn(msg string, args ...any)  {}
func (n noopLogger) Error(msg string, args ...any) {}
func (n noopLogger) With(args ...any) Logger       { return n }
func (n noopLogger) Shutdown() error               { return nil }

// Noop returns a logger that discards everything.
func Noop() Logger {
	return noopLogger{}
}

var (
	globalLogger   Logger
	globalLoggerMu sync.RWMutex
)

// InitGlobal initializes the global logger from the global config and
// mirrors console messages into it.
func InitGlobal() error {
	l, err := Init(FromGlobalConfig())
	if err != nil {
		return err
	}
	globalLoggerMu.Lock()
	globalLogger = l
	globalLoggerMu.Unlock()

	colors.SetLogger(l)
	if path := CurrentLogFile(); path != "" {
		colors.Debug("Logging to file:", path)
	}
	return nil
}

// GetGlobal returns the global logger, or a no-op logger if not initialized.
func GetGlobal() Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	if globalLogger == nil {
		return noopLogger{}
	}
	return globalLogger
}

// ShutdownGlobal shuts down the global logger.
func ShutdownGlobal() error {
	globalLoggerMu.Lock()
	defer globalLoggerMu.Unlock()
	if globalLogger == nil {
		return nil
	}
	err := globalLogger.Shutdown()
	globalLogger = nil
	colors.SetLogger(nil)
	return err
}

// CurrentLogFile returns the path of the global log file, or "" when file
// logging is disabled.
func CurrentLogFile() string {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	if impl, ok := globalLogger.(*fileLogger); ok {
		return impl.path
	}
	return ""
}
