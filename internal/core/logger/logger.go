// Package logger provides the structured logging engine for devctl.
// Uses log/slog with text and JSON handlers, or a charmbracelet/log handler
// for the "pretty" format. Output always goes to stderr and optionally to a
// log file.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	charmlog "github.com/charmbracelet/log"
)

// Logger wraps slog.Logger with devctl-specific utilities.
type Logger struct {
	*slog.Logger
	closers []io.Closer
}

// Init builds the process logger and installs it as the slog default.
// An unwritable logFile is skipped rather than reported.
func Init(level, format, logFile string, debug bool) (*Logger, error) {
	lvl := ParseLevel(level)
	if debug {
		lvl = slog.LevelDebug
	}

	writers := []io.Writer{os.Stderr}
	var closers []io.Closer
	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0750); err == nil {
			f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
			if err == nil {
				writers = append(writers, f)
				closers = append(closers, f)
			}
		}
	}

	l := New(io.MultiWriter(writers...), lvl, format, debug)
	l.closers = closers
	slog.SetDefault(l.Logger)
	return l, nil
}

// New returns a Logger writing to w without touching the slog default.
func New(w io.Writer, lvl slog.Level, format string, addSource bool) *Logger {
	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl, AddSource: addSource})
	case "pretty":
		handler = charmlog.NewWithOptions(w, charmlog.Options{
			Level:           charmlog.Level(lvl),
			ReportTimestamp: true,
			ReportCaller:    addSource,
			Prefix:          "devctl",
		})
	default:
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl, AddSource: addSource})
	}
	return &Logger{Logger: slog.New(handler)}
}

// Discard returns a Logger that drops every record.
func Discard() *Logger {
	return New(io.Discard, slog.LevelError, "text", false)
}

// ParseLevel maps a config level name to a slog level; unknown names are info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Close releases the log file, if one was opened.
func (l *Logger) Close() error {
	var first error
	for _, c := range l.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	l.closers = nil
	return first
}
