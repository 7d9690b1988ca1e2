// Package logging provides file-based structured logging for weekplan.
// Entries are written as JSON lines to <data>/logs/weekplan.log and,
// optionally, in human-readable form to a console writer.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/runoshun/weekplan/internal/domain"
)

// Ensure Logger implements domain.Logger interface.
var _ domain.Logger = (*Logger)(nil)

const consoleTimeFormat = "15:04:05"

// Logger adapts zerolog to domain.Logger.
// The log file is opened on first use.
// Fields are ordered to minimize memory padding.
type Logger struct {
	console io.Writer
	file    *os.File
	zl      *zerolog.Logger
	dataDir string
	mu      sync.Mutex
	level   zerolog.Level
}

// New creates a Logger writing under dataDir. console, when non-nil, also
// receives every entry through a zerolog.ConsoleWriter.
// If dataDir is empty and console is nil, logging is disabled.
func New(dataDir string, level zerolog.Level, console io.Writer) *Logger {
	return &Logger{
		dataDir: dataDir,
		level:   level,
		console: console,
	}
}

// ParseLevel parses a log level string into zerolog.Level.
// Unknown values yield info.
func ParseLevel(levelStr string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Path returns the log file path, or "" when file logging is disabled.
func (l *Logger) Path() string {
	if l.dataDir == "" {
		return ""
	}
	return filepath.Join(l.dataDir, domain.LogsDirName, domain.LogFileName)
}

// ensureLogger builds the zerolog logger on first use.
func (l *Logger) ensureLogger() (*zerolog.Logger, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.zl != nil {
		return l.zl, nil
	}

	var writers []io.Writer
	if path := l.Path(); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("create logs directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // Log file readable by owner and group
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		l.file = f
		writers = append(writers, f)
	}
	if l.console != nil {
		writers = append(writers, zerolog.ConsoleWriter{Out: l.console, TimeFormat: consoleTimeFormat, NoColor: true})
	}

	zl := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(l.level).
		With().
		Timestamp().
		Logger()
	l.zl = &zl
	return l.zl, nil
}

// Close closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var err error
	if l.file != nil {
		err = l.file.Close()
		l.file = nil
	}
	l.zl = nil
	return err
}

func (l *Logger) log(level zerolog.Level, category, msg string, kv []any) {
	if l.dataDir == "" && l.console == nil {
		return // Logging disabled
	}
	if level < l.level {
		return
	}

	zl, err := l.ensureLogger()
	if err != nil {
		return
	}

	e := zl.WithLevel(level)
	if e == nil {
		return
	}
	e.Str("category", category)
	if len(kv)%2 == 1 {
		kv = append(kv, "(MISSING)")
	}
	e.Fields(kv).Msg(msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(category, msg string, kv ...any) {
	l.log(zerolog.DebugLevel, category, msg, kv)
}

// Info logs an info message.
func (l *Logger) Info(category, msg string, kv ...any) {
	l.log(zerolog.InfoLevel, category, msg, kv)
}

// Warn logs a warning message.
func (l *Logger) Warn(category, msg string, kv ...any) {
	l.log(zerolog.WarnLevel, category, msg, kv)
}

// Error logs an error message.
func (l *Logger) Error(category, msg string, kv ...any) {
	l.log(zerolog.ErrorLevel, category, msg, kv)
}
