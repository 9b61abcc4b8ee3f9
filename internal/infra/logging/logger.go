// Package logging writes operation logs under the te4it data directory.
// Every entry goes to the global log (logs/te4it.log); entries about a
// project are also written to that project's log (logs/project-<id>.log).
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/te4it/te4it/internal/domain"
)

// Ensure Logger implements domain.Logger interface.
var _ domain.Logger = (*Logger)(nil)

const (
	projectKey  = "project"
	categoryKey = "category"
)

// Logger routes slog records to the global and per-project log files.
// Fields are ordered to minimize memory padding.
type Logger struct {
	clock        domain.Clock
	slog         *slog.Logger
	globalFile   *os.File
	projectFiles map[domain.ID]*os.File
	dataDir      string
	mu           sync.Mutex
	level        slog.Level
}

// New creates a Logger that writes below dataDir.
// If dataDir is empty, logging is disabled.
func New(dataDir string, level slog.Level) *Logger {
	l := &Logger{
		clock:        domain.RealClock{},
		dataDir:      dataDir,
		level:        level,
		projectFiles: make(map[domain.ID]*os.File),
	}
	l.slog = slog.New(&fileHandler{logger: l})
	return l
}

// WithClock replaces the clock used for timestamps.
func (l *Logger) WithClock(clock domain.Clock) *Logger {
	l.clock = clock
	return l
}

// ParseLevel parses a log level string into slog.Level.
func ParseLevel(levelStr string) slog.Level {
	switch levelStr {
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

func (l *Logger) openFile(path string) (*os.File, error) {
	if err := os.MkdirAll(domain.LogDir(l.dataDir), 0o750); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // Log file readable by owner and group
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// write appends entry to the global log and, for project entries, to the
// project log.
func (l *Logger) write(projectID domain.ID, entry string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.globalFile == nil {
		f, err := l.openFile(domain.LogFilePath(l.dataDir, ""))
		if err != nil {
			return
		}
		l.globalFile = f
	}
	_, _ = io.WriteString(l.globalFile, entry)

	if projectID.IsZero() {
		return
	}
	f, ok := l.projectFiles[projectID]
	if !ok {
		var err error
		if f, err = l.openFile(domain.LogFilePath(l.dataDir, projectID)); err != nil {
			return
		}
		l.projectFiles[projectID] = f
	}
	_, _ = io.WriteString(f, entry)
}

// Close closes all open log files.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var lastErr error
	if l.globalFile != nil {
		if err := l.globalFile.Close(); err != nil {
			lastErr = err
		}
		l.globalFile = nil
	}
	for id, f := range l.projectFiles {
		if err := f.Close(); err != nil {
			lastErr = err
		}
		delete(l.projectFiles, id)
	}
	return lastErr
}

func (l *Logger) log(level slog.Level, projectID domain.ID, category, msg string) {
	if l.dataDir == "" {
		return
	}
	l.slog.Log(context.Background(), level, msg,
		slog.String(projectKey, projectID.String()),
		slog.String(categoryKey, category),
	)
}

// Info logs an info message.
func (l *Logger) Info(projectID domain.ID, category, msg string) {
	l.log(slog.LevelInfo, projectID, category, msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(projectID domain.ID, category, msg string) {
	l.log(slog.LevelDebug, projectID, category, msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(projectID domain.ID, category, msg string) {
	l.log(slog.LevelWarn, projectID, category, msg)
}

// Error logs an error message.
func (l *Logger) Error(projectID domain.ID, category, msg string) {
	l.log(slog.LevelError, projectID, category, msg)
}

// fileHandler is a slog.Handler that renders one bracketed line per record:
//
//	[2026-03-01 09:00:00] [INFO] [project-<id>] [task] message
type fileHandler struct {
	logger *Logger
	attrs  []slog.Attr
}

func (h *fileHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.logger.level
}

func (h *fileHandler) Handle(_ context.Context, r slog.Record) error {
	var projectID domain.ID
	category := "-"
	visit := func(a slog.Attr) bool {
		switch a.Key {
		case projectKey:
			projectID = domain.ID(a.Value.String())
		case categoryKey:
			category = a.Value.String()
		}
		return true
	}
	for _, a := range h.attrs {
		visit(a)
	}
	r.Attrs(visit)

	h.logger.write(projectID, formatLine(h.logger.clock.Now(), r.Level, projectID, category, r.Message))
	return nil
}

func (h *fileHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &fileHandler{logger: h.logger, attrs: append(append([]slog.Attr{}, h.attrs...), attrs...)}
}

// WithGroup is not supported; groups are flattened.
func (h *fileHandler) WithGroup(string) slog.Handler {
	return h
}

func formatLine(t time.Time, level slog.Level, projectID domain.ID, category, msg string) string {
	scope := "global"
	if !projectID.IsZero() {
		scope = "project-" + projectID.String()
	}
	return fmt.Sprintf("[%s] [%s] [%s] [%s] %s\n",
		t.Format("2006-01-02 15:04:05"),
		levelToString(level),
		scope,
		category,
		msg,
	)
}

func levelToString(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
