// Package logging builds the process logger.
//
// The terminal owns stdout and stderr while the editor runs, so records go
// to files: a text log and, optionally, a JSON log for tooling. Both share
// one level that can be changed at runtime.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

// ErrUnknownLevel is returned by ParseLevel.
var ErrUnknownLevel = errors.New("unknown log level")

// ParseLevel parses debug, info, warn or error in any case.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

// Options configures New.
type Options struct {
	Level    string
	File     string
	JSONFile string
}

// Logger is a configured logger and the files it writes to.
type Logger struct {
	*slog.Logger
	level   *slog.LevelVar
	closers []io.Closer
}

// New opens the configured outputs. An empty File uses DefaultFile.
func New(opts Options) (*Logger, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	l := &Logger{level: new(slog.LevelVar)}
	l.level.Set(lvl)

	path := opts.File
	if path == "" {
		path = DefaultFile()
	}
	text, err := openLog(path)
	if err != nil {
		return nil, err
	}
	l.closers = append(l.closers, text)
	handlers := []slog.Handler{
		slog.NewTextHandler(text, &slog.HandlerOptions{Level: l.level}),
	}

	if opts.JSONFile != "" {
		js, err := openLog(opts.JSONFile)
		if err != nil {
			l.Close()
			return nil, err
		}
		l.closers = append(l.closers, js)
		handlers = append(handlers, slog.NewJSONHandler(js, &slog.HandlerOptions{Level: l.level}))
	}

	l.Logger = slog.New(slogmulti.Fanout(handlers...))
	return l, nil
}

// NewWriter logs text records to w, for tests and one-shot commands.
func NewWriter(w io.Writer, level slog.Level) *Logger {
	l := &Logger{level: new(slog.LevelVar)}
	l.level.Set(level)
	l.Logger = slog.New(slogmulti.Fanout(
		slog.NewTextHandler(w, &slog.HandlerOptions{Level: l.level}),
	))
	return l
}

// SetLevel changes the level of every output.
func (l *Logger) SetLevel(level slog.Level) {
	l.level.Set(level)
}

// Level returns the current level.
func (l *Logger) Level() slog.Level {
	return l.level.Level()
}

// Close closes the log files.
func (l *Logger) Close() error {
	var errs []error
	for _, c := range l.closers {
		errs = append(errs, c.Close())
	}
	l.closers = nil
	return errors.Join(errs...)
}

// DefaultFile returns $XDG_STATE_HOME/ghostline/ghostline.log, falling back
// to ~/.local/state and then to the temporary directory.
func DefaultFile() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".local", "state")
		}
	}
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "ghostline", "ghostline.log")
}

func openLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}
