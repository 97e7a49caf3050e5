package inline

import (
	"errors"
	"log/slog"
)

// Errors returned by Attach.
var (
	ErrNoDocument  = errors.New("inline: nil document")
	ErrNoScheduler = errors.New("inline: nil scheduler")
)

// Notifier surfaces user-visible messages through the host.
type Notifier interface {
	Notify(level slog.Level, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(level slog.Level, message string)

// Notify calls f.
func (f NotifierFunc) Notify(level slog.Level, message string) { f(level, message) }

type nopNotifier struct{}

func (nopNotifier) Notify(slog.Level, string) {}
