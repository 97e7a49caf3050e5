package inline

import (
	"log/slog"
	"time"

	"github.com/dshills/ghostline/internal/backend"
	"github.com/dshills/ghostline/internal/overlay"
)

// DefaultDelay is the quiet period after an edit before a fetch starts.
const DefaultDelay = 1000 * time.Millisecond

type options struct {
	delay    time.Duration
	timeout  time.Duration
	backend  backend.Func
	clock    Clock
	logger   *slog.Logger
	notifier Notifier
	sink     overlay.DecorationSink
	renderer []overlay.RendererOption
}

func defaultOptions() options {
	return options{
		delay:    DefaultDelay,
		clock:    SystemClock(),
		logger:   slog.New(slog.DiscardHandler),
		notifier: nopNotifier{},
	}
}

// Option configures an Engine.
type Option func(*options)

// WithDelay sets the debounce window. Non-positive values fire on the next tick.
func WithDelay(d time.Duration) Option {
	return func(o *options) {
		if d < 0 {
			d = 0
		}
		o.delay = d
	}
}

// WithTimeout bounds each backend call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d < 0 {
			d = 0
		}
		o.timeout = d
	}
}

// WithBackend sets the completion backend. Without one the engine only
// maintains and clears suggestions.
func WithBackend(fn backend.Func) Option {
	return func(o *options) {
		o.backend = fn
	}
}

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithNotifier sets where backend failures are reported.
func WithNotifier(n Notifier) Option {
	return func(o *options) {
		if n != nil {
			o.notifier = n
		}
	}
}

// WithSink sets the receiver of decoration updates.
func WithSink(s overlay.DecorationSink) Option {
	return func(o *options) {
		o.sink = s
	}
}

// WithRendererOptions passes options to the overlay renderer.
func WithRendererOptions(opts ...overlay.RendererOption) Option {
	return func(o *options) {
		o.renderer = append(o.renderer, opts...)
	}
}
