package terminal

import (
	"sync"
	"time"

	"github.com/dshills/ghostline/internal/inline"
)

// DelayedTrigger runs the most recently scheduled action once no newer one
// has been scheduled for the delay. The action runs on the clock's goroutine.
type DelayedTrigger struct {
	clock inline.Clock
	delay time.Duration

	mu    sync.Mutex
	timer inline.Timer
}

// NewDelayedTrigger creates a trigger.
func NewDelayedTrigger(clock inline.Clock, delay time.Duration) *DelayedTrigger {
	return &DelayedTrigger{clock: clock, delay: delay}
}

// Reset cancels the pending action, if any, and schedules fn.
func (t *DelayedTrigger) Reset(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = t.clock.AfterFunc(t.delay, fn)
}

// Stop cancels the pending action. It reports whether one was pending.
func (t *DelayedTrigger) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer == nil {
		return false
	}
	stopped := t.timer.Stop()
	t.timer = nil
	return stopped
}
