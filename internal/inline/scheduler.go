package inline

import "time"

// Scheduler runs a task on the next tick of the loop that owns the engine.
// Post may be called from any goroutine.
type Scheduler interface {
	Post(task func())
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(task func())

// Post calls f.
func (f SchedulerFunc) Post(task func()) { f(task) }

// Timer is a stoppable pending callback.
type Timer interface {
	Stop() bool
}

// Clock creates timers.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock returns a Clock backed by the time package.
func SystemClock() Clock {
	return systemClock{}
}
