package inline

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dshills/ghostline/internal/backend"
	"github.com/dshills/ghostline/internal/document"
	"github.com/dshills/ghostline/internal/overlay"
)

// fakeClock fires timers only when advanced.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []func()
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t.f)
		}
	}
	c.mu.Unlock()
	for _, f := range due {
		f()
	}
}

// queue is a channel scheduler drained explicitly by the test goroutine.
type queue struct {
	tasks chan func()
}

func newQueue() *queue {
	return &queue{tasks: make(chan func(), 64)}
}

func (q *queue) Post(task func()) {
	q.tasks <- task
}

// runNext waits for one posted task and runs it.
func (q *queue) runNext(t *testing.T) {
	t.Helper()
	select {
	case task := <-q.tasks:
		task()
	case <-time.After(2 * time.Second):
		t.Fatal("no task posted")
	}
}

// runPending runs the tasks already queued.
func (q *queue) runPending() int {
	n := 0
	for {
		select {
		case task := <-q.tasks:
			task()
			n++
		default:
			return n
		}
	}
}

type reply struct {
	res backend.Result
	err error
}

type call struct {
	ctx   context.Context
	req   backend.Request
	reply chan reply
}

// fakeBackend hands each call to the test, which answers it explicitly.
type fakeBackend struct {
	calls        chan *call
	ignoreCancel bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{calls: make(chan *call, 16)}
}

func (b *fakeBackend) fetch(ctx context.Context, req backend.Request) (backend.Result, error) {
	c := &call{ctx: ctx, req: req, reply: make(chan reply, 1)}
	b.calls <- c
	if b.ignoreCancel {
		r := <-c.reply
		return r.res, r.err
	}
	select {
	case r := <-c.reply:
		return r.res, r.err
	case <-ctx.Done():
		return backend.Result{}, ctx.Err()
	}
}

func (b *fakeBackend) next(t *testing.T) *call {
	t.Helper()
	select {
	case c := <-b.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("backend not called")
		return nil
	}
}

func (b *fakeBackend) idle(t *testing.T) {
	t.Helper()
	select {
	case c := <-b.calls:
		t.Fatalf("unexpected backend call: %+v", c.req)
	default:
	}
}

type note struct {
	level   slog.Level
	message string
}

type fixture struct {
	doc     *document.Document
	clock   *fakeClock
	queue   *queue
	backend *fakeBackend
	engine  *Engine
	decos   []overlay.Decoration
	notes   []note
}

func newFixture(t *testing.T, text string, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		doc:     document.New(text),
		clock:   &fakeClock{},
		queue:   newQueue(),
		backend: newFakeBackend(),
	}
	base := []Option{
		WithClock(f.clock),
		WithBackend(f.backend.fetch),
		WithSink(overlay.SinkFunc(func(d overlay.Decoration) { f.decos = append(f.decos, d) })),
		WithNotifier(NotifierFunc(func(level slog.Level, msg string) {
			f.notes = append(f.notes, note{level: level, message: msg})
		})),
	}
	e, err := Attach(f.doc, f.queue, append(base, opts...)...)
	require.NoError(t, err)
	f.engine = e
	t.Cleanup(e.Detach)
	return f
}

// fire lets the debounce window elapse and returns the backend call it starts.
func (f *fixture) fire(t *testing.T) *call {
	t.Helper()
	f.clock.Advance(DefaultDelay)
	f.queue.runNext(t)
	return f.backend.next(t)
}

// answer replies to c and runs the settle task.
func (f *fixture) answer(t *testing.T, c *call, snippet string, err error) {
	t.Helper()
	c.reply <- reply{res: backend.Result{Snippet: snippet}, err: err}
	f.queue.runNext(t)
}

// suggest runs a full cycle at the cursor that yields snippet.
func (f *fixture) suggest(t *testing.T, snippet string) {
	t.Helper()
	f.engine.Trigger()
	f.answer(t, f.fire(t), snippet, nil)
}

func (f *fixture) lastDecoration() overlay.Decoration {
	if len(f.decos) == 0 {
		return overlay.Decoration{}
	}
	return f.decos[len(f.decos)-1]
}
