package inline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/ghostline/internal/backend"
)

// request is one backend call. It is destroyed when it settles or is
// superseded.
type request struct {
	id        uuid.UUID
	cancel    context.CancelFunc
	cancelled bool
	started   time.Time
	query     backend.Request
	prefix    string
}

// coordinator debounces fetch cycles and keeps at most one request live.
// All methods run on the scheduler's goroutine except the backend call.
type coordinator struct {
	ctx     context.Context
	fetch   backend.Func
	sched   Scheduler
	clock   Clock
	delay   time.Duration
	timeout time.Duration
	logger  *slog.Logger

	onResult func(r *request, res backend.Result)
	onError  func(r *request, err error)

	timer Timer
	gen   uint64
	live  *request
}

// begin restarts the debounce window for a new cycle. prefix is the snapshot
// text before the cursor end, used to trim the eventual snippet.
func (c *coordinator) begin(query backend.Request, prefix string) {
	c.cancelLive()
	c.stopTimer()
	c.gen++
	gen := c.gen
	c.timer = c.clock.AfterFunc(c.delay, func() {
		c.sched.Post(func() { c.fire(gen, query, prefix) })
	})
}

// fire starts the backend call for the cycle identified by gen.
func (c *coordinator) fire(gen uint64, query backend.Request, prefix string) {
	if gen != c.gen || c.ctx.Err() != nil {
		return
	}
	c.timer = nil
	c.cancelLive()

	var ctx context.Context
	var cancel context.CancelFunc
	if c.timeout > 0 {
		ctx, cancel = context.WithTimeout(c.ctx, c.timeout)
	} else {
		ctx, cancel = context.WithCancel(c.ctx)
	}
	r := &request{
		id:      uuid.New(),
		cancel:  cancel,
		started: time.Now(),
		query:   query,
		prefix:  prefix,
	}
	c.live = r
	c.logger.Debug("completion request started",
		"request", r.id, "line", query.Line, "column", query.Column)

	fetch := c.fetch
	go func() {
		res, err := fetch(ctx, query)
		c.sched.Post(func() { c.settle(r, res, err) })
	}()
}

func (c *coordinator) settle(r *request, res backend.Result, err error) {
	r.cancel()
	if r.cancelled || c.live != r {
		c.logger.Debug("completion result discarded", "request", r.id)
		return
	}
	c.live = nil

	elapsed := time.Since(r.started)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		c.logger.Error("completion request failed",
			"request", r.id, "elapsed", elapsed, "error", err)
		c.onError(r, err)
		return
	}
	c.logger.Debug("completion request settled",
		"request", r.id, "elapsed", elapsed, "bytes", len(res.Snippet))
	c.onResult(r, res)
}

// cancel drops the pending timer and the live request.
func (c *coordinator) cancel() {
	c.stopTimer()
	c.gen++
	c.cancelLive()
}

func (c *coordinator) cancelLive() {
	if c.live == nil {
		return
	}
	c.live.cancelled = true
	c.live.cancel()
	c.logger.Debug("completion request cancelled", "request", c.live.id)
	c.live = nil
}

func (c *coordinator) stopTimer() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// pending reports whether a cycle is waiting on its timer or its backend.
func (c *coordinator) pending() bool {
	return c.timer != nil || c.live != nil
}
