package inline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dshills/ghostline/internal/backend"
	"github.com/dshills/ghostline/internal/document"
	"github.com/dshills/ghostline/internal/overlay"
	"github.com/dshills/ghostline/internal/suggest"
)

// Document is the buffer an Engine attaches to.
type Document interface {
	Text() string
	Selection() document.Selection
	OffsetToPoint(offset int) document.Point
	Apply(tx document.Transaction) error
	Subscribe(fn func(document.Change)) (unsubscribe func())
}

// Engine is the inline completion state for one document.
type Engine struct {
	doc      Document
	store    *suggest.Store
	renderer *overlay.Renderer
	coord    *coordinator
	sink     overlay.DecorationSink
	notifier Notifier
	logger   *slog.Logger

	cancel      context.CancelFunc
	unsubscribe func()
	detached    bool
}

// Attach creates an Engine for doc and subscribes it to document changes.
// sched must run posted tasks on the goroutine that mutates doc.
func Attach(doc Document, sched Scheduler, opts ...Option) (*Engine, error) {
	if doc == nil {
		return nil, ErrNoDocument
	}
	if sched == nil {
		return nil, ErrNoScheduler
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		doc:      doc,
		store:    suggest.NewStore(),
		renderer: overlay.NewRenderer(o.renderer...),
		sink:     o.sink,
		notifier: o.notifier,
		logger:   o.logger,
		cancel:   cancel,
	}
	e.coord = &coordinator{
		ctx:      ctx,
		fetch:    o.backend,
		sched:    sched,
		clock:    o.clock,
		delay:    o.delay,
		timeout:  o.timeout,
		logger:   o.logger,
		onResult: e.applyResult,
		onError:  e.reportError,
	}
	e.store.Observe(func(suggest.Suggestion, bool) { e.render() })
	e.unsubscribe = doc.Subscribe(e.Update)
	return e, nil
}

// Detach cancels pending work, removes the decoration and stops listening to
// the document. Further calls on the Engine are no-ops.
func (e *Engine) Detach() {
	if e.detached {
		return
	}
	e.coord.cancel()
	e.cancel()
	e.unsubscribe()
	e.store.Clear()
	e.detached = true
}

// Update reconciles the suggestion with a document change.
func (e *Engine) Update(ch document.Change) {
	if e.detached {
		return
	}
	switch {
	case ch.SelectionOnly():
		e.coord.cancel()
		e.store.Clear()
	case ch.DocChanged:
		e.reconcileEdit(ch)
	}
	e.render()
}

func (e *Engine) reconcileEdit(ch document.Change) {
	if cur, ok := e.store.Current(); ok {
		for _, ins := range ch.Inserted {
			if ins.Text != "" && strings.HasPrefix(cur.Text, ins.Text) {
				e.coord.cancel()
				e.store.Shrink(ins.Text)
				return
			}
		}
	}
	e.store.Clear()
	e.begin(ch.Selection)
}

// begin starts a fetch cycle at the rightmost edge of sel.
func (e *Engine) begin(sel document.Selection) {
	if e.coord.fetch == nil {
		return
	}
	text := e.doc.Text()
	end := min(max(sel.End(), 0), len(text))
	line, column := e.doc.OffsetToPoint(end).OneBased()
	e.coord.begin(backend.Request{Text: text, Line: line, Column: column}, text[:end])
}

// Trigger starts a fetch cycle at the cursor without waiting for an edit.
func (e *Engine) Trigger() {
	if e.detached {
		return
	}
	e.store.Clear()
	e.begin(e.doc.Selection())
}

// Dismiss drops the suggestion and any pending fetch. It reports whether
// there was anything to dismiss.
func (e *Engine) Dismiss() bool {
	if e.detached {
		return false
	}
	_, had := e.store.Current()
	had = had || e.coord.pending()
	e.coord.cancel()
	e.store.Clear()
	return had
}

// SetDelay changes the debounce window for subsequent cycles.
func (e *Engine) SetDelay(d time.Duration) {
	if d < 0 {
		d = 0
	}
	e.coord.delay = d
}

// Suggestion returns the current suggestion.
func (e *Engine) Suggestion() (suggest.Suggestion, bool) {
	return e.store.Current()
}

// Decoration returns the decoration from the last render pass.
func (e *Engine) Decoration() overlay.Decoration {
	return e.renderer.Current()
}

// Pending reports whether a fetch is waiting or in flight.
func (e *Engine) Pending() bool {
	return e.coord.pending()
}

func (e *Engine) applyResult(r *request, res backend.Result) {
	snippet := document.NormalizeLineEndings(res.Snippet)
	snippet = suggest.Trim(r.prefix, snippet)
	e.store.Set(snippet)
}

func (e *Engine) reportError(_ *request, err error) {
	e.notifier.Notify(slog.LevelError, fmt.Sprintf("completion failed: %v", err))
}

func (e *Engine) render() {
	s, ok := e.store.Current()
	d, changed := e.renderer.Update(s, ok, e.doc.Selection().End())
	if changed && e.sink != nil {
		e.sink.SetDecoration(d)
	}
}
