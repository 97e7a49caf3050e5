// Package terminal is a minimal tcell text editor hosting inline completion.
//
// The Host owns the event loop. It is the engine's Scheduler (tasks travel
// as interrupt events through the screen's queue), its DecorationSink and
// its Notifier (messages appear on the status line).
package terminal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/ghostline/internal/document"
	"github.com/dshills/ghostline/internal/inline"
	"github.com/dshills/ghostline/internal/keymap"
	"github.com/dshills/ghostline/internal/overlay"
)

// Options configures a Host.
type Options struct {
	// Path is the file being edited. Empty disables saving.
	Path string

	Keys   *keymap.Keymap
	Style  overlay.Style
	Logger *slog.Logger
	Clock  inline.Clock

	// Autosave is the quiet period before saving. Zero disables autosave.
	Autosave time.Duration
}

// Host runs the editor loop on a screen.
type Host struct {
	screen tcell.Screen
	doc    *document.Document
	engine *inline.Engine
	keys   *keymap.Keymap
	path   string
	style  overlay.Style
	logger *slog.Logger

	deco        overlay.Decoration
	status      string
	statusLevel slog.Level
	swipe       inline.SwipeDetector
	autosave    *DelayedTrigger
	saved       document.RevisionID
	top         int
	pasting     bool
	quit        bool
	unsubscribe func()
}

// New creates a host for doc on an initialized screen.
func New(screen tcell.Screen, doc *document.Document, opts Options) *Host {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Clock == nil {
		opts.Clock = inline.SystemClock()
	}
	if opts.Style == (overlay.Style{}) {
		opts.Style = overlay.DefaultStyle()
	}
	if opts.Keys == nil {
		opts.Keys, _ = keymap.Default(keymap.CompletionKeys{Accept: "Tab"})
	}
	h := &Host{
		screen: screen,
		doc:    doc,
		keys:   opts.Keys,
		path:   opts.Path,
		style:  opts.Style,
		logger: opts.Logger,
		saved:  doc.Revision(),
	}
	if opts.Autosave > 0 && opts.Path != "" {
		h.autosave = NewDelayedTrigger(opts.Clock, opts.Autosave)
		h.unsubscribe = doc.Subscribe(func(ch document.Change) {
			if ch.DocChanged {
				h.autosave.Reset(func() { h.Post(h.autosaveNow) })
			}
		})
	}
	return h
}

// SetEngine connects the completion engine driven by this host.
func (h *Host) SetEngine(e *inline.Engine) {
	h.engine = e
}

// postRetries bounds how long Post waits for room in a full event queue.
const (
	postRetries    = 200
	postRetryDelay = 5 * time.Millisecond
)

// Post queues task to run on the loop goroutine. Safe from any goroutine.
func (h *Host) Post(task func()) {
	ev := tcell.NewEventInterrupt(task)
	if h.screen.PostEvent(ev) == nil {
		return
	}
	go func() {
		var err error
		for range postRetries {
			time.Sleep(postRetryDelay)
			if err = h.screen.PostEvent(ev); err == nil {
				return
			}
		}
		h.logger.Warn("dropped scheduled task", "error", err)
	}()
}

// Notify shows message on the status line.
func (h *Host) Notify(level slog.Level, message string) {
	h.status = message
	h.statusLevel = level
}

// SetDecoration records the ghost text to draw on the next frame.
func (h *Host) SetDecoration(d overlay.Decoration) {
	h.deco = d
}

// Run processes events until quit is requested or ctx is done.
func (h *Host) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		h.Post(func() { h.quit = true })
	})
	defer stop()

	h.draw()
	for !h.quit {
		ev := h.screen.PollEvent()
		if ev == nil {
			break
		}
		h.handle(ev)
		if !h.quit {
			h.draw()
		}
	}
	return h.finish()
}

// finish flushes a pending autosave.
func (h *Host) finish() error {
	if h.unsubscribe != nil {
		h.unsubscribe()
	}
	if h.autosave != nil && h.autosave.Stop() {
		return h.save()
	}
	return nil
}

func (h *Host) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventInterrupt:
		if task, ok := ev.Data().(func()); ok {
			task()
		}
	case *tcell.EventKey:
		h.handleKey(ev)
	case *tcell.EventMouse:
		h.handleMouse(ev)
	case *tcell.EventPaste:
		h.pasting = ev.Start()
	case *tcell.EventResize:
		h.screen.Sync()
	}
}

func (h *Host) handleKey(ev *tcell.EventKey) {
	h.status = ""
	if h.pasting {
		h.paste(ev)
		return
	}
	if h.keys.Dispatch(keymap.FromEvent(ev), h.run) {
		return
	}
	if ev.Key() == tcell.KeyRune && ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) == 0 {
		h.insert(string(ev.Rune()))
	}
}

// run performs an action and reports whether it consumed the key.
func (h *Host) run(action string) bool {
	switch action {
	case keymap.ActionAccept:
		return h.engine != nil && h.engine.Accept()
	case keymap.ActionAcceptWord:
		return h.engine != nil && h.engine.AcceptWord()
	case keymap.ActionTrigger:
		if h.engine != nil {
			h.engine.Trigger()
		}
		return true
	case keymap.ActionDismiss:
		return h.engine != nil && h.engine.Dismiss()

	case keymap.ActionInsertTab:
		h.insert("\t")
	case keymap.ActionNewline:
		h.insert("\n")
	case keymap.ActionBackspace:
		h.deleteBackward()
	case keymap.ActionDelete:
		h.deleteForward()

	case keymap.ActionLeft:
		h.moveHorizontal(-1)
	case keymap.ActionRight:
		h.moveHorizontal(1)
	case keymap.ActionUp:
		h.moveVertical(-1)
	case keymap.ActionDown:
		h.moveVertical(1)
	case keymap.ActionLineStart:
		p := h.doc.OffsetToPoint(h.doc.Selection().Head)
		h.moveTo(h.doc.LineStartOffset(p.Line))
	case keymap.ActionLineEnd:
		p := h.doc.OffsetToPoint(h.doc.Selection().Head)
		h.moveTo(h.doc.LineEndOffset(p.Line))

	case keymap.ActionSave:
		if err := h.save(); err != nil {
			h.Notify(slog.LevelError, err.Error())
		} else if h.path != "" {
			h.Notify(slog.LevelInfo, "saved "+filepath.Base(h.path))
		}
	case keymap.ActionQuit:
		h.quit = true
	default:
		return false
	}
	return true
}

// paste inserts pasted keys literally so they never reach key bindings.
func (h *Host) paste(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyRune:
		h.insert(string(ev.Rune()))
	case tcell.KeyEnter:
		h.insert("\n")
	case tcell.KeyTab:
		h.insert("\t")
	}
}

func (h *Host) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	pressed := ev.Buttons()&tcell.Button1 != 0
	switch {
	case pressed && !h.swipe.Active():
		h.swipe.Start(x, y)
	case !pressed && h.swipe.Active():
		if h.swipe.End(x, y) && h.engine != nil && h.engine.Accept() {
			return
		}
		h.click(x, y)
	}
}

func (h *Host) click(x, y int) {
	rows := layout(h.doc, h.deco, h.style)
	i := h.top + y
	if y >= h.textHeight() || i >= len(rows) {
		return
	}
	h.moveTo(offsetAt(rows[i], x))
}

func (h *Host) insert(text string) {
	sel := h.doc.Selection()
	start, end := sel.Start(), sel.End()
	cursor := document.Cursor(start + len(text))
	h.apply(document.Transaction{
		Edits:     []document.Edit{document.NewReplace(start, end, text)},
		Selection: &cursor,
	})
}

func (h *Host) deleteBackward() {
	sel := h.doc.Selection()
	if !sel.IsEmpty() {
		h.apply(document.Transaction{Edits: []document.Edit{document.NewDelete(sel.Start(), sel.End())}})
		return
	}
	if sel.Head == 0 {
		return
	}
	text := h.doc.Text()
	_, size := utf8.DecodeLastRuneInString(text[:sel.Head])
	h.logError("delete", h.doc.Delete(sel.Head-size, sel.Head))
}

func (h *Host) deleteForward() {
	sel := h.doc.Selection()
	if !sel.IsEmpty() {
		h.apply(document.Transaction{Edits: []document.Edit{document.NewDelete(sel.Start(), sel.End())}})
		return
	}
	text := h.doc.Text()
	if sel.Head >= len(text) {
		return
	}
	_, size := utf8.DecodeRuneInString(text[sel.Head:])
	h.logError("delete", h.doc.Delete(sel.Head, sel.Head+size))
}

func (h *Host) moveHorizontal(dir int) {
	sel := h.doc.Selection()
	if !sel.IsEmpty() {
		if dir < 0 {
			h.moveTo(sel.Start())
		} else {
			h.moveTo(sel.End())
		}
		return
	}
	text := h.doc.Text()
	switch {
	case dir < 0 && sel.Head > 0:
		_, size := utf8.DecodeLastRuneInString(text[:sel.Head])
		h.moveTo(sel.Head - size)
	case dir > 0 && sel.Head < len(text):
		_, size := utf8.DecodeRuneInString(text[sel.Head:])
		h.moveTo(sel.Head + size)
	}
}

func (h *Host) moveVertical(dir int) {
	p := h.doc.OffsetToPoint(h.doc.Selection().Head)
	line := p.Line + dir
	if line < 0 || line >= h.doc.LineCount() {
		return
	}
	text := h.doc.LineText(line)
	col := min(p.Column, len(text))
	for col > 0 && col < len(text) && !utf8.RuneStart(text[col]) {
		col--
	}
	h.moveTo(h.doc.LineStartOffset(line) + col)
}

func (h *Host) moveTo(offset int) {
	h.logError("move", h.doc.SetSelection(document.Cursor(offset)))
}

func (h *Host) apply(tx document.Transaction) {
	h.logError("edit", h.doc.Apply(tx))
}

func (h *Host) logError(op string, err error) {
	if err != nil {
		h.logger.Error(op, "error", err)
	}
}

func (h *Host) autosaveNow() {
	if err := h.save(); err != nil {
		h.Notify(slog.LevelError, err.Error())
	}
}

// save writes the document if it changed since the last save.
func (h *Host) save() error {
	if h.path == "" {
		return nil
	}
	rev := h.doc.Revision()
	if rev == h.saved {
		return nil
	}
	if err := os.WriteFile(h.path, []byte(h.doc.Text()), 0o644); err != nil {
		return fmt.Errorf("saving %s: %w", h.path, err)
	}
	h.saved = rev
	h.logger.Debug("file saved", "path", h.path, "revision", rev)
	return nil
}

// Modified reports whether the document has unsaved changes.
func (h *Host) Modified() bool {
	return h.doc.Revision() != h.saved
}
