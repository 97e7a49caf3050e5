package terminal

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/ghostline/internal/backend"
	"github.com/dshills/ghostline/internal/document"
	"github.com/dshills/ghostline/internal/inline"
	"github.com/dshills/ghostline/internal/keymap"
)

func attach(t *testing.T, h *Host, doc *document.Document, fn backend.Func) *inline.Engine {
	t.Helper()
	e, err := inline.Attach(doc, h,
		inline.WithSink(h),
		inline.WithNotifier(h),
		inline.WithBackend(fn),
		inline.WithDelay(0),
	)
	require.NoError(t, err)
	h.SetEngine(e)
	t.Cleanup(e.Detach)
	return e
}

func answer(snippet string) backend.Func {
	return func(context.Context, backend.Request) (backend.Result, error) {
		return backend.Result{Snippet: snippet}, nil
	}
}

// suggest triggers a fetch and waits for its ghost text.
func suggest(t *testing.T, h *Host, screen tcell.Screen) {
	t.Helper()
	require.True(t, h.run(keymap.ActionTrigger))
	pumpUntil(t, h, screen, func() bool { return !h.deco.IsEmpty() })
}

func TestHostTypingInsertsText(t *testing.T) {
	h, _, doc := newTestHost(t, "", Options{})
	typeText(h, "hi")
	h.handle(key(tcell.KeyEnter))
	typeText(h, "yo")

	assert.Equal(t, "hi\nyo", doc.Text())
	assert.Equal(t, document.Cursor(5), doc.Selection())
}

func TestHostCtrlRuneIsNotInserted(t *testing.T) {
	h, _, doc := newTestHost(t, "", Options{})
	h.handle(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModAlt))
	assert.Empty(t, doc.Text())
}

func TestHostEditingKeys(t *testing.T) {
	h, _, doc := newTestHost(t, "héllo", Options{})
	h.handle(key(tcell.KeyEnd))
	h.handle(key(tcell.KeyBackspace2))
	assert.Equal(t, "héll", doc.Text())

	h.handle(key(tcell.KeyHome))
	h.handle(key(tcell.KeyRight))
	h.handle(key(tcell.KeyDelete))
	assert.Equal(t, "hll", doc.Text())

	h.handle(key(tcell.KeyLeft))
	h.handle(key(tcell.KeyBackspace2))
	assert.Equal(t, "hll", doc.Text(), "backspace at start of document")
}

func TestHostVerticalMovementClampsColumn(t *testing.T) {
	h, _, doc := newTestHost(t, "abcdef\nab\nabcd", Options{})
	require.NoError(t, doc.SetSelection(document.Cursor(5)))

	h.handle(key(tcell.KeyDown))
	assert.Equal(t, document.Cursor(9), doc.Selection())
	h.handle(key(tcell.KeyDown))
	assert.Equal(t, document.Cursor(12), doc.Selection())
	h.handle(key(tcell.KeyDown))
	assert.Equal(t, document.Cursor(12), doc.Selection())
}

func TestHostVerticalMovementOntoShorterLine(t *testing.T) {
	h, _, doc := newTestHost(t, "hello\nhi\nhéllo", Options{})
	require.NoError(t, doc.SetSelection(document.Cursor(5)))

	h.handle(key(tcell.KeyDown))
	assert.Equal(t, document.Cursor(8), doc.Selection(), "end of shorter line")

	require.NoError(t, doc.SetSelection(document.Cursor(4)))
	h.handle(key(tcell.KeyDown))
	assert.Equal(t, document.Cursor(8), doc.Selection())

	require.NoError(t, doc.SetSelection(document.Cursor(2)))
	h.handle(key(tcell.KeyDown))
	h.handle(key(tcell.KeyDown))
	assert.Equal(t, document.Cursor(10), doc.Selection(), "column inside a multi-byte rune backs up")
}

func TestHostTabInsertsTabWithoutSuggestion(t *testing.T) {
	h, _, doc := newTestHost(t, "", Options{})
	attach(t, h, doc, nil)

	h.handle(key(tcell.KeyTab))
	assert.Equal(t, "\t", doc.Text())
}

func TestHostTabAcceptsSuggestion(t *testing.T) {
	h, screen, doc := newTestHost(t, "def foo(): pass\n", Options{})
	require.NoError(t, doc.SetSelection(document.Cursor(16)))
	attach(t, h, doc, answer("    return foo"))

	suggest(t, h, screen)
	assert.Equal(t, "    return foo", h.deco.Text)

	h.handle(key(tcell.KeyTab))
	assert.Equal(t, "def foo(): pass\n    return foo", doc.Text())
	assert.True(t, h.deco.IsEmpty())
}

func TestHostEscapeDismissesSuggestion(t *testing.T) {
	keys, err := keymap.Default(keymap.CompletionKeys{Accept: "Tab", Dismiss: "Esc"})
	require.NoError(t, err)
	h, screen, doc := newTestHost(t, "x = ", Options{Keys: keys})
	require.NoError(t, doc.SetSelection(document.Cursor(4)))
	attach(t, h, doc, answer("1"))

	suggest(t, h, screen)
	h.handle(key(tcell.KeyEscape))
	assert.True(t, h.deco.IsEmpty())
	assert.Equal(t, "x = ", doc.Text())
}

func TestHostPasteBypassesBindings(t *testing.T) {
	h, screen, doc := newTestHost(t, "x = ", Options{})
	require.NoError(t, doc.SetSelection(document.Cursor(4)))
	attach(t, h, doc, answer("1"))
	suggest(t, h, screen)

	h.handle(tcell.NewEventPaste(true))
	h.handle(key(tcell.KeyTab))
	h.handle(tcell.NewEventPaste(false))

	assert.Equal(t, "x = \t", doc.Text())
}

func TestHostSwipeAcceptsSuggestion(t *testing.T) {
	h, screen, doc := newTestHost(t, "x = ", Options{})
	require.NoError(t, doc.SetSelection(document.Cursor(4)))
	attach(t, h, doc, answer("42"))
	suggest(t, h, screen)

	h.handle(tcell.NewEventMouse(1, 0, tcell.Button1, tcell.ModNone))
	h.handle(tcell.NewEventMouse(6, 0, tcell.ButtonNone, tcell.ModNone))

	assert.Equal(t, "x = 42", doc.Text())
}

func TestHostClickMovesCursor(t *testing.T) {
	h, _, doc := newTestHost(t, "hello\nworld", Options{})
	h.draw()

	h.handle(tcell.NewEventMouse(2, 1, tcell.Button1, tcell.ModNone))
	h.handle(tcell.NewEventMouse(2, 1, tcell.ButtonNone, tcell.ModNone))

	assert.Equal(t, document.Cursor(8), doc.Selection())
}

func TestHostReportsBackendFailure(t *testing.T) {
	h, screen, doc := newTestHost(t, "x", Options{})
	attach(t, h, doc, func(context.Context, backend.Request) (backend.Result, error) {
		return backend.Result{}, errors.New("boom")
	})

	h.run(keymap.ActionTrigger)
	pumpUntil(t, h, screen, func() bool { return h.status != "" })

	assert.Equal(t, "completion failed: boom", h.status)
	assert.Equal(t, slog.LevelError, h.statusLevel)
}

func TestHostSaveKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.py")
	h, _, doc := newTestHost(t, "", Options{Path: path})
	typeText(h, "pass")
	assert.True(t, h.Modified())

	h.handle(key(tcell.KeyCtrlS))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "pass", string(data))
	assert.False(t, h.Modified())
	assert.Equal(t, "saved main.py", h.status)
	assert.Equal(t, "pass", doc.Text())
}

func TestHostAutosave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.py")
	clock := &manualClock{}
	h, screen, _ := newTestHost(t, "", Options{Path: path, Autosave: time.Second, Clock: clock})

	typeText(h, "ab")
	clock.fireAll()
	pumpUntil(t, h, screen, func() bool { return !h.Modified() })

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ab", string(data))
}

func TestHostRunQuits(t *testing.T) {
	h, screen, doc := newTestHost(t, "", Options{})
	require.NoError(t, screen.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone)))
	require.NoError(t, screen.PostEvent(tcell.NewEventKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)))

	require.NoError(t, h.Run(context.Background()))
	assert.Equal(t, "a", doc.Text())
}

func TestHostRunStopsOnCancelAndFlushesAutosave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.py")
	clock := &manualClock{}
	h, _, doc := newTestHost(t, "", Options{Path: path, Autosave: time.Second, Clock: clock})
	require.NoError(t, doc.Insert(0, "pending"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, h.Run(ctx))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "pending", string(data))
}

func TestHostStatusShowsAcceptHint(t *testing.T) {
	h, screen, doc := newTestHost(t, "x = ", Options{Path: "/tmp/demo.py"})
	require.NoError(t, doc.SetSelection(document.Cursor(4)))
	attach(t, h, doc, answer("1"))
	suggest(t, h, screen)
	h.draw()

	cells, width, height := screen.GetContents()
	var status []rune
	for x := range width {
		status = append(status, cells[(height-1)*width+x].Runes...)
	}
	assert.Contains(t, string(status), "demo.py")
	assert.Contains(t, string(status), "Tab to accept")
}
