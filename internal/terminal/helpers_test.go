package terminal

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/require"

	"github.com/dshills/ghostline/internal/document"
	"github.com/dshills/ghostline/internal/inline"
)

// manualClock fires timers only when told to.
type manualClock struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	clock *manualClock
	fn    func()
	done  bool
}

func (c *manualClock) AfterFunc(_ time.Duration, fn func()) inline.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.done
	t.done = true
	return active
}

// fireAll runs every timer that has not been stopped.
func (c *manualClock) fireAll() {
	c.mu.Lock()
	var due []func()
	for _, t := range c.timers {
		if !t.done {
			t.done = true
			due = append(due, t.fn)
		}
	}
	c.timers = nil
	c.mu.Unlock()
	for _, fn := range due {
		fn()
	}
}

func newTestScreen(t *testing.T, width, height int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(width, height)
	t.Cleanup(screen.Fini)
	return screen
}

func newTestHost(t *testing.T, text string, opts Options) (*Host, tcell.SimulationScreen, *document.Document) {
	t.Helper()
	screen := newTestScreen(t, 40, 6)
	doc := document.New(text)
	return New(screen, doc, opts), screen, doc
}

// pumpUntil handles queued screen events until cond holds.
func pumpUntil(t *testing.T, h *Host, screen tcell.Screen, cond func() bool) {
	t.Helper()
	for range 100 {
		if cond() {
			return
		}
		h.handle(screen.PollEvent())
	}
	t.Fatal("condition not reached")
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func typeText(h *Host, s string) {
	for _, r := range s {
		h.handle(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

// dump renders the screen as text rows followed by a mask marking italic
// (ghost) cells with '~'.
func dump(screen tcell.SimulationScreen) []byte {
	cells, width, height := screen.GetContents()
	var text, marks strings.Builder
	for y := range height {
		var line, mask strings.Builder
		for x := range width {
			c := cells[y*width+x]
			r := ' '
			if len(c.Runes) > 0 {
				r = c.Runes[0]
			}
			line.WriteRune(r)
			_, _, attrs := c.Style.Decompose()
			if attrs&tcell.AttrItalic != 0 {
				mask.WriteByte('~')
			} else {
				mask.WriteByte(' ')
			}
		}
		text.WriteString(strings.TrimRight(line.String(), " ") + "\n")
		marks.WriteString(strings.TrimRight(mask.String(), " ") + "\n")
	}
	return []byte(text.String() + "--- ghost\n" + marks.String())
}
