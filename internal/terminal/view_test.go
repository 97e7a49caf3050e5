package terminal

import (
	"log/slog"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"

	"github.com/dshills/ghostline/internal/document"
	"github.com/dshills/ghostline/internal/overlay"
)

func ghost(offset int, text string) overlay.Decoration {
	return overlay.Decoration{
		Offset: offset,
		Text:   text,
		Hint:   overlay.Hint{Opacity: overlay.DefaultOpacity, Side: 1},
	}
}

func TestDrawGolden(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		cursor int
		deco   overlay.Decoration
		status string
	}{
		{name: "ghost_single_line", text: "def foo(): pass\n", cursor: 16, deco: ghost(16, "    return foo")},
		{name: "ghost_multi_line", text: "foo()\n", cursor: 4, deco: ghost(4, "a,\n  b")},
		{name: "tab_expansion", text: "\tx\nab\tc", cursor: 0, status: "completion failed: boom"},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, screen, doc := newTestHost(t, tt.text, Options{})
			assert.NoError(t, doc.SetSelection(document.Cursor(tt.cursor)))
			h.SetDecoration(tt.deco)
			if tt.status != "" {
				h.Notify(slog.LevelError, tt.status)
			}
			h.draw()
			g.Assert(t, tt.name, dump(screen))
		})
	}
}

func TestDrawPlacesCursorBeforeGhost(t *testing.T) {
	h, screen, doc := newTestHost(t, "foo()\n", Options{})
	assert.NoError(t, doc.SetSelection(document.Cursor(4)))
	h.SetDecoration(ghost(4, "bar"))
	h.draw()

	x, y, visible := screen.GetCursor()
	assert.True(t, visible)
	assert.Equal(t, 4, x)
	assert.Equal(t, 0, y)
}

func TestDrawScrollsToCursor(t *testing.T) {
	h, screen, doc := newTestHost(t, "1\n2\n3\n4\n5\n6\n7\n8\n", Options{})
	assert.NoError(t, doc.SetSelection(document.Cursor(doc.LineStartOffset(7))))
	h.draw()

	_, y, _ := screen.GetCursor()
	assert.Equal(t, 4, y)
	assert.Equal(t, 3, h.top)
}

func TestLayoutSplicesGhostRows(t *testing.T) {
	doc := document.New("ab\ncd")
	rows := layout(doc, ghost(1, "X\nYY\nZ"), overlay.DefaultStyle())

	var got []string
	for _, r := range rows {
		s := ""
		for _, seg := range r.segs {
			s += seg.text
		}
		got = append(got, s)
	}
	assert.Equal(t, []string{"aX", "YY", "Zb", "cd"}, got)
	assert.Equal(t, 0, rows[1].line)
	assert.Equal(t, 1, rows[1].anchor)
}

func TestLocate(t *testing.T) {
	doc := document.New("a\tb\ncd")
	rows := layout(doc, overlay.Decoration{}, overlay.DefaultStyle())

	row, col := locate(rows, 2)
	assert.Equal(t, 0, row)
	assert.Equal(t, 4, col)

	row, col = locate(rows, 5)
	assert.Equal(t, 1, row)
	assert.Equal(t, 1, col)
}

func TestOffsetAt(t *testing.T) {
	doc := document.New("a\tbc")
	rows := layout(doc, ghost(3, "XY"), overlay.DefaultStyle())
	r := rows[0]

	assert.Equal(t, 0, offsetAt(r, 0))
	assert.Equal(t, 1, offsetAt(r, 2), "inside tab")
	assert.Equal(t, 2, offsetAt(r, 4))
	assert.Equal(t, 3, offsetAt(r, 5), "ghost lands on anchor")
	assert.Equal(t, 3, offsetAt(r, 6), "ghost lands on anchor")
	assert.Equal(t, 3, offsetAt(r, 7))
	assert.Equal(t, 4, offsetAt(r, 30), "past end of line")
}

func TestOffsetAtEmptyLine(t *testing.T) {
	doc := document.New("ab\n\ncd")
	rows := layout(doc, overlay.Decoration{}, overlay.DefaultStyle())
	assert.Equal(t, 3, offsetAt(rows[1], 10))
}

func TestDisplayWidth(t *testing.T) {
	assert.Equal(t, 3, displayWidth("abc", 0))
	assert.Equal(t, 4, displayWidth("\t", 0))
	assert.Equal(t, 2, displayWidth("\t", 2))
	assert.Equal(t, 2, displayWidth("日", 0))
}
