package terminal

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/ghostline/internal/keymap"
)

var (
	textStyle   = tcell.StyleDefault
	statusStyle = tcell.StyleDefault.Reverse(true)
	errorStyle  = statusStyle.Foreground(tcell.ColorRed)
)

// textHeight is the number of screen rows available to the document.
func (h *Host) textHeight() int {
	_, height := h.screen.Size()
	return max(height-1, 0)
}

// draw renders the document, the ghost text and the status line.
func (h *Host) draw() {
	width, height := h.screen.Size()
	if width <= 0 || height <= 0 {
		return
	}
	h.screen.Clear()

	rows := layout(h.doc, h.deco, h.style)
	textRows := h.textHeight()
	cursorRow, cursorCol := locate(rows, h.doc.Selection().Head)
	h.scrollTo(cursorRow, textRows)

	for y := 0; y < textRows; y++ {
		i := h.top + y
		if i >= len(rows) {
			break
		}
		x := 0
		for _, seg := range rows[i].segs {
			style := textStyle
			if seg.ghost {
				style = ghostStyle(seg.style)
			}
			x = drawText(h.screen, x, y, width, seg.text, style)
		}
	}

	h.drawStatus(width, height-1)

	if y := cursorRow - h.top; y >= 0 && y < textRows && cursorCol < width {
		h.screen.ShowCursor(cursorCol, y)
	} else {
		h.screen.HideCursor()
	}
	h.screen.Show()
}

// scrollTo keeps row visible within a window of height rows.
func (h *Host) scrollTo(row, height int) {
	if height <= 0 {
		return
	}
	if row < h.top {
		h.top = row
	}
	if row >= h.top+height {
		h.top = row - height + 1
	}
}

func (h *Host) drawStatus(width, y int) {
	name := "[scratch]"
	if h.path != "" {
		name = filepath.Base(h.path)
	}
	if h.Modified() {
		name += " [+]"
	}

	left := name
	style := statusStyle
	if h.status != "" {
		left += "  " + h.status
		if h.statusLevel >= slog.LevelError {
			style = errorStyle
		}
	}

	var right string
	switch {
	case !h.deco.IsEmpty():
		if k, ok := h.keys.KeyFor(keymap.ActionAccept); ok {
			right = fmt.Sprintf("%s to accept", k)
		}
	case h.engine != nil && h.engine.Pending():
		right = "thinking..."
	}

	x := drawText(h.screen, 0, y, width, left, style)
	rx := width - displayWidth(right, 0)
	if right == "" || rx <= x {
		fill(h.screen, x, y, width, style)
		return
	}
	fill(h.screen, x, y, rx, style)
	drawText(h.screen, rx, y, width, right, statusStyle)
}
