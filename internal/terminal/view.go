package terminal

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/ghostline/internal/document"
	"github.com/dshills/ghostline/internal/overlay"
)

// TabWidth is the display width of a tab stop.
const TabWidth = 4

// segment is a run of text on a visual row. Ghost segments have no
// document offset.
type segment struct {
	text  string
	ghost bool
	start int
	style overlay.Style
}

// row is one screen line of the document view.
type row struct {
	line   int
	anchor int
	segs   []segment
}

// layout splits the document into visual rows. Ghost text is spliced in at
// the decoration offset: its first line continues the cursor line, later
// lines get rows of their own, and the remainder of the cursor line follows
// the last ghost line.
func layout(doc *document.Document, deco overlay.Decoration, style overlay.Style) []row {
	n := doc.LineCount()
	rows := make([]row, 0, n)

	var ghost *overlay.GhostText
	var at document.Point
	if !deco.IsEmpty() {
		at = doc.OffsetToPoint(deco.Offset)
		ghost = overlay.FromDecoration(deco, overlay.Position{Line: at.Line, Col: at.Column}, style)
	}

	for line := range n {
		text := doc.LineText(line)
		start := doc.LineStartOffset(line)
		if ghost == nil || line != at.Line {
			rows = append(rows, row{line: line, anchor: start, segs: []segment{{text: text, start: start}}})
			continue
		}

		last := ghost.LineCount() - 1
		for i := 0; i <= last; i++ {
			r := row{line: line, anchor: start + at.Column}
			if i == 0 {
				r.segs = append(r.segs, segment{text: text[:at.Column], start: start})
			}
			for _, span := range ghost.SpansForLine(at.Line + i) {
				r.segs = append(r.segs, segment{text: span.Text, ghost: true, start: -1, style: span.Style})
			}
			if i == last {
				r.segs = append(r.segs, segment{text: text[at.Column:], start: start + at.Column})
			}
			rows = append(rows, r)
		}
	}
	return rows
}

// advance returns the display column after drawing cluster at col.
func advance(cluster string, width, col int) int {
	if cluster == "\t" {
		return col + TabWidth - col%TabWidth
	}
	return col + width
}

// locate returns the row index and display column of a document offset.
func locate(rows []row, offset int) (int, int) {
	for i, r := range rows {
		col := 0
		for _, seg := range r.segs {
			if !seg.ghost && offset >= seg.start && offset <= seg.start+len(seg.text) {
				return i, col + displayWidth(seg.text[:offset-seg.start], col)
			}
			col += displayWidth(seg.text, col)
		}
	}
	return max(len(rows)-1, 0), 0
}

// offsetAt returns the document offset under display column x of a row.
// Clicks on ghost text land on the real text position the ghost is anchored to.
func offsetAt(r row, x int) int {
	col, end := 0, -1
	for _, seg := range r.segs {
		if seg.ghost {
			col += displayWidth(seg.text, col)
			if x < col {
				return r.anchor
			}
			continue
		}
		pos, rest, state := seg.start, seg.text, -1
		for rest != "" {
			var cluster string
			var width int
			cluster, rest, width, state = uniseg.FirstGraphemeClusterInString(rest, state)
			next := advance(cluster, width, col)
			if x < next {
				return pos
			}
			pos += len(cluster)
			col = next
		}
		end = pos
	}
	if end < 0 {
		return r.anchor
	}
	return end
}

// displayWidth measures s drawn starting at display column col.
func displayWidth(s string, col int) int {
	start := col
	state := -1
	for s != "" {
		var cluster string
		var width int
		cluster, s, width, state = uniseg.FirstGraphemeClusterInString(s, state)
		col = advance(cluster, width, col)
	}
	return col - start
}

// drawText draws s at (x, y) without passing maxX and returns the next x.
func drawText(screen tcell.Screen, x, y, maxX int, s string, style tcell.Style) int {
	state := -1
	for s != "" && x < maxX {
		var cluster string
		var width int
		cluster, s, width, state = uniseg.FirstGraphemeClusterInString(s, state)
		next := advance(cluster, width, x)
		if cluster == "\t" {
			for ; x < next && x < maxX; x++ {
				screen.SetContent(x, y, ' ', nil, style)
			}
			continue
		}
		if width == 0 {
			continue
		}
		runes := []rune(cluster)
		screen.SetContent(x, y, runes[0], runes[1:], style)
		x = next
	}
	return x
}

// fill pads a row with blanks from x to maxX.
func fill(screen tcell.Screen, x, y, maxX int, style tcell.Style) {
	for ; x < maxX; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}
}
