package document

import (
	"sort"
	"strings"
	"sync"
)

// Document is an in-memory text buffer with a single selection.
// All methods are safe for concurrent use; subscribers are invoked on the
// goroutine that performed the mutation, after the lock is released.
type Document struct {
	mu         sync.RWMutex
	text       string
	lineStarts []int
	selection  Selection
	revision   RevisionID

	subMu  sync.Mutex
	subs   []subscriber
	nextID int
}

type subscriber struct {
	id int
	fn func(Change)
}

// New creates a document with initial content and the cursor at offset 0.
func New(text string) *Document {
	d := &Document{revision: 1}
	d.setText(NormalizeLineEndings(text))
	return d
}

// NormalizeLineEndings converts CRLF and lone CR line breaks to LF.
func NormalizeLineEndings(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func (d *Document) setText(text string) {
	d.text = text
	d.lineStarts = d.lineStarts[:0]
	d.lineStarts = append(d.lineStarts, 0)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			d.lineStarts = append(d.lineStarts, i+1)
		}
	}
}

// Read Operations

// Text returns the full document content.
func (d *Document) Text() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.text
}

// TextRange returns the text in [start, end), clamped to the document.
func (d *Document) TextRange(start, end int) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	start = clamp(start, 0, len(d.text))
	end = clamp(end, start, len(d.text))
	return d.text[start:end]
}

// Len returns the document length in bytes.
func (d *Document) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.text)
}

// LineCount returns the number of lines. An empty document has one line.
func (d *Document) LineCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.lineStarts)
}

// LineText returns the text of a line without its newline.
func (d *Document) LineText(line int) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if line < 0 || line >= len(d.lineStarts) {
		return ""
	}
	return d.text[d.lineStarts[line]:d.lineEndLocked(line)]
}

// LineStartOffset returns the offset of the first byte of a line.
func (d *Document) LineStartOffset(line int) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	line = clamp(line, 0, len(d.lineStarts)-1)
	return d.lineStarts[line]
}

// LineEndOffset returns the offset of the end of a line, before its newline.
func (d *Document) LineEndOffset(line int) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	line = clamp(line, 0, len(d.lineStarts)-1)
	return d.lineEndLocked(line)
}

func (d *Document) lineEndLocked(line int) int {
	if line+1 < len(d.lineStarts) {
		return d.lineStarts[line+1] - 1
	}
	return len(d.text)
}

// Selection returns the current selection.
func (d *Document) Selection() Selection {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.selection
}

// Revision returns the current revision.
func (d *Document) Revision() RevisionID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.revision
}

// Coordinate Conversion

// OffsetToPoint converts a byte offset to a line/column point.
// Offsets outside the document are clamped.
func (d *Document) OffsetToPoint(offset int) Point {
	d.mu.RLock()
	defer d.mu.RUnlock()
	offset = clamp(offset, 0, len(d.text))
	line := sort.Search(len(d.lineStarts), func(i int) bool {
		return d.lineStarts[i] > offset
	}) - 1
	return Point{Line: line, Column: offset - d.lineStarts[line]}
}

// PointToOffset converts a line/column point to a byte offset.
// Columns past the end of the line clamp to the line end.
func (d *Document) PointToOffset(p Point) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	line := clamp(p.Line, 0, len(d.lineStarts)-1)
	start := d.lineStarts[line]
	return clamp(start+p.Column, start, d.lineEndLocked(line))
}

// Write Operations

// Apply applies a transaction atomically and notifies subscribers.
func (d *Document) Apply(tx Transaction) error {
	d.mu.Lock()

	edits := make([]Edit, 0, len(tx.Edits))
	for _, e := range tx.Edits {
		if !e.Range.IsValid() || e.Range.End > len(d.text) {
			d.mu.Unlock()
			return ErrRangeInvalid
		}
		if e.IsNoOp() {
			continue
		}
		e.NewText = NormalizeLineEndings(e.NewText)
		edits = append(edits, e)
	}
	for i := 1; i < len(edits); i++ {
		if edits[i].Range.Start < edits[i-1].Range.End {
			d.mu.Unlock()
			return ErrEditsOverlap
		}
	}

	var b strings.Builder
	b.Grow(len(d.text) + totalDelta(edits))
	inserted := make([]InsertedRange, 0, len(edits))
	last := 0
	for _, e := range edits {
		b.WriteString(d.text[last:e.Range.Start])
		from := b.Len()
		b.WriteString(e.NewText)
		inserted = append(inserted, InsertedRange{From: from, To: b.Len(), Text: e.NewText})
		last = e.Range.End
	}
	b.WriteString(d.text[last:])
	newText := b.String()

	var sel Selection
	if tx.Selection != nil {
		sel = *tx.Selection
		if sel.Anchor < 0 || sel.Head < 0 || sel.End() > len(newText) {
			d.mu.Unlock()
			return ErrOffsetOutOfRange
		}
	} else {
		sel = Selection{
			Anchor: mapOffset(d.selection.Anchor, edits),
			Head:   mapOffset(d.selection.Head, edits),
		}
	}

	change := Change{
		Inserted:     inserted,
		DocChanged:   len(edits) > 0,
		SelectionSet: tx.Selection != nil || sel != d.selection,
		Selection:    sel,
	}
	if change.DocChanged {
		d.setText(newText)
		d.revision++
	}
	d.selection = sel
	change.Revision = d.revision
	d.mu.Unlock()

	if !change.IsEmpty() {
		d.notify(change)
	}
	return nil
}

// Insert inserts text at the given offset and places the cursor after it.
func (d *Document) Insert(offset int, text string) error {
	sel := Cursor(offset + len(NormalizeLineEndings(text)))
	return d.Apply(Transaction{Edits: []Edit{NewInsert(offset, text)}, Selection: &sel})
}

// Delete removes text in [start, end) and places the cursor at start.
func (d *Document) Delete(start, end int) error {
	sel := Cursor(start)
	return d.Apply(Transaction{Edits: []Edit{NewDelete(start, end)}, Selection: &sel})
}

// SetSelection moves the selection without changing text.
// Setting the current selection again produces no change.
func (d *Document) SetSelection(sel Selection) error {
	d.mu.Lock()
	if sel.Anchor < 0 || sel.Head < 0 || sel.End() > len(d.text) {
		d.mu.Unlock()
		return ErrOffsetOutOfRange
	}
	if sel == d.selection {
		d.mu.Unlock()
		return nil
	}
	d.selection = sel
	change := Change{SelectionSet: true, Selection: sel, Revision: d.revision}
	d.mu.Unlock()

	d.notify(change)
	return nil
}

// Subscriptions

// Subscribe registers fn to receive every Change. The returned function
// removes the subscription; calling it more than once is safe.
func (d *Document) Subscribe(fn func(Change)) (unsubscribe func()) {
	d.subMu.Lock()
	d.nextID++
	id := d.nextID
	d.subs = append(d.subs, subscriber{id: id, fn: fn})
	d.subMu.Unlock()

	return func() {
		d.subMu.Lock()
		defer d.subMu.Unlock()
		for i, s := range d.subs {
			if s.id == id {
				d.subs = append(d.subs[:i:i], d.subs[i+1:]...)
				return
			}
		}
	}
}

func (d *Document) notify(change Change) {
	d.subMu.Lock()
	subs := make([]subscriber, len(d.subs))
	copy(subs, d.subs)
	d.subMu.Unlock()

	for _, s := range subs {
		s.fn(change)
	}
}

func totalDelta(edits []Edit) int {
	n := 0
	for _, e := range edits {
		if d := e.Delta(); d > 0 {
			n += d
		}
	}
	return n
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
