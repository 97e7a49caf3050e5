package document

import "fmt"

// Edit represents a text edit operation.
// It specifies a range of the pre-edit document to replace and the new text.
type Edit struct {
	Range   Range
	NewText string
}

// NewInsert creates an Edit that inserts text at an offset.
func NewInsert(offset int, text string) Edit {
	return Edit{Range: Range{Start: offset, End: offset}, NewText: text}
}

// NewDelete creates an Edit that deletes a range of text.
func NewDelete(start, end int) Edit {
	return Edit{Range: Range{Start: start, End: end}}
}

// NewReplace creates an Edit that replaces a range with text.
func NewReplace(start, end int, text string) Edit {
	return Edit{Range: Range{Start: start, End: end}, NewText: text}
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	if e.Range.IsEmpty() {
		return fmt.Sprintf("Insert(%d, %q)", e.Range.Start, e.NewText)
	}
	if e.NewText == "" {
		return fmt.Sprintf("Delete%s", e.Range.String())
	}
	return fmt.Sprintf("Replace%s with %q", e.Range.String(), e.NewText)
}

// IsNoOp returns true if this edit does nothing.
func (e Edit) IsNoOp() bool {
	return e.Range.IsEmpty() && e.NewText == ""
}

// Delta returns the change in document length caused by this edit.
func (e Edit) Delta() int {
	return len(e.NewText) - e.Range.Len()
}

// Transaction is an atomic update: a set of edits plus an optional new
// selection. Edits are expressed in pre-transaction coordinates and must be in
// ascending, non-overlapping order. When Selection is nil the current
// selection is mapped through the edits.
type Transaction struct {
	Edits     []Edit
	Selection *Selection
}

// InsertedRange is the text an edit placed into the document, in
// post-transaction coordinates. Deletions produce an empty Text.
type InsertedRange struct {
	From int
	To   int
	Text string
}

// Change describes one document update as seen by subscribers.
type Change struct {
	// Inserted holds one entry per non-noop edit, in document order.
	Inserted []InsertedRange

	// DocChanged is true if the text changed.
	DocChanged bool

	// SelectionSet is true if the selection was explicitly set or moved.
	SelectionSet bool

	// Selection is the selection after the update.
	Selection Selection

	// Revision is the document revision after the update.
	Revision RevisionID
}

// SelectionOnly returns true if the selection changed without a text change.
func (c Change) SelectionOnly() bool {
	return c.SelectionSet && !c.DocChanged
}

// IsEmpty returns true if the update carries neither a text nor a selection change.
func (c Change) IsEmpty() bool {
	return !c.SelectionSet && !c.DocChanged
}

// mapOffset maps a pre-transaction offset through ascending edits.
// An insertion exactly at pos pushes pos to the right.
func mapOffset(pos int, edits []Edit) int {
	delta := 0
	for _, e := range edits {
		if e.Range.Start > pos {
			break
		}
		if e.Range.End <= pos {
			delta += e.Delta()
			continue
		}
		// pos falls inside a replaced range
		return e.Range.Start + delta + len(e.NewText)
	}
	return pos + delta
}
