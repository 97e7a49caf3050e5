package document

import "fmt"

// Point represents a line and column position.
// Both Line and Column are 0-indexed; Column is a byte offset within the line.
type Point struct {
	Line   int
	Column int
}

// String returns a human-readable representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// OneBased returns the 1-based line and column used by completion backends.
func (p Point) OneBased() (line, column int) {
	return p.Line + 1, p.Column + 1
}

// Range represents a byte range in the document.
// Start is inclusive, End is exclusive: [Start, End).
type Range struct {
	Start int
	End   int
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%d:%d)", r.Start, r.End)
}

// Len returns the length of the range in bytes.
func (r Range) Len() int {
	return r.End - r.Start
}

// IsEmpty returns true if the range has zero length.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// IsValid returns true if Start <= End.
func (r Range) IsValid() bool {
	return r.Start >= 0 && r.Start <= r.End
}

// Selection is the primary selection. Anchor is where it started, Head is
// where it ends; either may be the larger offset.
type Selection struct {
	Anchor int
	Head   int
}

// Cursor returns a collapsed selection at offset.
func Cursor(offset int) Selection {
	return Selection{Anchor: offset, Head: offset}
}

// End returns the rightmost edge of the selection.
func (s Selection) End() int {
	return max(s.Anchor, s.Head)
}

// Start returns the leftmost edge of the selection.
func (s Selection) Start() int {
	return min(s.Anchor, s.Head)
}

// IsEmpty returns true if the selection is collapsed to a cursor.
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Head
}

// RevisionID identifies a document revision. It increases on every text change.
type RevisionID uint64
