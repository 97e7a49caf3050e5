// Package overlay renders the inline suggestion as ghost text.
//
// The Renderer turns the current suggestion and cursor into a zero-width
// Decoration anchored at a single buffer offset. GhostText lays a decoration
// out on a line/column grid as Spans that a screen backend can draw without
// touching the document.
package overlay

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Position represents a position in the buffer.
type Position struct {
	Line int
	Col  int
}

// Range represents a range in the buffer.
type Range struct {
	Start Position
	End   Position
}

// ContainsLine returns true if the line is within the range.
func (r Range) ContainsLine(line int) bool {
	return line >= r.Start.Line && line <= r.End.Line
}

// Span represents a styled span of overlay content on a single line.
type Span struct {
	// StartCol is the starting column (0-indexed) in the line.
	StartCol int

	// Text is the overlay text to display.
	Text string

	// Style is the visual style for this span.
	Style Style

	// AfterContent indicates the span is drawn after the cursor, pushing the
	// rest of the line to the right rather than covering it.
	AfterContent bool
}

// Style is the visual style of overlay text.
type Style struct {
	Foreground colorful.Color
	Background colorful.Color
	Italic     bool
}

// DefaultStyle returns grey italic text on black.
func DefaultStyle() Style {
	return Style{
		Foreground: colorful.Color{R: 0.5, G: 0.5, B: 0.5},
		Background: colorful.Color{},
		Italic:     true,
	}
}

// ParseStyle builds a style from hex colors such as "#808080".
// An empty background keeps black.
func ParseStyle(fg, bg string) (Style, error) {
	s := DefaultStyle()
	if fg != "" {
		c, err := colorful.Hex(fg)
		if err != nil {
			return s, fmt.Errorf("ghost color %q: %w", fg, err)
		}
		s.Foreground = c
	}
	if bg != "" {
		c, err := colorful.Hex(bg)
		if err != nil {
			return s, fmt.Errorf("background color %q: %w", bg, err)
		}
		s.Background = c
	}
	return s, nil
}

// Blend returns the style with its foreground moved toward the background so
// the text shows at the given opacity. Opacity is clamped to [0, 1].
func (s Style) Blend(opacity float64) Style {
	opacity = min(max(opacity, 0), 1)
	s.Foreground = s.Background.BlendRgb(s.Foreground, opacity).Clamped()
	return s
}
