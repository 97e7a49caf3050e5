package overlay

import "strings"

// GhostText lays a suggestion out as dimmed text after the cursor.
// The first line continues the cursor line; later lines start at column 0.
type GhostText struct {
	lines []string
	rng   Range
	style Style
}

// NewGhostText creates ghost text anchored at position.
func NewGhostText(position Position, text string, style Style) *GhostText {
	lines := strings.Split(text, "\n")

	endLine := position.Line + len(lines) - 1
	endCol := len(lines[len(lines)-1])
	if len(lines) == 1 {
		endCol = position.Col + len(text)
	}

	return &GhostText{
		lines: lines,
		rng:   Range{Start: position, End: Position{Line: endLine, Col: endCol}},
		style: style,
	}
}

// FromDecoration builds ghost text for a decoration. position is the
// decoration offset translated to line/column by the caller. The style is
// blended to the decoration's opacity.
func FromDecoration(d Decoration, position Position, style Style) *GhostText {
	if d.IsEmpty() {
		return nil
	}
	return NewGhostText(position, d.Text, style.Blend(d.Hint.Opacity))
}

// LineCount returns the number of lines in the ghost text.
func (g *GhostText) LineCount() int {
	return len(g.lines)
}

// SpansForLine returns the overlay spans for a specific line.
func (g *GhostText) SpansForLine(line int) []Span {
	if g == nil || !g.rng.ContainsLine(line) {
		return nil
	}

	idx := line - g.rng.Start.Line
	text := g.lines[idx]
	if text == "" {
		return nil
	}

	if idx == 0 {
		return []Span{{
			StartCol:     g.rng.Start.Col,
			Text:         text,
			Style:        g.style,
			AfterContent: true,
		}}
	}
	return []Span{{StartCol: 0, Text: text, Style: g.style}}
}

// FirstWord returns the leading word of text, or its leading run of blanks,
// or the first newline. It is the unit of a partial accept.
func FirstWord(text string) string {
	if text == "" {
		return ""
	}
	if text[0] == '\n' {
		return "\n"
	}

	i := 0
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	if i > 0 {
		return text[:i]
	}

	for i < len(text) && text[i] != ' ' && text[i] != '\t' && text[i] != '\n' {
		i++
	}
	return text[:i]
}
