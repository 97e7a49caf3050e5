package overlay

import "github.com/dshills/ghostline/internal/suggest"

// DefaultOpacity is the emphasis of ghost text relative to normal text.
const DefaultOpacity = 0.5

// Hint tells the backend how to draw a decoration.
type Hint struct {
	// Opacity of the text, 0 to 1.
	Opacity float64

	// Side is 1 when the widget sits after the anchor offset.
	Side int

	// Interactive is false for ghost text: it never takes clicks or the cursor.
	Interactive bool
}

// Decoration is a zero-width annotation at a single buffer offset.
// The zero value is "nothing to draw".
type Decoration struct {
	Offset int
	Text   string
	Hint   Hint
}

// IsEmpty returns true if there is nothing to draw.
func (d Decoration) IsEmpty() bool {
	return d.Text == ""
}

// DecorationSink receives one decoration per render pass.
type DecorationSink interface {
	SetDecoration(Decoration)
}

// SinkFunc adapts a function to DecorationSink.
type SinkFunc func(Decoration)

// SetDecoration calls f(d).
func (f SinkFunc) SetDecoration(d Decoration) { f(d) }

// Renderer derives the ghost text decoration from the suggestion and cursor.
type Renderer struct {
	hint Hint
	last Decoration
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithOpacity sets the opacity hint of produced decorations.
func WithOpacity(opacity float64) RendererOption {
	return func(r *Renderer) {
		if opacity > 0 && opacity <= 1 {
			r.hint.Opacity = opacity
		}
	}
}

// NewRenderer creates a renderer.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{hint: Hint{Opacity: DefaultOpacity, Side: 1}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Update computes the decoration for the current suggestion and cursor end.
// changed reports whether it differs from the previous pass.
func (r *Renderer) Update(s suggest.Suggestion, ok bool, cursorEnd int) (d Decoration, changed bool) {
	if ok && s.Text != "" {
		d = Decoration{Offset: cursorEnd, Text: s.Text, Hint: r.hint}
	}
	changed = d != r.last
	r.last = d
	return d, changed
}

// Current returns the decoration from the last pass.
func (r *Renderer) Current() Decoration {
	return r.last
}
