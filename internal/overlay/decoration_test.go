package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/ghostline/internal/suggest"
)

func TestRendererNoSuggestion(t *testing.T) {
	r := NewRenderer()

	d, changed := r.Update(suggest.Suggestion{}, false, 10)
	assert.True(t, d.IsEmpty())
	assert.False(t, changed)

	d, changed = r.Update(suggest.Suggestion{}, false, 42)
	assert.True(t, d.IsEmpty())
	assert.False(t, changed, "cursor moves without a suggestion draw nothing new")
}

func TestRendererAnchorsAtCursorEnd(t *testing.T) {
	r := NewRenderer()

	d, changed := r.Update(suggest.Suggestion{Text: "return foo"}, true, 7)
	assert.True(t, changed)
	assert.Equal(t, Decoration{
		Offset: 7,
		Text:   "return foo",
		Hint:   Hint{Opacity: DefaultOpacity, Side: 1},
	}, d)
	assert.False(t, d.Hint.Interactive)
	assert.Equal(t, d, r.Current())
}

func TestRendererChangesOnlyWhenInputsChange(t *testing.T) {
	r := NewRenderer(WithOpacity(0.3))
	s := suggest.Suggestion{Text: "abc"}

	_, changed := r.Update(s, true, 1)
	assert.True(t, changed)

	_, changed = r.Update(s, true, 1)
	assert.False(t, changed)

	d, changed := r.Update(s, true, 2)
	assert.True(t, changed)
	assert.Equal(t, 2, d.Offset)
	assert.Equal(t, 0.3, d.Hint.Opacity)

	_, changed = r.Update(suggest.Suggestion{Text: "bc"}, true, 2)
	assert.True(t, changed)

	d, changed = r.Update(suggest.Suggestion{}, false, 2)
	assert.True(t, changed)
	assert.True(t, d.IsEmpty())
}

func TestWithOpacityIgnoresOutOfRange(t *testing.T) {
	r := NewRenderer(WithOpacity(0), WithOpacity(1.5))
	d, _ := r.Update(suggest.Suggestion{Text: "x"}, true, 0)
	assert.Equal(t, DefaultOpacity, d.Hint.Opacity)
}

func TestSinkFunc(t *testing.T) {
	var got Decoration
	var sink DecorationSink = SinkFunc(func(d Decoration) { got = d })
	sink.SetDecoration(Decoration{Offset: 3, Text: "y"})
	assert.Equal(t, "y", got.Text)
}
