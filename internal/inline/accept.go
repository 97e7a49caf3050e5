package inline

import (
	"github.com/dshills/ghostline/internal/document"
	"github.com/dshills/ghostline/internal/overlay"
)

// Accept inserts the whole suggestion at the cursor end and moves the cursor
// past it. It reports false, leaving the gesture to other handlers, when
// there is no suggestion.
func (e *Engine) Accept() bool {
	if e.detached {
		return false
	}
	s, ok := e.store.Current()
	if !ok {
		return false
	}
	if !e.insert(s.Text) {
		return false
	}
	e.store.Clear()
	return true
}

// AcceptWord inserts the leading word of the suggestion. The remainder stays
// visible because the insertion matches the head of the suggestion.
func (e *Engine) AcceptWord() bool {
	if e.detached {
		return false
	}
	s, ok := e.store.Current()
	if !ok {
		return false
	}
	return e.insert(overlay.FirstWord(s.Text))
}

func (e *Engine) insert(text string) bool {
	if text == "" {
		return false
	}
	at := e.doc.Selection().End()
	cursor := document.Cursor(at + len(text))
	err := e.doc.Apply(document.Transaction{
		Edits:     []document.Edit{document.NewInsert(at, text)},
		Selection: &cursor,
	})
	if err != nil {
		e.logger.Error("accept suggestion", "offset", at, "error", err)
		return false
	}
	return true
}

// SwipeDetector recognises a rightward drag between a press and a release.
type SwipeDetector struct {
	x, y   int
	active bool
}

// Start records the press position.
func (s *SwipeDetector) Start(x, y int) {
	s.x, s.y = x, y
	s.active = true
}

// End reports whether the release at (x, y) completes a rightward swipe:
// positive horizontal travel exceeding the vertical travel.
func (s *SwipeDetector) End(x, y int) bool {
	if !s.active {
		return false
	}
	s.active = false
	dx, dy := x-s.x, y-s.y
	return dx > 0 && abs(dx) > abs(dy)
}

// Active reports whether a press is being tracked.
func (s *SwipeDetector) Active() bool {
	return s.active
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
