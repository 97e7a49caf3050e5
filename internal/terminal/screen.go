package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/ghostline/internal/overlay"
)

// NewScreen creates and initializes a terminal screen with mouse and paste
// reporting enabled.
func NewScreen() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initializing screen: %w", err)
	}
	screen.EnableMouse()
	screen.EnablePaste()
	return screen, nil
}

// ghostStyle converts an overlay style. The background is left to the
// terminal so ghost text sits on the same background as real text.
func ghostStyle(s overlay.Style) tcell.Style {
	r, g, b := s.Foreground.RGB255()
	st := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
	if s.Italic {
		st = st.Italic(true)
	}
	return st
}
