package suggest

import (
	"fmt"
	"strings"
)

// Suggestion is the cursor-relative candidate completion text.
type Suggestion struct {
	Text string
}

// Effect is a mutation of the suggestion. The set of effects is closed:
// only SetEffect, ClearEffect and ShrinkEffect implement it.
type Effect interface {
	effect()
	fmt.Stringer
}

// SetEffect replaces the suggestion. An empty Text clears it.
type SetEffect struct {
	Text string
}

// ClearEffect removes the suggestion.
type ClearEffect struct{}

// ShrinkEffect removes Prefix from the start of the suggestion.
type ShrinkEffect struct {
	Prefix string
}

func (SetEffect) effect()    {}
func (ClearEffect) effect()  {}
func (ShrinkEffect) effect() {}

func (e SetEffect) String() string    { return fmt.Sprintf("Set(%q)", e.Text) }
func (ClearEffect) String() string    { return "Clear" }
func (e ShrinkEffect) String() string { return fmt.Sprintf("Shrink(%q)", e.Prefix) }

// Reduce applies an effect to the current value and returns the new value.
// ok reports whether a suggestion exists afterwards.
//
// Shrink is a no-op unless Prefix is a non-empty exact prefix of the current
// text. A shrink that consumes the whole text leaves no suggestion.
func Reduce(cur Suggestion, present bool, e Effect) (next Suggestion, ok bool) {
	switch e := e.(type) {
	case SetEffect:
		if e.Text == "" {
			return Suggestion{}, false
		}
		return Suggestion{Text: e.Text}, true
	case ClearEffect:
		return Suggestion{}, false
	case ShrinkEffect:
		if !present || e.Prefix == "" || !strings.HasPrefix(cur.Text, e.Prefix) {
			return cur, present
		}
		rest := cur.Text[len(e.Prefix):]
		if rest == "" {
			return Suggestion{}, false
		}
		return Suggestion{Text: rest}, true
	default:
		panic(fmt.Sprintf("suggest: unknown effect %T", e))
	}
}
