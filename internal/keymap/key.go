// Package keymap maps terminal key events to editor actions.
//
// Bindings carry a priority. For a given key the keymap offers actions from
// the highest priority down, and stops at the first handler that consumes
// the key. This is how the completion accept binding shares Tab with plain
// tab insertion: accept runs first and declines when no suggestion is shown.
package keymap

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// ErrInvalidKey is returned for key specs that cannot be parsed.
var ErrInvalidKey = errors.New("invalid key")

// Key is a normalized key press.
type Key struct {
	Code tcell.Key
	Rune rune
	Mod  tcell.ModMask
}

var namedKeys = map[string]tcell.Key{
	"tab":       tcell.KeyTab,
	"backtab":   tcell.KeyBacktab,
	"enter":     tcell.KeyEnter,
	"return":    tcell.KeyEnter,
	"esc":       tcell.KeyEscape,
	"escape":    tcell.KeyEscape,
	"backspace": tcell.KeyBackspace2,
	"delete":    tcell.KeyDelete,
	"del":       tcell.KeyDelete,
	"insert":    tcell.KeyInsert,
	"left":      tcell.KeyLeft,
	"right":     tcell.KeyRight,
	"up":        tcell.KeyUp,
	"down":      tcell.KeyDown,
	"home":      tcell.KeyHome,
	"end":       tcell.KeyEnd,
	"pgup":      tcell.KeyPgUp,
	"pgdn":      tcell.KeyPgDn,
	"pageup":    tcell.KeyPgUp,
	"pagedown":  tcell.KeyPgDn,
	"f1":        tcell.KeyF1,
	"f2":        tcell.KeyF2,
	"f3":        tcell.KeyF3,
	"f4":        tcell.KeyF4,
	"f5":        tcell.KeyF5,
}

// Parse parses specs such as "Tab", "Ctrl+Right", "Ctrl+Space", "Alt+f" or "x".
func Parse(spec string) (Key, error) {
	parts := strings.Split(spec, "+")
	name := parts[len(parts)-1]
	if name == "" {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, spec)
	}

	var mod tcell.ModMask
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(p) {
		case "ctrl", "control", "c":
			mod |= tcell.ModCtrl
		case "alt", "opt", "a":
			mod |= tcell.ModAlt
		case "shift", "s":
			mod |= tcell.ModShift
		case "meta", "cmd", "m":
			mod |= tcell.ModMeta
		default:
			return Key{}, fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidKey, p, spec)
		}
	}

	lower := strings.ToLower(name)
	if lower == "space" {
		if mod&tcell.ModCtrl != 0 {
			return normalize(Key{Code: tcell.KeyCtrlSpace, Mod: mod}), nil
		}
		return normalize(Key{Code: tcell.KeyRune, Rune: ' ', Mod: mod}), nil
	}
	if code, ok := namedKeys[lower]; ok {
		return normalize(Key{Code: code, Mod: mod}), nil
	}

	runes := []rune(name)
	if len(runes) != 1 {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, spec)
	}
	return normalize(Key{Code: tcell.KeyRune, Rune: runes[0], Mod: mod}), nil
}

// MustParse is Parse for specs known to be valid.
func MustParse(spec string) Key {
	k, err := Parse(spec)
	if err != nil {
		panic(err)
	}
	return k
}

// FromEvent converts a tcell key event.
func FromEvent(ev *tcell.EventKey) Key {
	k := Key{Code: ev.Key(), Mod: ev.Modifiers()}
	if k.Code == tcell.KeyRune {
		k.Rune = ev.Rune()
	}
	return normalize(k)
}

// ctrlLetters lists the control keys for Ctrl+A through Ctrl+Z in order.
var ctrlLetters = [...]tcell.Key{
	tcell.KeyCtrlA, tcell.KeyCtrlB, tcell.KeyCtrlC, tcell.KeyCtrlD, tcell.KeyCtrlE,
	tcell.KeyCtrlF, tcell.KeyCtrlG, tcell.KeyCtrlH, tcell.KeyCtrlI, tcell.KeyCtrlJ,
	tcell.KeyCtrlK, tcell.KeyCtrlL, tcell.KeyCtrlM, tcell.KeyCtrlN, tcell.KeyCtrlO,
	tcell.KeyCtrlP, tcell.KeyCtrlQ, tcell.KeyCtrlR, tcell.KeyCtrlS, tcell.KeyCtrlT,
	tcell.KeyCtrlU, tcell.KeyCtrlV, tcell.KeyCtrlW, tcell.KeyCtrlX, tcell.KeyCtrlY,
	tcell.KeyCtrlZ,
}

// ctrlLetter returns the letter of a Ctrl+letter key. Tab, Enter and
// Backspace are reported as themselves even where tcell aliases them to
// Ctrl+I, Ctrl+M and Ctrl+H.
func ctrlLetter(code tcell.Key) (rune, bool) {
	switch code {
	case tcell.KeyTab, tcell.KeyEnter, tcell.KeyBackspace, tcell.KeyBackspace2:
		return 0, false
	}
	for i, c := range ctrlLetters {
		if c == code {
			return rune('A' + i), true
		}
	}
	return 0, false
}

// impliesCtrl reports whether code can only be typed with Ctrl held, or is
// a control character terminals send without a reliable Ctrl flag.
func impliesCtrl(code tcell.Key) bool {
	switch code {
	case tcell.KeyCtrlSpace, tcell.KeyTab, tcell.KeyEnter, tcell.KeyEscape, tcell.KeyBackspace2:
		return true
	}
	_, ok := ctrlLetter(code)
	return ok
}

// normalize folds representations terminals disagree on. Control keys
// carry Ctrl implicitly, Ctrl+letter arrives either as a control key or as
// a rune with Ctrl, and a rune's shift state is part of the rune.
func normalize(k Key) Key {
	if k.Code == tcell.KeyBackspace {
		k.Code = tcell.KeyBackspace2
	}
	if k.Code == tcell.KeyRune && k.Mod&tcell.ModCtrl != 0 && k.Rune < unicode.MaxASCII && unicode.IsLetter(k.Rune) {
		k.Code = ctrlLetters[unicode.ToLower(k.Rune)-'a']
		k.Rune = 0
	}
	if k.Code == tcell.KeyRune && k.Mod&tcell.ModCtrl != 0 && k.Rune == ' ' {
		k.Code, k.Rune = tcell.KeyCtrlSpace, 0
	}
	if impliesCtrl(k.Code) {
		k.Mod &^= tcell.ModCtrl
	}
	if k.Code == tcell.KeyRune {
		k.Mod &^= tcell.ModShift
	}
	return k
}

// String renders the key in the syntax Parse accepts.
func (k Key) String() string {
	mod := k.Mod
	if impliesCtrl(k.Code) {
		mod &^= tcell.ModCtrl
	}

	var b strings.Builder
	if mod&tcell.ModCtrl != 0 {
		b.WriteString("Ctrl+")
	}
	if mod&tcell.ModAlt != 0 {
		b.WriteString("Alt+")
	}
	if mod&tcell.ModMeta != 0 {
		b.WriteString("Meta+")
	}
	if mod&tcell.ModShift != 0 {
		b.WriteString("Shift+")
	}
	if letter, ok := ctrlLetter(k.Code); ok {
		b.WriteString("Ctrl+" + string(letter))
		return b.String()
	}
	switch {
	case k.Code == tcell.KeyRune && k.Rune == ' ':
		b.WriteString("Space")
	case k.Code == tcell.KeyRune:
		b.WriteRune(k.Rune)
	case k.Code == tcell.KeyCtrlSpace:
		b.WriteString("Ctrl+Space")
	default:
		b.WriteString(displayName(k.Code))
	}
	return b.String()
}

func displayName(code tcell.Key) string {
	if name, ok := tcell.KeyNames[code]; ok {
		return name
	}
	return fmt.Sprintf("Key(%d)", code)
}
