package keymap

import (
	"fmt"
	"slices"
)

type entry struct {
	Binding
	key   Key
	order int
}

// Keymap holds key bindings.
type Keymap struct {
	entries []entry
}

// New creates an empty keymap.
func New() *Keymap {
	return &Keymap{}
}

// Add parses and adds a binding.
func (k *Keymap) Add(b Binding) error {
	key, err := Parse(b.Keys)
	if err != nil {
		return fmt.Errorf("binding %s: %w", b.Action, err)
	}
	k.entries = append(k.entries, entry{Binding: b, key: key, order: len(k.entries)})
	return nil
}

// Lookup returns the bindings for key, highest priority first. Bindings
// with equal priority keep the order they were added in.
func (k *Keymap) Lookup(key Key) []Binding {
	var matches []entry
	for _, e := range k.entries {
		if e.key == key {
			matches = append(matches, e)
		}
	}
	slices.SortStableFunc(matches, func(a, b entry) int {
		return b.Priority - a.Priority
	})
	out := make([]Binding, len(matches))
	for i, m := range matches {
		out[i] = m.Binding
	}
	return out
}

// Dispatch offers key to handle once per matching binding, in Lookup order,
// until handle reports the key consumed. It returns whether any did.
func (k *Keymap) Dispatch(key Key, handle func(action string) bool) bool {
	for _, b := range k.Lookup(key) {
		if handle(b.Action) {
			return true
		}
	}
	return false
}

// Bindings returns all bindings in the order they were added.
func (k *Keymap) Bindings() []Binding {
	out := make([]Binding, len(k.entries))
	for i, e := range k.entries {
		out[i] = e.Binding
	}
	return out
}

// KeyFor returns the first key bound to action.
func (k *Keymap) KeyFor(action string) (Key, bool) {
	for _, e := range k.entries {
		if e.Action == action {
			return e.key, true
		}
	}
	return Key{}, false
}
