package suggest

// Observer is called after the store value changes.
type Observer func(s Suggestion, ok bool)

// Store holds at most one suggestion.
//
// Store is not safe for concurrent use. It belongs to one engine and is only
// touched from that engine's loop.
type Store struct {
	cur       Suggestion
	present   bool
	observers []Observer
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Current returns the suggestion and whether one exists.
func (s *Store) Current() (Suggestion, bool) {
	return s.cur, s.present
}

// Dispatch applies an effect. Observers run only if the value changed.
func (s *Store) Dispatch(e Effect) {
	next, ok := Reduce(s.cur, s.present, e)
	if next == s.cur && ok == s.present {
		return
	}
	s.cur, s.present = next, ok
	for _, o := range s.observers {
		o(next, ok)
	}
}

// Set replaces the suggestion.
func (s *Store) Set(text string) { s.Dispatch(SetEffect{Text: text}) }

// Clear removes the suggestion.
func (s *Store) Clear() { s.Dispatch(ClearEffect{}) }

// Shrink removes prefix from the start of the suggestion if it matches exactly.
func (s *Store) Shrink(prefix string) { s.Dispatch(ShrinkEffect{Prefix: prefix}) }

// Observe registers an observer.
func (s *Store) Observe(o Observer) {
	s.observers = append(s.observers, o)
}

