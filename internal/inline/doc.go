// Package inline implements inline completion for a single document.
//
// An Engine attaches to a document, watches its changes and keeps at most one
// ghost-text suggestion alive at the cursor. Typing that matches the head of
// the suggestion consumes it; any other edit discards it and starts a
// debounced fetch against the configured backend. Accept inserts the whole
// suggestion as one transaction.
//
// Engine state is owned by a single goroutine, the host's event loop. Timer
// expiries and backend results re-enter that goroutine through a Scheduler,
// so the engine itself holds no locks.
package inline
