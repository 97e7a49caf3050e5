// Package suggest holds the current inline suggestion and the pure text
// operations that reconcile it with the document.
//
// The Store is the single source of truth for the suggestion. It is mutated
// only through Effects: SetEffect, ClearEffect and ShrinkEffect. Reduce is the
// one place that interprets them.
//
// Trim removes the part of a freshly fetched candidate that repeats text
// already present before the cursor.
package suggest
