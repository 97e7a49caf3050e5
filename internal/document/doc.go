// Package document provides the editable text buffer that the inline
// completion engine observes.
//
// A Document holds the full text, a single selection (anchor and head), and a
// list of subscribers. Every mutation goes through Apply or SetSelection and
// produces exactly one Change, delivered synchronously to subscribers after the
// document lock is released. A Change carries the inserted ranges in post-edit
// coordinates and two flags: DocChanged and SelectionSet.
//
// Offsets are byte offsets into the UTF-8 text. Points are 0-indexed; the
// completion backend contract uses 1-based lines and columns, see Point.OneBased.
//
// Line endings are normalized to LF on load and on every insertion.
package document
