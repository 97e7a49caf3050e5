package app

import (
	"context"
	"errors"

	"github.com/dshills/ghostline/internal/backend"
	"github.com/dshills/ghostline/internal/document"
	"github.com/dshills/ghostline/internal/suggest"
)

// ErrNoBackend is returned by CompleteOnce when completion is disabled.
var ErrNoBackend = errors.New("no completion backend configured")

// CompleteOnce requests a single completion of text at a 1-based line and
// column, outside the editor. The snippet is trimmed against the text before
// that position exactly as the editor would display it.
func CompleteOnce(ctx context.Context, fn backend.Func, text string, line, column int) (string, error) {
	if fn == nil {
		return "", ErrNoBackend
	}
	doc := document.New(text)
	offset := doc.PointToOffset(document.Point{Line: max(line-1, 0), Column: max(column-1, 0)})
	line, column = doc.OffsetToPoint(offset).OneBased()

	res, err := fn(ctx, backend.Request{Text: doc.Text(), Line: line, Column: column})
	if err != nil {
		return "", err
	}
	snippet := document.NormalizeLineEndings(res.Snippet)
	return suggest.Trim(doc.TextRange(0, offset), snippet), nil
}
