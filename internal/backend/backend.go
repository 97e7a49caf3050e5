// Package backend defines the completion backend contract and its providers.
//
// A backend is an asynchronous function from a buffer snapshot and a cursor
// position to a snippet. Cancellation is signalled through the context; a
// backend that honours it returns an error wrapping context.Canceled.
//
// Providers:
//   - openai: chat completions (default model gpt-4o-mini)
//   - anthropic: Messages API
//   - gemini: Google generative AI
//   - http: any JSON endpoint
//   - lua: a local script defining complete(text, column, line)
package backend

import (
	"context"
	"errors"
	"fmt"
)

// Request is the input of a completion call. Line and Column are 1-based and
// measured at the rightmost edge of the selection; Column counts bytes.
type Request struct {
	Text   string
	Column int
	Line   int
}

// Result is the output of a completion call.
type Result struct {
	Snippet string
}

// Func is the completion backend contract.
type Func func(ctx context.Context, req Request) (Result, error)

// Errors returned by backends.
var (
	ErrUnknownProvider = errors.New("unknown backend provider")
	ErrMissingAPIKey   = errors.New("missing API key")
	ErrEmptyResponse   = errors.New("backend returned no content")
)

// Error wraps a failure of a specific provider.
type Error struct {
	Provider string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s backend: %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// wrap tags err with the provider name. Context errors pass through unwrapped
// so that callers can tell supersession from failure with errors.Is.
func wrap(provider string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return &Error{Provider: provider, Err: err}
}
