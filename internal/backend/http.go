package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const maxReplyBytes = 1 << 20

// NewHTTP returns a backend that POSTs the request as JSON to cfg.Endpoint:
//
//	{"text": ..., "line": ..., "column": ..., "prompt": ..., "model": ...}
//
// and reads the snippet at cfg.SnippetPath (gjson syntax) of the reply.
func NewHTTP(cfg Config) (Func, error) {
	return newHTTP(cfg, &http.Client{Timeout: DefaultHTTPTimeout})
}

func newHTTP(cfg Config, client *http.Client) (Func, error) {
	if cfg.Endpoint == "" {
		return nil, &Error{Provider: ProviderHTTP, Err: errors.New("endpoint not set")}
	}
	path := cfg.SnippetPath
	if path == "" {
		path = DefaultSnippetPath
	}

	return func(ctx context.Context, req Request) (Result, error) {
		body, err := encodeRequest(cfg, req)
		if err != nil {
			return Result{}, wrap(ProviderHTTP, err)
		}
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.Endpoint, bytes.NewReader(body))
		if err != nil {
			return Result{}, wrap(ProviderHTTP, err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		if cfg.APIKey != "" {
			httpReq.Header.Set("Authorization", "Bearer "+cfg.APIKey)
		}

		resp, err := client.Do(httpReq)
		if err != nil {
			if ctx.Err() != nil {
				return Result{}, ctx.Err()
			}
			return Result{}, wrap(ProviderHTTP, err)
		}
		defer resp.Body.Close()

		reply, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
		if err != nil {
			return Result{}, wrap(ProviderHTTP, err)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return Result{}, wrap(ProviderHTTP, fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(reply)))
		}
		if !gjson.ValidBytes(reply) {
			return Result{}, wrap(ProviderHTTP, errors.New("reply is not JSON"))
		}
		v := gjson.GetBytes(reply, path)
		if !v.Exists() {
			return Result{}, wrap(ProviderHTTP, fmt.Errorf("%w: no value at %q", ErrEmptyResponse, path))
		}
		return Result{Snippet: v.String()}, nil
	}, nil
}

func encodeRequest(cfg Config, req Request) ([]byte, error) {
	body := []byte(`{}`)
	var err error
	set := func(key string, value any) {
		if err == nil {
			body, err = sjson.SetBytes(body, key, value)
		}
	}
	set("text", req.Text)
	set("line", req.Line)
	set("column", req.Column)
	set("prompt", Prompt(req))
	if cfg.Model != "" {
		set("model", cfg.Model)
	}
	return body, err
}
