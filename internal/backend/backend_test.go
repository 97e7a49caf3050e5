package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestNewSelectsProvider(t *testing.T) {
	fn, err := New(Config{Provider: ProviderNone})
	require.NoError(t, err)
	assert.Nil(t, fn)

	fn, err = New(Config{})
	require.NoError(t, err)
	assert.Nil(t, fn)

	_, err = New(Config{Provider: "carrier-pigeon"})
	assert.ErrorIs(t, err, ErrUnknownProvider)

	for _, p := range []string{ProviderOpenAI, ProviderAnthropic, ProviderGemini} {
		_, err = New(Config{Provider: p})
		assert.ErrorIs(t, err, ErrMissingAPIKey, p)
	}
}

func TestWrapKeepsCancellationBare(t *testing.T) {
	assert.NoError(t, wrap("x", nil))
	assert.Equal(t, context.Canceled, wrap("x", context.Canceled))

	err := wrap("x", errors.New("boom"))
	assert.EqualError(t, err, "x backend: boom")
	var be *Error
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "x", be.Provider)
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, "gpt-4o-mini", DefaultModel(ProviderOpenAI))
	assert.Equal(t, "OPENAI_API_KEY", DefaultAPIKeyEnv(ProviderOpenAI))
	assert.Empty(t, DefaultModel(ProviderHTTP))
	assert.Equal(t, 256, Config{}.maxTokens())
	assert.Equal(t, "custom", Config{Provider: ProviderOpenAI, Model: "custom"}.model())
}

func TestOpenAIBackend(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 0,
			"model": "gpt-4o-mini",
			"choices": [{
				"index": 0,
				"finish_reason": "stop",
				"message": {"role": "assistant", "content": "{\"snippet\": \"    return foo\"}"}
			}]
		}`)
	}))
	defer srv.Close()

	fn, err := New(Config{
		Provider:    ProviderOpenAI,
		APIKey:      "sk-test",
		Endpoint:    srv.URL,
		Temperature: DefaultTemperature,
	})
	require.NoError(t, err)

	res, err := fn(context.Background(), Request{Text: "def foo(): pass\n", Line: 2, Column: 1})
	require.NoError(t, err)
	assert.Equal(t, "    return foo", res.Snippet)

	assert.Equal(t, "gpt-4o-mini", gjson.GetBytes(body, "model").String())
	assert.InDelta(t, 0.7, gjson.GetBytes(body, "temperature").Float(), 1e-9)
	assert.Equal(t, SystemPrompt, gjson.GetBytes(body, "messages.0.content").String())
	assert.Contains(t, gjson.GetBytes(body, "messages.1.content").String(), "def foo(): pass\n<FILL>")
}

func TestAnthropicBackend(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/messages") {
			http.NotFound(w, r)
			return
		}
		body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-3-5-haiku-latest",
			"content": [{"type": "text", "text": "{\"snippet\": \"x\"}"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 1, "output_tokens": 1}
		}`)
	}))
	defer srv.Close()

	fn, err := New(Config{Provider: ProviderAnthropic, APIKey: "key", Endpoint: srv.URL})
	require.NoError(t, err)

	res, err := fn(context.Background(), Request{Text: "a", Line: 1, Column: 2})
	require.NoError(t, err)
	assert.Equal(t, "x", res.Snippet)
	assert.Equal(t, SystemPrompt, gjson.GetBytes(body, "system.0.text").String())
	assert.EqualValues(t, DefaultMaxTokens, gjson.GetBytes(body, "max_tokens").Int())
}
