package backend

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// NewGemini returns a backend on the Google generative AI API.
func NewGemini(cfg Config) (Func, error) {
	if cfg.APIKey == "" {
		return nil, &Error{Provider: ProviderGemini, Err: ErrMissingAPIKey}
	}
	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	return func(ctx context.Context, req Request) (Result, error) {
		client, err := genai.NewClient(ctx, opts...)
		if err != nil {
			return Result{}, wrap(ProviderGemini, err)
		}
		defer client.Close()

		model := client.GenerativeModel(cfg.model())
		model.SetTemperature(float32(cfg.Temperature))
		model.SetMaxOutputTokens(int32(cfg.maxTokens()))
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(SystemPrompt)}}

		resp, err := model.GenerateContent(ctx, genai.Text(Prompt(req)))
		if err != nil {
			return Result{}, wrap(ProviderGemini, err)
		}

		var b strings.Builder
		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				if text, ok := part.(genai.Text); ok {
					b.WriteString(string(text))
				}
			}
			break
		}
		if b.Len() == 0 {
			return Result{}, wrap(ProviderGemini, ErrEmptyResponse)
		}
		return Result{Snippet: ParseSnippet(b.String())}, nil
	}, nil
}
