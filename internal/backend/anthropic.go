package backend

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// NewAnthropic returns a backend on the Anthropic Messages API.
func NewAnthropic(cfg Config) (Func, error) {
	if cfg.APIKey == "" {
		return nil, &Error{Provider: ProviderAnthropic, Err: ErrMissingAPIKey}
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(cfg.Endpoint))
	}
	client := anthropic.NewClient(opts...)

	return func(ctx context.Context, req Request) (Result, error) {
		msg, err := client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:     anthropic.Model(cfg.model()),
			MaxTokens: int64(cfg.maxTokens()),
			System:    []anthropic.TextBlockParam{{Text: SystemPrompt}},
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(Prompt(req))),
			},
			Temperature: anthropic.Float(cfg.Temperature),
		})
		if err != nil {
			return Result{}, wrap(ProviderAnthropic, err)
		}

		var b strings.Builder
		for _, block := range msg.Content {
			if block.Type == "text" {
				b.WriteString(block.Text)
			}
		}
		if b.Len() == 0 {
			return Result{}, wrap(ProviderAnthropic, ErrEmptyResponse)
		}
		return Result{Snippet: ParseSnippet(b.String())}, nil
	}, nil
}
