package backend

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// NewOpenAI returns a backend on the OpenAI chat completions API. Endpoint,
// when set, replaces the base URL for compatible servers.
func NewOpenAI(cfg Config) (Func, error) {
	if cfg.APIKey == "" {
		return nil, &Error{Provider: ProviderOpenAI, Err: ErrMissingAPIKey}
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(cfg.Endpoint))
	}
	client := openai.NewClient(opts...)

	return func(ctx context.Context, req Request) (Result, error) {
		params := openai.ChatCompletionNewParams{
			Model: openai.ChatModel(cfg.model()),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(SystemPrompt),
				openai.UserMessage(Prompt(req)),
			},
			Temperature: openai.Float(cfg.Temperature),
			MaxTokens:   openai.Int(int64(cfg.maxTokens())),
		}
		resp, err := client.Chat.Completions.New(ctx, params)
		if err != nil {
			return Result{}, wrap(ProviderOpenAI, err)
		}
		if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
			return Result{}, wrap(ProviderOpenAI, ErrEmptyResponse)
		}
		return Result{Snippet: ParseSnippet(resp.Choices[0].Message.Content)}, nil
	}, nil
}
