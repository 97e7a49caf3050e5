package backend

import (
	"fmt"
	"time"
)

// Provider names.
const (
	ProviderNone      = "none"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderHTTP      = "http"
	ProviderLua       = "lua"
)

// Defaults shared by the language model providers.
const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 256
	DefaultSnippetPath = "snippet"
	DefaultHTTPTimeout = 60 * time.Second
)

// Config selects and configures a provider.
type Config struct {
	Provider    string
	Model       string
	Temperature float64
	MaxTokens   int
	APIKey      string
	Endpoint    string
	SnippetPath string
	Script      string
}

// DefaultModel returns the model used when none is configured.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderAnthropic:
		return "claude-3-5-haiku-latest"
	case ProviderGemini:
		return "gemini-1.5-flash"
	}
	return ""
}

// DefaultAPIKeyEnv returns the environment variable holding the provider's key.
func DefaultAPIKeyEnv(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderGemini:
		return "GEMINI_API_KEY"
	}
	return ""
}

func (c Config) model() string {
	if c.Model != "" {
		return c.Model
	}
	return DefaultModel(c.Provider)
}

func (c Config) maxTokens() int {
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return DefaultMaxTokens
}

// New builds the backend for cfg. The "none" provider yields a nil Func.
func New(cfg Config) (Func, error) {
	switch cfg.Provider {
	case "", ProviderNone:
		return nil, nil
	case ProviderOpenAI:
		return NewOpenAI(cfg)
	case ProviderAnthropic:
		return NewAnthropic(cfg)
	case ProviderGemini:
		return NewGemini(cfg)
	case ProviderHTTP:
		return NewHTTP(cfg)
	case ProviderLua:
		return NewLua(cfg.Script)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
}
