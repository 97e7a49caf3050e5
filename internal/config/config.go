// Package config loads ghostline configuration.
//
// Configuration is layered: built-in defaults, then the TOML file, then
// GHOSTLINE_* environment variables. Command line flags are applied by the
// caller on top of the result.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dshills/ghostline/internal/backend"
	"github.com/dshills/ghostline/internal/logging"
)

// Config is the complete configuration.
type Config struct {
	Completion CompletionConfig `toml:"completion"`
	Backend    BackendConfig    `toml:"backend"`
	UI         UIConfig         `toml:"ui"`
	Keys       KeysConfig       `toml:"keys"`
	Log        LogConfig        `toml:"log"`
}

// CompletionConfig controls the fetch cycle.
type CompletionConfig struct {
	Delay    Duration `toml:"delay"`
	Timeout  Duration `toml:"timeout"`
	Enabled  bool     `toml:"enabled"`
	Autosave Duration `toml:"autosave"`
}

// BackendConfig selects the completion provider.
type BackendConfig struct {
	Provider    string  `toml:"provider"`
	Model       string  `toml:"model"`
	Temperature float64 `toml:"temperature"`
	MaxTokens   int     `toml:"max_tokens"`
	APIKeyEnv   string  `toml:"api_key_env"`
	Endpoint    string  `toml:"endpoint"`
	SnippetPath string  `toml:"snippet_path"`
	Script      string  `toml:"script"`
}

// UIConfig controls ghost text appearance.
type UIConfig struct {
	Opacity    float64 `toml:"opacity"`
	GhostColor string  `toml:"ghost_color"`
	Background string  `toml:"background"`
}

// KeysConfig names the keys bound to completion actions.
type KeysConfig struct {
	Accept     string `toml:"accept"`
	AcceptWord string `toml:"accept_word"`
	Trigger    string `toml:"trigger"`
	Dismiss    string `toml:"dismiss"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level    string `toml:"level"`
	File     string `toml:"file"`
	JSONFile string `toml:"json_file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Completion: CompletionConfig{
			Delay:    Duration(1000 * time.Millisecond),
			Timeout:  Duration(30 * time.Second),
			Enabled:  true,
			Autosave: Duration(200 * time.Millisecond),
		},
		Backend: BackendConfig{
			Provider:    backend.ProviderOpenAI,
			Temperature: backend.DefaultTemperature,
			MaxTokens:   backend.DefaultMaxTokens,
			SnippetPath: backend.DefaultSnippetPath,
		},
		UI: UIConfig{
			Opacity:    0.5,
			GhostColor: "#808080",
			Background: "#000000",
		},
		Keys: KeysConfig{
			Accept:     "Tab",
			AcceptWord: "Ctrl+Right",
			Trigger:    "Ctrl+Space",
			Dismiss:    "Esc",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.Completion.Delay < 0:
		return &ValidationError{Path: "completion.delay", Message: "must not be negative"}
	case c.Completion.Timeout < 0:
		return &ValidationError{Path: "completion.timeout", Message: "must not be negative"}
	case c.Completion.Autosave < 0:
		return &ValidationError{Path: "completion.autosave", Message: "must not be negative"}
	case c.UI.Opacity <= 0 || c.UI.Opacity > 1:
		return &ValidationError{Path: "ui.opacity", Message: fmt.Sprintf("%v is not in (0, 1]", c.UI.Opacity)}
	case c.Backend.Temperature < 0 || c.Backend.Temperature > 2:
		return &ValidationError{Path: "backend.temperature", Message: fmt.Sprintf("%v is not in [0, 2]", c.Backend.Temperature)}
	case c.Backend.MaxTokens < 0:
		return &ValidationError{Path: "backend.max_tokens", Message: "must not be negative"}
	}
	switch c.Backend.Provider {
	case backend.ProviderNone, backend.ProviderOpenAI, backend.ProviderAnthropic,
		backend.ProviderGemini, backend.ProviderHTTP, backend.ProviderLua:
	default:
		return &ValidationError{Path: "backend.provider", Message: fmt.Sprintf("unknown provider %q", c.Backend.Provider)}
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return &ValidationError{Path: "log.level", Message: err.Error()}
	}
	return nil
}

// BackendConfig resolves the provider configuration, reading the API key
// from the configured or the provider's default environment variable.
func (c *Config) BackendConfig() backend.Config {
	env := c.Backend.APIKeyEnv
	if env == "" {
		env = backend.DefaultAPIKeyEnv(c.Backend.Provider)
	}
	var key string
	if env != "" {
		key = os.Getenv(env)
	}
	provider := c.Backend.Provider
	if !c.Completion.Enabled {
		provider = backend.ProviderNone
	}
	return backend.Config{
		Provider:    provider,
		Model:       c.Backend.Model,
		Temperature: c.Backend.Temperature,
		MaxTokens:   c.Backend.MaxTokens,
		APIKey:      key,
		Endpoint:    c.Backend.Endpoint,
		SnippetPath: c.Backend.SnippetPath,
		Script:      c.Backend.Script,
	}
}

// DefaultPath returns the user configuration file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "ghostline", "config.toml")
}
