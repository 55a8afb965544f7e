package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Messaging platform. The access token is optional: without it the
	// service still accepts webhooks and simply skips delivery.
	ChannelAccessToken string `envconfig:"LINE_CHANNEL_TOKEN" default:""`
	MessagingEndpoint  string `envconfig:"LINE_API_ENDPOINT" default:"https://api.line.me"`

	// Completion API. A missing key degrades to a typed failure message
	// per event instead of refusing to start.
	CompletionAPIKey   string `envconfig:"COMPLETION_API_KEY" default:""`
	CompletionEndpoint string `envconfig:"COMPLETION_ENDPOINT" default:"https://api.openai.com/v1"`
	CompletionModel    string `envconfig:"COMPLETION_MODEL" default:"gpt-4o-mini"`
	ProviderName       string `envconfig:"RELAY_TRANSLATION_PROVIDER" default:"responses"`

	// Chunk size and retry count were tuned empirically and stay tunable.
	ChunkMaxRunes    int           `envconfig:"RELAY_CHUNK_MAX_RUNES" default:"1400"`
	TranslateTimeout time.Duration `envconfig:"RELAY_TRANSLATE_TIMEOUT" default:"25s"`
	ChatRetries      int           `envconfig:"RELAY_CHAT_RETRIES" default:"1"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.ChunkMaxRunes < 1 {
		return fmt.Errorf("RELAY_CHUNK_MAX_RUNES must be >= 1")
	}
	if c.TranslateTimeout < time.Second {
		return fmt.Errorf("RELAY_TRANSLATE_TIMEOUT must be >= 1s")
	}
	if c.ChatRetries < 0 {
		return fmt.Errorf("RELAY_CHAT_RETRIES must be >= 0")
	}
	if strings.TrimSpace(c.CompletionEndpoint) == "" {
		return fmt.Errorf("COMPLETION_ENDPOINT is required")
	}
	if strings.TrimSpace(c.MessagingEndpoint) == "" {
		return fmt.Errorf("LINE_API_ENDPOINT is required")
	}
	if strings.TrimSpace(c.CompletionModel) == "" {
		return fmt.Errorf("COMPLETION_MODEL is required")
	}
	return nil
}

// HasChannelToken reports whether outbound delivery is configured.
func (c *Config) HasChannelToken() bool {
	return c != nil && strings.TrimSpace(c.ChannelAccessToken) != ""
}

// HasCompletionKey reports whether the completion API is configured.
func (c *Config) HasCompletionKey() bool {
	return c != nil && strings.TrimSpace(c.CompletionAPIKey) != ""
}
