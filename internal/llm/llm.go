package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Generator is a single-prompt text completion backend.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// Provider names accepted in configuration.
const (
	ProviderClaude = "claude"
	ProviderOpenAI = "openai"
)

// Config configures a provider client.
type Config struct {
	Provider  string
	APIKey    string
	Endpoint  string
	Model     string
	MaxTokens int
	Timeout   time.Duration
	Proxy     string
}

const (
	defaultMaxTokens = 1024
	defaultTimeout   = 10 * time.Second
)

// New builds the Generator named by cfg.Provider.
func New(cfg Config) (Generator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	transport := &http.Transport{}
	if cfg.Proxy != "" {
		if u, err := url.Parse(cfg.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	client := &http.Client{Timeout: cfg.Timeout, Transport: transport}

	switch strings.ToLower(cfg.Provider) {
	case ProviderClaude, "anthropic":
		return newClaude(cfg, client), nil
	case ProviderOpenAI, "gpt4":
		return newOpenAI(cfg, client), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
}
