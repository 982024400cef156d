package llm

import (
	"context"
	"net/http"
	"strings"
)

const (
	defaultClaudeEndpoint = "https://api.anthropic.com/v1/messages"
	defaultClaudeModel    = "claude-3-haiku-20240307"
	claudeAPIVersion      = "2023-06-01"
)

// ClaudeGenerator calls the Anthropic Messages API.
type ClaudeGenerator struct {
	cfg    Config
	client *http.Client
}

func newClaude(cfg Config, client *http.Client) *ClaudeGenerator {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultClaudeEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = defaultClaudeModel
	}
	return &ClaudeGenerator{cfg: cfg, client: client}
}

func (g *ClaudeGenerator) Name() string { return "claude/" + g.cfg.Model }

func (g *ClaudeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"model":      g.cfg.Model,
		"max_tokens": g.cfg.MaxTokens,
		"messages": []map[string]any{
			{"role": "user", "content": prompt},
		},
	}
	headers := map[string]string{
		"x-api-key":         g.cfg.APIKey,
		"anthropic-version": claudeAPIVersion,
	}

	var resp struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := postJSON(ctx, g.client, g.cfg.Endpoint, headers, payload, &resp); err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, c := range resp.Content {
		if c.Type == "text" {
			sb.WriteString(c.Text)
		}
	}
	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}
