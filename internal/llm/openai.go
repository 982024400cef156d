package llm

import (
	"context"
	"net/http"
	"strings"
)

const (
	defaultOpenAIEndpoint = "https://api.openai.com/v1"
	defaultOpenAIModel    = "gpt-4o-mini"
)

// OpenAIGenerator calls an OpenAI-compatible chat completions endpoint.
type OpenAIGenerator struct {
	cfg    Config
	client *http.Client
}

func newOpenAI(cfg Config, client *http.Client) *OpenAIGenerator {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultOpenAIEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = defaultOpenAIModel
	}
	return &OpenAIGenerator{cfg: cfg, client: client}
}

func (g *OpenAIGenerator) Name() string { return "openai/" + g.cfg.Model }

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"model":       g.cfg.Model,
		"max_tokens":  g.cfg.MaxTokens,
		"temperature": 0.3,
		"messages": []map[string]any{
			{"role": "user", "content": prompt},
		},
	}
	headers := map[string]string{"Authorization": "Bearer " + g.cfg.APIKey}

	var resp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	url := strings.TrimSuffix(g.cfg.Endpoint, "/") + "/chat/completions"
	if err := postJSON(ctx, g.client, url, headers, payload, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
