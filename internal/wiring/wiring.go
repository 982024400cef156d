// Package wiring builds the shared components both binaries need from a
// loaded config.
package wiring

import (
	"fmt"
	"log"

	"symptomtriage/internal/assess"
	"symptomtriage/internal/config"
	"symptomtriage/internal/insight"
	"symptomtriage/internal/llm"
	"symptomtriage/internal/notifier"
	"symptomtriage/internal/recorder"
	"symptomtriage/internal/triage"
	"symptomtriage/internal/vocabulary"
)

// Scorer loads the vocabulary override if one is configured.
func Scorer(cfg *config.Config) (*triage.Scorer, error) {
	if cfg.Vocabulary.File == "" {
		return triage.NewScorer(nil), nil
	}
	tables, err := vocabulary.Load(cfg.Vocabulary.File)
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}
	log.Printf("[INFO] vocabulary loaded from %s", cfg.Vocabulary.File)
	return triage.NewScorer(tables), nil
}

// Enricher returns the configured AI enricher, or a disabled one when no
// provider is set.
func Enricher(cfg *config.Config) insight.Enricher {
	if cfg.AI.Provider == "" {
		log.Println("[INFO] no AI provider configured, enrichment disabled")
		return insight.Disabled{}
	}
	return insight.New(llm.Config{
		Provider:  cfg.AI.Provider,
		APIKey:    cfg.AI.APIKey,
		Endpoint:  cfg.AI.Endpoint,
		Model:     cfg.AI.Model,
		MaxTokens: cfg.AI.MaxTokens,
		Timeout:   cfg.AI.Timeout,
		Proxy:     cfg.Proxy,
	})
}

// Service builds the orchestrator.
func Service(cfg *config.Config) (*assess.Service, insight.Enricher, error) {
	scorer, err := Scorer(cfg)
	if err != nil {
		return nil, nil, err
	}
	enr := Enricher(cfg)
	return assess.NewService(scorer, enr, cfg.AI.Timeout), enr, nil
}

// Recorder opens the configured database, falling back to a noop recorder
// when it cannot be opened.
func Recorder(cfg *config.Config) recorder.Recorder {
	rec, err := recorder.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Printf("[WARN] init %s recorder failed, using noop: %v", cfg.Database.Driver, err)
		return recorder.NewNoopRecorder()
	}
	return rec
}

// Notifier returns the Telegram notifier, or nil when Telegram is not configured.
func Notifier(cfg *config.Config) *notifier.TelegramNotifier {
	if !cfg.TelegramEnabled() {
		log.Println("[INFO] telegram not configured, alerts disabled")
		return nil
	}
	return notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
}
