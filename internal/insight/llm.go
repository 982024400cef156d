package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"symptomtriage/internal/llm"
	"symptomtriage/internal/model"
)

// LLMEnricher implements Enricher on top of a text-generation provider.
type LLMEnricher struct {
	gen llm.Generator
}

// NewLLMEnricher wraps gen. A nil gen yields an enricher that reports itself
// disabled.
func NewLLMEnricher(gen llm.Generator) *LLMEnricher {
	return &LLMEnricher{gen: gen}
}

// New builds an Enricher from provider configuration. Missing or invalid
// credentials yield Disabled.
func New(cfg llm.Config) Enricher {
	if cfg.Provider == "" {
		return Disabled{}
	}
	gen, err := llm.New(cfg)
	if err != nil {
		log.Printf("[WARN] AI enrichment disabled: %v", err)
		return Disabled{}
	}
	log.Printf("[INFO] AI enrichment enabled: %s", gen.Name())
	return NewLLMEnricher(gen)
}

func (e *LLMEnricher) Enabled() bool { return e.gen != nil }

// wireInsights mirrors the JSON the provider is asked to return.
type wireInsights struct {
	Insights        string   `json:"insights"`
	PatternAnalysis string   `json:"patternAnalysis"`
	Recommendations []string `json:"recommendations"`
	RiskFactors     []string `json:"riskFactors"`
	Confidence      *float64 `json:"confidence"`
}

func (e *LLMEnricher) SymptomInsights(ctx context.Context, report model.SymptomReport, history []model.HistoricalSymptom) (model.SymptomInsights, error) {
	if !e.Enabled() {
		return FallbackInsights(), nil
	}
	text, err := e.gen.Generate(ctx, buildSymptomInsightsPrompt(report, history))
	if err != nil {
		return FallbackInsights(), fmt.Errorf("symptom insights: %w", err)
	}
	insights, err := ParseSymptomInsights(text)
	if err != nil {
		log.Printf("[WARN] unparseable symptom insights, using fallback: %v", err)
		return FallbackInsights(), nil
	}
	return insights, nil
}

// ParseSymptomInsights extracts the insight object from a provider response.
func ParseSymptomInsights(text string) (model.SymptomInsights, error) {
	raw, err := ExtractJSON(text, '{')
	if err != nil {
		return model.SymptomInsights{}, err
	}
	var w wireInsights
	if err := json.Unmarshal(raw, &w); err != nil {
		return model.SymptomInsights{}, fmt.Errorf("decode insights: %w", err)
	}
	if strings.TrimSpace(w.Insights) == "" {
		return model.SymptomInsights{}, fmt.Errorf("decode insights: missing insights text")
	}
	out := model.SymptomInsights{
		Insights:        strings.TrimSpace(w.Insights),
		PatternAnalysis: strings.TrimSpace(w.PatternAnalysis),
		Recommendations: nonEmpty(w.Recommendations),
		RiskFactors:     nonEmpty(w.RiskFactors),
		Confidence:      0.5,
	}
	if w.Confidence != nil {
		out.Confidence = clamp01(*w.Confidence)
	}
	return out, nil
}

func (e *LLMEnricher) EnhancedRecommendation(ctx context.Context, report model.SymptomReport, level model.UrgencyLevel, score int, history []model.HistoricalSymptom) string {
	if !e.Enabled() {
		return ""
	}
	text, err := e.gen.Generate(ctx, buildEnhancedRecommendationPrompt(report, level, score, history))
	if err != nil {
		log.Printf("[WARN] enhanced recommendation failed: %v", err)
		return ""
	}
	return strings.TrimSpace(text)
}

type wireInsight struct {
	Type            string         `json:"type"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Severity        string         `json:"severity"`
	RelatedSymptoms []string       `json:"relatedSymptoms"`
	Recommendations []string       `json:"recommendations"`
	Confidence      *float64       `json:"confidence"`
	Metadata        map[string]any `json:"metadata"`
}

func (e *LLMEnricher) LongTermPatterns(ctx context.Context, symptoms []model.HistoricalSymptom, age int, conditions []string) []model.Insight {
	if !e.Enabled() || len(symptoms) == 0 {
		return nil
	}
	text, err := e.gen.Generate(ctx, buildLongTermPatternsPrompt(symptoms, age, conditions))
	if err != nil {
		log.Printf("[WARN] long-term pattern analysis failed: %v", err)
		return nil
	}
	insights, err := ParseInsights(text)
	if err != nil {
		log.Printf("[WARN] unparseable long-term insights: %v", err)
		return nil
	}
	return insights
}

// ParseInsights accepts either a JSON array of insights or an object with an
// "insights" array. Entries without a title are dropped.
func ParseInsights(text string) ([]model.Insight, error) {
	raw, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}
	var items []wireInsight
	if err := json.Unmarshal(raw, &items); err != nil {
		var wrapped struct {
			Insights []wireInsight `json:"insights"`
		}
		if err2 := json.Unmarshal(raw, &wrapped); err2 != nil {
			return nil, fmt.Errorf("decode insights: %w", err)
		}
		items = wrapped.Insights
	}

	var out []model.Insight
	for _, w := range items {
		if strings.TrimSpace(w.Title) == "" {
			continue
		}
		in := model.Insight{
			Type:            normalizeType(w.Type),
			Title:           strings.TrimSpace(w.Title),
			Description:     strings.TrimSpace(w.Description),
			Severity:        normalizeSeverity(w.Severity),
			RelatedSymptoms: nonEmpty(w.RelatedSymptoms),
			Recommendations: nonEmpty(w.Recommendations),
			Confidence:      0.5,
			Metadata:        w.Metadata,
		}
		if w.Confidence != nil {
			in.Confidence = clamp01(*w.Confidence)
		}
		out = append(out, in)
	}
	return out, nil
}

func normalizeType(s string) model.InsightType {
	switch t := model.InsightType(strings.ToLower(strings.TrimSpace(s))); t {
	case model.InsightPattern, model.InsightTrend, model.InsightRiskFactor, model.InsightRecommendation:
		return t
	}
	return model.InsightPattern
}

func normalizeSeverity(s string) model.InsightSeverity {
	switch sev := model.InsightSeverity(strings.ToLower(strings.TrimSpace(s))); sev {
	case model.SeverityLow, model.SeverityMedium, model.SeverityHigh, model.SeverityCritical:
		return sev
	}
	return model.SeverityLow
}

func nonEmpty(in []string) []string {
	out := []string{}
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
