// Package insight provides optional AI enrichment of triage results.
//
// The rule-based score never depends on this package. Every method here
// degrades to a fixed, non-AI value when the provider is missing or fails.
package insight

import (
	"context"

	"symptomtriage/internal/model"
)

// Enricher is the narrow capability the orchestrator and scheduler depend on.
type Enricher interface {
	// Enabled reports whether a provider was configured at construction time.
	Enabled() bool

	// SymptomInsights asks for structured insight on one report. Unparseable
	// provider output yields FallbackInsights and a nil error. Provider
	// failures return FallbackInsights together with the error so callers can
	// tell "no enrichment" apart from "fallback enrichment".
	SymptomInsights(ctx context.Context, report model.SymptomReport, history []model.HistoricalSymptom) (model.SymptomInsights, error)

	// EnhancedRecommendation returns one or two sentences of extra advice, or
	// "" on any failure.
	EnhancedRecommendation(ctx context.Context, report model.SymptomReport, level model.UrgencyLevel, score int, history []model.HistoricalSymptom) string

	// LongTermPatterns analyzes a symptom history. It returns nil on failure
	// or empty input. age <= 0 means unknown.
	LongTermPatterns(ctx context.Context, symptoms []model.HistoricalSymptom, age int, conditions []string) []model.Insight
}

// FallbackInsights is returned whenever real insight is unavailable.
func FallbackInsights() model.SymptomInsights {
	return model.SymptomInsights{
		Insights: "AI insights are not available right now. Your symptom was assessed with the rule-based triage engine.",
		Recommendations: []string{
			"Monitor your symptoms closely",
			"Consult a healthcare provider if symptoms worsen",
			"Keep a symptom diary to track changes",
		},
		RiskFactors: []string{},
		Confidence:  0.5,
	}
}

// Disabled is the Enricher used when no provider is configured.
type Disabled struct{}

func (Disabled) Enabled() bool { return false }

func (Disabled) SymptomInsights(context.Context, model.SymptomReport, []model.HistoricalSymptom) (model.SymptomInsights, error) {
	return FallbackInsights(), nil
}

func (Disabled) EnhancedRecommendation(context.Context, model.SymptomReport, model.UrgencyLevel, int, []model.HistoricalSymptom) string {
	return ""
}

func (Disabled) LongTermPatterns(context.Context, []model.HistoricalSymptom, int, []string) []model.Insight {
	return nil
}
