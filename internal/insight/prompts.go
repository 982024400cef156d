package insight

import (
	"fmt"
	"strings"

	"symptomtriage/internal/model"
)

const (
	maxPromptHistory  = 10
	maxPatternHistory = 50
)

const symptomInsightsInstruction = `You are a careful health assistant helping a patient understand a symptom they logged.
You do not diagnose. Respond with a single JSON object and nothing else, using this shape:
{
  "insights": "2-3 sentences explaining what the symptom may indicate and what to watch for",
  "patternAnalysis": "1-2 sentences about patterns in the history, or empty if none",
  "recommendations": ["short actionable step", "..."],
  "riskFactors": ["risk factor", "..."],
  "confidence": 0.0
}`

const enhancedRecommendationInstruction = `You are a careful health assistant. A rule-based triage engine already classified the symptom below.
Do not change or question the urgency level. Add 1-2 sentences of specific, practical advice that complement it.
Respond with plain text only.`

const longTermPatternsInstruction = `You are a health data analyst reviewing a patient's symptom log over time.
Identify recurring patterns, trends, risk factors and recommendations. Respond with a JSON array and nothing else.
Each element must look like:
{
  "type": "pattern | trend | risk_factor | recommendation",
  "title": "short title",
  "description": "1-3 sentences",
  "severity": "low | medium | high | critical",
  "relatedSymptoms": ["symptom name"],
  "recommendations": ["short actionable step"],
  "confidence": 0.0
}`

func describeReport(b *strings.Builder, r model.SymptomReport) {
	fmt.Fprintf(b, "Symptom: %s\n", r.SymptomName)
	fmt.Fprintf(b, "Severity: %d/10\n", r.Severity)
	if r.BodyLocation != "" {
		fmt.Fprintf(b, "Location: %s\n", r.BodyLocation)
	}
	if r.Characteristic != "" {
		fmt.Fprintf(b, "Characteristic: %s\n", r.Characteristic)
	}
	if r.Frequency != "" {
		fmt.Fprintf(b, "Frequency: %s\n", r.Frequency)
	}
	if r.Temperature != nil {
		fmt.Fprintf(b, "Temperature: %.1f°F\n", *r.Temperature)
	}
	if r.HeartRate != nil {
		fmt.Fprintf(b, "Heart rate: %d bpm\n", *r.HeartRate)
	}
	if r.BloodPressure != "" {
		fmt.Fprintf(b, "Blood pressure: %s\n", r.BloodPressure)
	}
	if len(r.Triggers) > 0 {
		fmt.Fprintf(b, "Triggers: %s\n", strings.Join(r.Triggers, ", "))
	}
	if len(r.AlleviatingFactors) > 0 {
		fmt.Fprintf(b, "Alleviating factors: %s\n", strings.Join(r.AlleviatingFactors, ", "))
	}
	if len(r.AggravatingFactors) > 0 {
		fmt.Fprintf(b, "Aggravating factors: %s\n", strings.Join(r.AggravatingFactors, ", "))
	}
	if r.Notes != "" {
		fmt.Fprintf(b, "Notes: %s\n", r.Notes)
	}
}

func describeHistory(b *strings.Builder, history []model.HistoricalSymptom, limit int) {
	if len(history) == 0 {
		return
	}
	if len(history) > limit {
		history = history[:limit]
	}
	b.WriteString("\nRecent symptom history (most recent first):\n")
	for _, h := range history {
		fmt.Fprintf(b, "- %s, severity %d/10, %s, started %s", h.SymptomName, h.Severity, h.Status, h.StartedAt.Format("2006-01-02"))
		if h.EndedAt != nil {
			fmt.Fprintf(b, ", ended %s", h.EndedAt.Format("2006-01-02"))
		}
		if h.BodyLocation != "" {
			fmt.Fprintf(b, ", location %s", h.BodyLocation)
		}
		b.WriteString("\n")
	}
}

func buildSymptomInsightsPrompt(r model.SymptomReport, history []model.HistoricalSymptom) string {
	var b strings.Builder
	b.WriteString(symptomInsightsInstruction)
	b.WriteString("\n\n")
	describeReport(&b, r)
	describeHistory(&b, history, maxPromptHistory)
	return b.String()
}

func buildEnhancedRecommendationPrompt(r model.SymptomReport, level model.UrgencyLevel, score int, history []model.HistoricalSymptom) string {
	var b strings.Builder
	b.WriteString(enhancedRecommendationInstruction)
	b.WriteString("\n\n")
	describeReport(&b, r)
	fmt.Fprintf(&b, "Urgency level: %s\nTriage score: %d\n", level, score)
	describeHistory(&b, history, maxPromptHistory)
	return b.String()
}

func buildLongTermPatternsPrompt(symptoms []model.HistoricalSymptom, age int, conditions []string) string {
	var b strings.Builder
	b.WriteString(longTermPatternsInstruction)
	b.WriteString("\n\n")
	if age > 0 {
		fmt.Fprintf(&b, "Patient age: %d\n", age)
	}
	if len(conditions) > 0 {
		fmt.Fprintf(&b, "Known conditions: %s\n", strings.Join(conditions, ", "))
	}
	describeHistory(&b, symptoms, maxPatternHistory)
	return b.String()
}
