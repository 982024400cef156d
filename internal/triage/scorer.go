package triage

import (
	"fmt"

	"symptomtriage/internal/model"
	"symptomtriage/internal/recommend"
	"symptomtriage/internal/vocabulary"
)

// Scorer is the rule-based triage engine. It is safe for concurrent use.
type Scorer struct {
	tables  *vocabulary.Tables
	matcher vocabulary.Matcher
}

// NewScorer builds a scorer over tables using case-insensitive containment.
// A nil tables argument selects the built-in vocabulary.
func NewScorer(tables *vocabulary.Tables) *Scorer {
	if tables == nil {
		tables = vocabulary.Default()
	}
	return &Scorer{tables: tables, matcher: vocabulary.ContainsMatcher{}}
}

// WithMatcher returns a copy of s that matches keywords with m. A nil m
// selects case-insensitive containment.
func (s *Scorer) WithMatcher(m vocabulary.Matcher) *Scorer {
	if m == nil {
		m = vocabulary.ContainsMatcher{}
	}
	return &Scorer{tables: s.tables, matcher: m}
}

// Assess scores a report. It performs no I/O and never fails; optional fields
// that are absent or malformed contribute nothing.
func (s *Scorer) Assess(report model.SymptomReport, history []model.HistoricalSymptom) model.TriageResult {
	score := report.Severity
	reasoning := []string{fmt.Sprintf("Base severity score: %d/10", report.Severity)}
	var redFlags []string

	add := func(f factor) {
		score += f.Points
		reasoning = append(reasoning, f.Reason)
		if f.RedFlag != "" {
			redFlags = append(redFlags, f.RedFlag)
		}
	}

	// Keyword tables
	for _, h := range s.tables.Scan(s.matcher, report.SymptomName, report.Notes) {
		add(keywordFactor(h))
	}

	// Vital signs, severity, characteristic, frequency
	rules := []func(*model.SymptomReport) (factor, bool){
		scoreTemperature,
		scoreHeartRate,
		scoreBloodPressure,
		scoreSeverity,
		scoreCharacteristic,
		scoreFrequency,
	}
	for _, rule := range rules {
		if f, ok := rule(&report); ok {
			add(f)
		}
	}

	// History
	if len(history) > 0 {
		if f, ok := scoreRecurrence(&report, history); ok {
			add(f)
		}
		if f, ok := scoreWorseningTrend(history); ok {
			add(f)
		}
	}

	level := mapUrgency(score, len(redFlags))
	if redFlags == nil {
		redFlags = []string{}
	}
	return model.TriageResult{
		UrgencyLevel:   level,
		Score:          score,
		Reasoning:      reasoning,
		Recommendation: recommend.Render(level, report.SymptomName, score),
		RedFlags:       redFlags,
	}
}

func keywordFactor(h vocabulary.Hit) factor {
	var f factor
	switch h.Category {
	case vocabulary.CategoryCritical:
		f = withPoints(h.Points, "Critical symptom detected: %s", h.Keyword)
	case vocabulary.CategoryHighPriority:
		f = withPoints(h.Points, "High-priority symptom detected: %s", h.Keyword)
	case vocabulary.CategoryCombination:
		f = withPoints(h.Points, "Emergency combination detected: %s + %s", h.Keyword, h.Second)
	default:
		f = withPoints(h.Points, "Moderate symptom detected: %s", h.Keyword)
	}
	if h.RedFlag() {
		f.RedFlag = h.Label()
	}
	return f
}
