package model

// SymptomInsights is the structured enrichment for a single report.
type SymptomInsights struct {
	Insights        string   `json:"insights"`
	PatternAnalysis string   `json:"pattern_analysis,omitempty"`
	Recommendations []string `json:"recommendations"`
	RiskFactors     []string `json:"risk_factors"`
	Confidence      float64  `json:"confidence"` // 0..1
}

// InsightType categorizes a long-term insight.
type InsightType string

const (
	InsightPattern        InsightType = "pattern"
	InsightTrend          InsightType = "trend"
	InsightRiskFactor     InsightType = "risk_factor"
	InsightRecommendation InsightType = "recommendation"
)

// InsightSeverity grades a long-term insight.
type InsightSeverity string

const (
	SeverityLow      InsightSeverity = "low"
	SeverityMedium   InsightSeverity = "medium"
	SeverityHigh     InsightSeverity = "high"
	SeverityCritical InsightSeverity = "critical"
)

// Insight is one finding from long-horizon pattern analysis.
type Insight struct {
	Type            InsightType     `json:"type"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Severity        InsightSeverity `json:"severity"`
	RelatedSymptoms []string        `json:"related_symptoms"`
	Recommendations []string        `json:"recommendations"`
	Confidence      float64         `json:"confidence"`
	Metadata        map[string]any  `json:"metadata,omitempty"`
}
