package assess

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"symptomtriage/internal/insight"
	"symptomtriage/internal/model"
	"symptomtriage/internal/triage"
)

type stubEnricher struct {
	enabled  bool
	insights model.SymptomInsights
	err      error
	rec      string
	panicOn  bool
	delay    time.Duration
}

func (s *stubEnricher) Enabled() bool { return s.enabled }

func (s *stubEnricher) SymptomInsights(ctx context.Context, _ model.SymptomReport, _ []model.HistoricalSymptom) (model.SymptomInsights, error) {
	if s.panicOn {
		panic("provider exploded")
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.insights, s.err
}

func (s *stubEnricher) EnhancedRecommendation(context.Context, model.SymptomReport, model.UrgencyLevel, int, []model.HistoricalSymptom) string {
	return s.rec
}

func (s *stubEnricher) LongTermPatterns(context.Context, []model.HistoricalSymptom, int, []string) []model.Insight {
	return nil
}

var headache = model.SymptomReport{SymptomName: "Persistent headache", Severity: 6, Frequency: "constant"}

func TestAssessSymptom_DisabledReturnsBase(t *testing.T) {
	scorer := triage.NewScorer(nil)
	svc := NewService(scorer, insight.Disabled{}, 0)
	got := svc.AssessSymptom(context.Background(), headache, nil)
	if diff := cmp.Diff(scorer.Assess(headache, nil), got); diff != "" {
		t.Errorf("disabled enrichment must return base result (-want +got):\n%s", diff)
	}
	if svc.AIEnabled() {
		t.Error("AIEnabled should be false")
	}
}

func TestAssessSymptom_MergesAdditively(t *testing.T) {
	scorer := triage.NewScorer(nil)
	base := scorer.Assess(headache, nil)
	svc := NewService(scorer, &stubEnricher{
		enabled: true,
		insights: model.SymptomInsights{
			Insights:        "Often linked to stress or dehydration.",
			PatternAnalysis: "No prior episodes.",
			Recommendations: []string{"Drink water", "Limit screen time"},
			Confidence:      0.8,
		},
		rec: "Try a cold compress on your forehead.",
	}, time.Second)

	got := svc.AssessSymptom(context.Background(), headache, nil)

	if got.Score != base.Score || got.UrgencyLevel != base.UrgencyLevel {
		t.Errorf("score/urgency changed: %d/%s -> %d/%s", base.Score, base.UrgencyLevel, got.Score, got.UrgencyLevel)
	}
	if diff := cmp.Diff(base.RedFlags, got.RedFlags); diff != "" {
		t.Errorf("red flags changed:\n%s", diff)
	}
	wantReasoning := append(append([]string{}, base.Reasoning...), "AI Recommendation: Drink water", "AI Recommendation: Limit screen time")
	if diff := cmp.Diff(wantReasoning, got.Reasoning); diff != "" {
		t.Errorf("reasoning mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(got.Recommendation, base.Recommendation) {
		t.Error("recommendation must keep the rule-based text first")
	}
	if !strings.HasSuffix(got.Recommendation, "AI Insight: Try a cold compress on your forehead.") {
		t.Errorf("missing AI Insight section:\n%s", got.Recommendation)
	}
	if got.AIInsights != "Often linked to stress or dehydration." || got.PatternAnalysis != "No prior episodes." {
		t.Errorf("unexpected AI fields %q / %q", got.AIInsights, got.PatternAnalysis)
	}
}

func TestAssessSymptom_MergeKeepsRedFlagsEncoding(t *testing.T) {
	scorer := triage.NewScorer(nil)
	base := scorer.Assess(headache, nil)
	svc := NewService(scorer, &stubEnricher{
		enabled:  true,
		insights: model.SymptomInsights{Insights: "x", Recommendations: []string{"Rest"}},
		rec:      "Stay hydrated.",
	}, time.Second)

	got := svc.AssessSymptom(context.Background(), headache, nil)

	before, err := json.Marshal(base.RedFlags)
	if err != nil {
		t.Fatal(err)
	}
	after, err := json.Marshal(got.RedFlags)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != "[]" || string(after) != string(before) {
		t.Errorf("red_flags encoding changed: base %s, merged %s", before, after)
	}
}

func TestAssessSymptom_NoAIInsightSectionWhenRecommendationEmpty(t *testing.T) {
	scorer := triage.NewScorer(nil)
	svc := NewService(scorer, &stubEnricher{enabled: true, insights: model.SymptomInsights{Insights: "x"}}, time.Second)
	got := svc.AssessSymptom(context.Background(), headache, nil)
	if strings.Contains(got.Recommendation, "AI Insight:") {
		t.Error("no AI Insight section expected")
	}
	if got.AIInsights != "x" {
		t.Errorf("expected aiInsights to be set, got %q", got.AIInsights)
	}
}

func TestAssessSymptom_GracefulDegradation(t *testing.T) {
	scorer := triage.NewScorer(nil)
	base := scorer.Assess(headache, nil)

	tests := []struct {
		name     string
		enricher *stubEnricher
		timeout  time.Duration
	}{
		{"error", &stubEnricher{enabled: true, err: errors.New("connection refused"), rec: "ignored"}, time.Second},
		{"panic", &stubEnricher{enabled: true, panicOn: true}, time.Second},
		{"timeout", &stubEnricher{enabled: true, delay: 500 * time.Millisecond, insights: model.SymptomInsights{Insights: "late"}}, 20 * time.Millisecond},
	}
	for _, tt := range tests {
		svc := NewService(scorer, tt.enricher, tt.timeout)
		start := time.Now()
		got := svc.AssessSymptom(context.Background(), headache, nil)
		if diff := cmp.Diff(base, got); diff != "" {
			t.Errorf("%s: expected base result (-want +got):\n%s", tt.name, diff)
		}
		if got.AIInsights != "" || got.PatternAnalysis != "" {
			t.Errorf("%s: AI fields must stay empty", tt.name)
		}
		if elapsed := time.Since(start); elapsed > 400*time.Millisecond {
			t.Errorf("%s: assessment took %v, should not wait for a slow enricher", tt.name, elapsed)
		}
	}
}

func TestAssessSymptom_CancelledCallerContext(t *testing.T) {
	scorer := triage.NewScorer(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := NewService(scorer, &stubEnricher{enabled: true, insights: model.SymptomInsights{Insights: "x"}}, time.Second)
	got := svc.AssessSymptom(ctx, headache, nil)
	if got.AIInsights != "" {
		t.Error("cancelled context should fall back to the base result")
	}
}

func TestMerge_DoesNotMutateBase(t *testing.T) {
	base := model.TriageResult{Reasoning: make([]string, 1, 8), RedFlags: []string{}}
	base.Reasoning[0] = "Base severity score: 3/10"
	merged := merge(base, enrichment{insights: model.SymptomInsights{Recommendations: []string{"Rest"}}})
	if len(merged.Reasoning) != 2 {
		t.Fatalf("expected 2 reasoning lines, got %v", merged.Reasoning)
	}
	if extended := base.Reasoning[:2]; extended[1] == "AI Recommendation: Rest" {
		t.Error("merge wrote into the base reasoning backing array")
	}
}

func TestNewService_NilEnricher(t *testing.T) {
	svc := NewService(triage.NewScorer(nil), nil, 0)
	if svc.AIEnabled() || svc.timeout != DefaultEnrichTimeout {
		t.Error("nil enricher should be disabled with default timeout")
	}
}
