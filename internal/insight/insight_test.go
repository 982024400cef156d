package insight

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"symptomtriage/internal/llm"
	"symptomtriage/internal/model"
)

type fakeGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeGenerator) Name() string { return "fake" }

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\": [1,2]}\n```", `{"a": [1,2]}`},
		{"prose", `Sure! Here is the analysis: {"a":"b"} Let me know if you need more.`, `{"a":"b"}`},
		{"skips broken", `{not json} then {"ok":true}`, `{"ok":true}`},
		{"array", `Result: [{"title":"x"}]`, `[{"title":"x"}]`},
	}
	for _, tt := range tests {
		got, err := ExtractJSON(tt.text)
		if err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
			continue
		}
		if string(got) != tt.want {
			t.Errorf("%s: got %s, want %s", tt.name, got, tt.want)
		}
	}

	if _, err := ExtractJSON("no json at all"); !errors.Is(err, ErrNoJSON) {
		t.Errorf("expected ErrNoJSON, got %v", err)
	}
	if got, err := ExtractJSON(`[1] {"a":1}`, '{'); err != nil || string(got) != `{"a":1}` {
		t.Errorf("object-only extraction got %s, %v", got, err)
	}
}

func TestParseSymptomInsights_WithProse(t *testing.T) {
	text := "Here is what I found:\n```json\n" + `{
  "insights": "Tension headaches are common with stress.",
  "patternAnalysis": "Occurs mostly on weekdays.",
  "recommendations": ["Hydrate", " ", "Take breaks"],
  "riskFactors": ["stress"],
  "confidence": 1.7
}` + "\n```\nHope this helps."

	got, err := ParseSymptomInsights(text)
	if err != nil {
		t.Fatal(err)
	}
	want := model.SymptomInsights{
		Insights:        "Tension headaches are common with stress.",
		PatternAnalysis: "Occurs mostly on weekdays.",
		Recommendations: []string{"Hydrate", "Take breaks"},
		RiskFactors:     []string{"stress"},
		Confidence:      1,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSymptomInsights_GarbageYieldsFallback(t *testing.T) {
	e := NewLLMEnricher(&fakeGenerator{reply: "I'm sorry, I can't help with that."})
	got, err := e.SymptomInsights(context.Background(), model.SymptomReport{SymptomName: "Cough", Severity: 3}, nil)
	if err != nil {
		t.Fatalf("parse failure must not return an error, got %v", err)
	}
	if diff := cmp.Diff(FallbackInsights(), got); diff != "" {
		t.Errorf("expected fallback (-want +got):\n%s", diff)
	}
	if got.Confidence != 0.5 {
		t.Errorf("fallback confidence = %v", got.Confidence)
	}
}

func TestSymptomInsights_ProviderErrorReturnsFallbackAndError(t *testing.T) {
	e := NewLLMEnricher(&fakeGenerator{err: llm.ErrRateLimited})
	got, err := e.SymptomInsights(context.Background(), model.SymptomReport{SymptomName: "Cough", Severity: 3}, nil)
	if !errors.Is(err, llm.ErrRateLimited) {
		t.Errorf("expected wrapped provider error, got %v", err)
	}
	if got.Confidence != 0.5 {
		t.Errorf("expected fallback value alongside error")
	}
}

func TestSymptomInsights_PromptLimitsHistory(t *testing.T) {
	gen := &fakeGenerator{reply: `{"insights":"ok"}`}
	e := NewLLMEnricher(gen)
	var history []model.HistoricalSymptom
	for i := 0; i < 15; i++ {
		history = append(history, model.HistoricalSymptom{SymptomName: "Episode", Severity: 2, Status: model.StatusResolved, StartedAt: time.Now()})
	}
	temp := 100.4
	got, err := e.SymptomInsights(context.Background(), model.SymptomReport{SymptomName: "Cough", Severity: 3, Temperature: &temp}, history)
	if err != nil {
		t.Fatal(err)
	}
	if got.Insights != "ok" || got.Confidence != 0.5 {
		t.Errorf("unexpected insights %+v", got)
	}
	prompt := gen.prompts[0]
	if n := strings.Count(prompt, "- Episode"); n != maxPromptHistory {
		t.Errorf("expected %d history lines in prompt, got %d", maxPromptHistory, n)
	}
	if !strings.Contains(prompt, "Temperature: 100.4°F") {
		t.Error("prompt should include reported vitals")
	}
}

func TestEnhancedRecommendation(t *testing.T) {
	e := NewLLMEnricher(&fakeGenerator{reply: "  Rest in a dark room.  "})
	got := e.EnhancedRecommendation(context.Background(), model.SymptomReport{SymptomName: "Migraine"}, model.UrgencySelfCare, 4, nil)
	if got != "Rest in a dark room." {
		t.Errorf("got %q", got)
	}

	failing := NewLLMEnricher(&fakeGenerator{err: errors.New("network down")})
	if got := failing.EnhancedRecommendation(context.Background(), model.SymptomReport{}, model.UrgencyUrgent, 45, nil); got != "" {
		t.Errorf("expected empty string on failure, got %q", got)
	}
}

func TestLongTermPatterns(t *testing.T) {
	reply := `Analysis follows.
[
  {"type":"trend","title":"Rising headache severity","description":"Severity increased over 3 weeks.","severity":"HIGH","relatedSymptoms":["Headache"],"recommendations":["See a neurologist"],"confidence":0.8},
  {"type":"weird","title":"Sleep","severity":"unknown"},
  {"type":"pattern","title":"   "}
]`
	gen := &fakeGenerator{reply: reply}
	e := NewLLMEnricher(gen)
	history := []model.HistoricalSymptom{{SymptomName: "Headache", Severity: 5, Status: model.StatusWorsening}}

	got := e.LongTermPatterns(context.Background(), history, 42, []string{"asthma"})
	want := []model.Insight{
		{
			Type: model.InsightTrend, Title: "Rising headache severity", Description: "Severity increased over 3 weeks.",
			Severity: model.SeverityHigh, RelatedSymptoms: []string{"Headache"}, Recommendations: []string{"See a neurologist"},
			Confidence: 0.8,
		},
		{
			Type: model.InsightPattern, Title: "Sleep", Severity: model.SeverityLow,
			RelatedSymptoms: []string{}, Recommendations: []string{}, Confidence: 0.5,
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(gen.prompts[0], "Patient age: 42") || !strings.Contains(gen.prompts[0], "asthma") {
		t.Error("prompt should include age and conditions")
	}
}

func TestLongTermPatterns_WrappedObject(t *testing.T) {
	got, err := ParseInsights(`{"insights":[{"type":"risk_factor","title":"Smoking","severity":"critical"}]}`)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Type != model.InsightRiskFactor || got[0].Severity != model.SeverityCritical {
		t.Errorf("unexpected %+v", got)
	}
}

func TestLongTermPatterns_EmptyAndFailures(t *testing.T) {
	gen := &fakeGenerator{reply: `[]`}
	e := NewLLMEnricher(gen)
	if got := e.LongTermPatterns(context.Background(), nil, 0, nil); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
	if len(gen.prompts) != 0 {
		t.Error("empty input must not call the provider")
	}

	history := []model.HistoricalSymptom{{SymptomName: "Cough"}}
	if got := NewLLMEnricher(&fakeGenerator{err: errors.New("boom")}).LongTermPatterns(context.Background(), history, 0, nil); got != nil {
		t.Errorf("expected nil on provider error, got %v", got)
	}
	if got := NewLLMEnricher(&fakeGenerator{reply: "nothing useful"}).LongTermPatterns(context.Background(), history, 0, nil); got != nil {
		t.Errorf("expected nil on garbage, got %v", got)
	}
}

func TestNew_DisabledWithoutCredentials(t *testing.T) {
	if New(llm.Config{}).Enabled() {
		t.Error("no provider should be disabled")
	}
	if New(llm.Config{Provider: llm.ProviderClaude}).Enabled() {
		t.Error("missing API key should be disabled")
	}
	if !New(llm.Config{Provider: llm.ProviderClaude, APIKey: "k"}).Enabled() {
		t.Error("configured provider should be enabled")
	}
	if NewLLMEnricher(nil).Enabled() {
		t.Error("nil generator should be disabled")
	}
}

func TestDisabled(t *testing.T) {
	var d Disabled
	got, err := d.SymptomInsights(context.Background(), model.SymptomReport{}, nil)
	if err != nil || got.Confidence != 0.5 {
		t.Errorf("unexpected %+v, %v", got, err)
	}
	if d.EnhancedRecommendation(context.Background(), model.SymptomReport{}, model.UrgencyEmergency, 90, nil) != "" {
		t.Error("expected empty recommendation")
	}
	if d.LongTermPatterns(context.Background(), []model.HistoricalSymptom{{SymptomName: "x"}}, 0, nil) != nil {
		t.Error("expected nil insights")
	}
}
