package assess

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"symptomtriage/internal/insight"
	"symptomtriage/internal/model"
	"symptomtriage/internal/triage"
)

// DefaultEnrichTimeout bounds the whole enrichment step.
const DefaultEnrichTimeout = 5 * time.Second

// Service is the triage orchestrator: rule-based scoring first, optional AI
// enrichment second.
type Service struct {
	scorer   *triage.Scorer
	enricher insight.Enricher
	timeout  time.Duration
}

// NewService wires a scorer and an enricher. A nil enricher means disabled;
// timeout <= 0 selects DefaultEnrichTimeout.
func NewService(scorer *triage.Scorer, enricher insight.Enricher, timeout time.Duration) *Service {
	if enricher == nil {
		enricher = insight.Disabled{}
	}
	if timeout <= 0 {
		timeout = DefaultEnrichTimeout
	}
	return &Service{scorer: scorer, enricher: enricher, timeout: timeout}
}

// AIEnabled reports whether enrichment will be attempted.
func (s *Service) AIEnabled() bool { return s.enricher.Enabled() }

// AssessSymptom always returns a complete result. Enrichment failures are
// logged and the rule-based result is returned unchanged.
func (s *Service) AssessSymptom(ctx context.Context, report model.SymptomReport, history []model.HistoricalSymptom) model.TriageResult {
	base := s.scorer.Assess(report, history)
	if !s.enricher.Enabled() {
		return base
	}

	e, err := s.enrich(ctx, report, base, history)
	if err != nil {
		log.Printf("[WARN] AI enrichment failed for %q, using rule-based result: %v", report.SymptomName, err)
		return base
	}
	return merge(base, e)
}

// enrichment is everything the AI step contributes.
type enrichment struct {
	insights       model.SymptomInsights
	recommendation string
}

func (s *Service) enrich(ctx context.Context, report model.SymptomReport, base model.TriageResult, history []model.HistoricalSymptom) (enrichment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		insights       model.SymptomInsights
		recommendation string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		defer recoverInto(&err)
		insights, err = s.enricher.SymptomInsights(gctx, report, history)
		return err
	})
	g.Go(func() (err error) {
		defer recoverInto(&err)
		recommendation = s.enricher.EnhancedRecommendation(gctx, report, base.UrgencyLevel, base.Score, history)
		return nil
	})

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			return enrichment{}, err
		}
		// The enricher may swallow a cancelled call into an empty value.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return enrichment{}, ctxErr
		}
		return enrichment{insights: insights, recommendation: recommendation}, nil
	case <-ctx.Done():
		// Do not wait for an enricher that ignores its context.
		return enrichment{}, ctx.Err()
	}
}

func recoverInto(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("enricher panic: %v", r)
	}
}

// merge adds AI output to base without touching the score, urgency level,
// red flags or rule-based reasoning.
func merge(base model.TriageResult, e enrichment) model.TriageResult {
	out := base.Clone()
	if e.recommendation != "" {
		out.Recommendation = base.Recommendation + "\n\nAI Insight: " + e.recommendation
	}
	out.AIInsights = e.insights.Insights
	out.PatternAnalysis = e.insights.PatternAnalysis
	for _, r := range e.insights.Recommendations {
		out.Reasoning = append(out.Reasoning, "AI Recommendation: "+r)
	}
	return out
}
