package recorder

import (
	"context"

	"symptomtriage/internal/model"
)

// NoopRecorder is used when no database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordAssessment(context.Context, *Assessment) error { return nil }
func (n *NoopRecorder) ListAssessments(context.Context, string, int) ([]Assessment, error) {
	return nil, nil
}
func (n *NoopRecorder) RecentSymptoms(context.Context, string, int) ([]model.HistoricalSymptom, error) {
	return nil, nil
}
func (n *NoopRecorder) RecordInsights(context.Context, string, []model.Insight) error { return nil }
func (n *NoopRecorder) ListInsights(context.Context, string, int) ([]StoredInsight, error) {
	return nil, nil
}
func (n *NoopRecorder) Users(context.Context) ([]string, error) { return nil, nil }
func (n *NoopRecorder) Close() error                            { return nil }
