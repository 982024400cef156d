package recorder

import (
	"context"
	"time"

	"github.com/google/uuid"

	"symptomtriage/internal/model"
)

// Assessment is one persisted triage run: the report that was submitted and
// the result it produced.
type Assessment struct {
	ID        uuid.UUID
	UserID    string
	CreatedAt time.Time
	Status    model.SymptomStatus
	Report    model.SymptomReport
	Result    model.TriageResult
}

// StoredInsight is a long-term insight with its owner and creation time.
type StoredInsight struct {
	ID        uuid.UUID
	UserID    string
	CreatedAt time.Time
	Insight   model.Insight
}

// Recorder persists assessments and insights. An empty userID in list calls
// means all users.
type Recorder interface {
	RecordAssessment(ctx context.Context, a *Assessment) error
	ListAssessments(ctx context.Context, userID string, limit int) ([]Assessment, error)
	RecentSymptoms(ctx context.Context, userID string, limit int) ([]model.HistoricalSymptom, error)
	RecordInsights(ctx context.Context, userID string, insights []model.Insight) error
	ListInsights(ctx context.Context, userID string, limit int) ([]StoredInsight, error)
	Users(ctx context.Context) ([]string, error)
	Close() error
}

// ToHistorical converts stored assessments to scorer history, preserving order.
func ToHistorical(as []Assessment) []model.HistoricalSymptom {
	out := make([]model.HistoricalSymptom, 0, len(as))
	for _, a := range as {
		status := a.Status
		if status == "" {
			status = model.StatusActive
		}
		out = append(out, model.HistoricalSymptom{
			SymptomName:  a.Report.SymptomName,
			Severity:     a.Report.Severity,
			StartedAt:    a.CreatedAt,
			Status:       status,
			BodyLocation: a.Report.BodyLocation,
		})
	}
	return out
}
