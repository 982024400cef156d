package recorder

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"symptomtriage/internal/model"
)

func openTemp(t *testing.T) *SQLRecorder {
	t.Helper()
	r, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "triage.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open("mysql", "x"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestRecordAndListAssessments(t *testing.T) {
	r := openTemp(t)
	ctx := context.Background()
	temp := 101.5

	older := &Assessment{
		UserID:    "u1",
		CreatedAt: time.UnixMilli(1_700_000_000_000),
		Report:    model.SymptomReport{SymptomName: "headache", Severity: 4, Temperature: &temp},
		Result: model.TriageResult{
			UrgencyLevel:   model.UrgencySelfCare,
			Score:          14,
			Reasoning:      []string{"Base severity score: 4/10"},
			RedFlags:       []string{},
			Recommendation: "rest",
		},
	}
	newer := &Assessment{
		UserID:    "u1",
		CreatedAt: time.UnixMilli(1_700_000_100_000),
		Status:    model.StatusWorsening,
		Report:    model.SymptomReport{SymptomName: "chest pain", Severity: 9},
		Result: model.TriageResult{
			UrgencyLevel: model.UrgencyEmergency,
			Score:        84,
			Reasoning:    []string{"a", "b"},
			RedFlags:     []string{"chest pain"},
			AIInsights:   "see a doctor",
		},
	}
	other := &Assessment{UserID: "u2", Report: model.SymptomReport{SymptomName: "rash", Severity: 2}}

	for _, a := range []*Assessment{older, newer, other} {
		if err := r.RecordAssessment(ctx, a); err != nil {
			t.Fatalf("RecordAssessment: %v", err)
		}
	}
	if older.Status != model.StatusActive {
		t.Errorf("default status = %q, want ACTIVE", older.Status)
	}

	got, err := r.ListAssessments(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("ListAssessments: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d assessments, want 2", len(got))
	}
	if diff := cmp.Diff(*newer, got[0]); diff != "" {
		t.Errorf("newest assessment mismatch (-want +got):\n%s", diff)
	}
	if got[1].Report.Temperature == nil || *got[1].Report.Temperature != temp {
		t.Errorf("temperature not round-tripped: %+v", got[1].Report.Temperature)
	}

	limited, err := r.ListAssessments(ctx, "", 1)
	if err != nil {
		t.Fatalf("ListAssessments all: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limit ignored: got %d", len(limited))
	}

	users, err := r.Users(ctx)
	if err != nil {
		t.Fatalf("Users: %v", err)
	}
	if diff := cmp.Diff([]string{"u1", "u2"}, users); diff != "" {
		t.Errorf("users mismatch (-want +got):\n%s", diff)
	}
}

func TestRecentSymptoms(t *testing.T) {
	r := openTemp(t)
	ctx := context.Background()
	at := time.UnixMilli(1_700_000_000_000)
	if err := r.RecordAssessment(ctx, &Assessment{
		UserID:    "u1",
		CreatedAt: at,
		Status:    model.StatusImproving,
		Report:    model.SymptomReport{SymptomName: "back pain", Severity: 5, BodyLocation: "lower back"},
	}); err != nil {
		t.Fatal(err)
	}

	got, err := r.RecentSymptoms(ctx, "u1", 5)
	if err != nil {
		t.Fatalf("RecentSymptoms: %v", err)
	}
	want := []model.HistoricalSymptom{{
		SymptomName:  "back pain",
		Severity:     5,
		StartedAt:    at,
		Status:       model.StatusImproving,
		BodyLocation: "lower back",
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordAndListInsights(t *testing.T) {
	r := openTemp(t)
	ctx := context.Background()
	in := []model.Insight{
		{
			Type:            model.InsightTrend,
			Title:           "Headaches increasing",
			Description:     "Frequency doubled",
			Severity:        model.SeverityHigh,
			RelatedSymptoms: []string{"headache"},
			Confidence:      0.8,
		},
	}
	if err := r.RecordInsights(ctx, "u1", in); err != nil {
		t.Fatalf("RecordInsights: %v", err)
	}
	if err := r.RecordInsights(ctx, "u1", nil); err != nil {
		t.Fatalf("RecordInsights(nil): %v", err)
	}

	got, err := r.ListInsights(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("ListInsights: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d insights, want 1", len(got))
	}
	if diff := cmp.Diff(in[0], got[0].Insight); diff != "" {
		t.Errorf("insight mismatch (-want +got):\n%s", diff)
	}
	if got[0].UserID != "u1" {
		t.Errorf("user = %q", got[0].UserID)
	}

	none, err := r.ListInsights(ctx, "nobody", 0)
	if err != nil || len(none) != 0 {
		t.Errorf("ListInsights(nobody) = %v, %v", none, err)
	}
}

func TestRebind(t *testing.T) {
	pg := &SQLRecorder{driver: DriverPostgres}
	if got := pg.rebind("a = ? AND b = ?"); got != "a = $1 AND b = $2" {
		t.Errorf("postgres rebind = %q", got)
	}
	lite := &SQLRecorder{driver: DriverSQLite}
	if got := lite.rebind("a = ?"); got != "a = ?" {
		t.Errorf("sqlite rebind = %q", got)
	}
}

func TestToHistorical_DefaultsStatus(t *testing.T) {
	got := ToHistorical([]Assessment{{Report: model.SymptomReport{SymptomName: "x"}}})
	if got[0].Status != model.StatusActive {
		t.Errorf("status = %q, want ACTIVE", got[0].Status)
	}
}
