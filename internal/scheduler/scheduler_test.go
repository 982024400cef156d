package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"symptomtriage/internal/insight"
	"symptomtriage/internal/model"
	"symptomtriage/internal/recorder"
)

type fakeRecorder struct {
	recorder.NoopRecorder
	users    []string
	history  map[string][]model.HistoricalSymptom
	latest   []recorder.Assessment
	stored   map[string][]model.Insight
	usersErr error

	mu          sync.Mutex
	recordCalls map[string]int
}

func (f *fakeRecorder) Users(context.Context) ([]string, error) { return f.users, f.usersErr }

func (f *fakeRecorder) RecentSymptoms(_ context.Context, user string, _ int) ([]model.HistoricalSymptom, error) {
	return f.history[user], nil
}

func (f *fakeRecorder) ListAssessments(context.Context, string, int) ([]recorder.Assessment, error) {
	return f.latest, nil
}

func (f *fakeRecorder) RecordInsights(_ context.Context, user string, in []model.Insight) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recordCalls == nil {
		f.recordCalls = map[string]int{}
	}
	f.recordCalls[user]++
	if f.stored == nil {
		f.stored = map[string][]model.Insight{}
	}
	f.stored[user] = append(f.stored[user], in...)
	return nil
}

type fakeEnricher struct {
	insight.Disabled
	enabled  bool
	insights []model.Insight
	calls    int
}

func (f *fakeEnricher) Enabled() bool { return f.enabled }

func (f *fakeEnricher) LongTermPatterns(context.Context, []model.HistoricalSymptom, int, []string) []model.Insight {
	f.calls++
	return f.insights
}

type captureNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (c *captureNotifier) Notify(_ context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, text)
	return nil
}

func TestPatternsTask_StoresAndAlerts(t *testing.T) {
	rec := &fakeRecorder{
		users: []string{"u1", "u2"},
		history: map[string][]model.HistoricalSymptom{
			"u1": {{SymptomName: "headache", Severity: 6, Status: model.StatusActive}},
		},
	}
	enr := &fakeEnricher{enabled: true, insights: []model.Insight{
		{Type: model.InsightTrend, Title: "Rising headaches", Severity: model.SeverityHigh},
		{Type: model.InsightPattern, Title: "Morning onset", Severity: model.SeverityLow},
	}}
	n := &captureNotifier{}

	s := NewScheduler(context.Background(), enr, n, rec, 20)
	s.RunPatternsNow()

	if enr.calls != 1 {
		t.Errorf("LongTermPatterns calls = %d, want 1 (u2 has no history)", enr.calls)
	}
	if diff := cmp.Diff(enr.insights, rec.stored["u1"]); diff != "" {
		t.Errorf("stored insights mismatch (-want +got):\n%s", diff)
	}
	if len(n.msgs) != 1 || !strings.Contains(n.msgs[0], "Rising headaches") {
		t.Errorf("alerts = %v", n.msgs)
	}
}

// blockingEnricher holds LongTermPatterns until release is closed.
type blockingEnricher struct {
	insight.Disabled
	started chan struct{}
	release chan struct{}
}

func (b *blockingEnricher) Enabled() bool { return true }

func (b *blockingEnricher) LongTermPatterns(context.Context, []model.HistoricalSymptom, int, []string) []model.Insight {
	select {
	case b.started <- struct{}{}:
	default:
	}
	<-b.release
	return []model.Insight{{Type: model.InsightPattern, Title: "Weekly headaches", Severity: model.SeverityLow}}
}

func TestPatternsCommand_SingleRunAtATime(t *testing.T) {
	rec := &fakeRecorder{
		users: []string{"u1"},
		history: map[string][]model.HistoricalSymptom{
			"u1": {{SymptomName: "headache", Severity: 4}},
		},
	}
	enr := &blockingEnricher{started: make(chan struct{}, 1), release: make(chan struct{})}
	s := NewScheduler(context.Background(), enr, nil, rec, 20)
	ctx := context.Background()

	if got := s.HandleCommand(ctx, "/patterns"); got != "Pattern analysis started." {
		t.Fatalf("first /patterns = %q", got)
	}
	select {
	case <-enr.started:
	case <-time.After(2 * time.Second):
		t.Fatal("pattern analysis did not start")
	}

	if got := s.HandleCommand(ctx, "/patterns"); got != "Pattern analysis is already running." {
		t.Errorf("second /patterns = %q", got)
	}
	if s.RunPatternsNow() {
		t.Error("RunPatternsNow ran while a pass was in progress")
	}

	close(enr.release)
	deadline := time.Now().Add(2 * time.Second)
	for s.running.Load() {
		if time.Now().After(deadline) {
			t.Fatal("pattern analysis did not finish")
		}
		time.Sleep(5 * time.Millisecond)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if diff := cmp.Diff(map[string]int{"u1": 1}, rec.recordCalls); diff != "" {
		t.Errorf("RecordInsights calls mismatch (-want +got):\n%s", diff)
	}
}

func TestPatternsTask_SkipsWhenDisabled(t *testing.T) {
	rec := &fakeRecorder{usersErr: errors.New("should not be called")}
	enr := &fakeEnricher{enabled: false}
	s := NewScheduler(context.Background(), enr, nil, rec, 20)
	s.RunPatternsNow()
	if enr.calls != 0 {
		t.Errorf("LongTermPatterns called %d times while disabled", enr.calls)
	}
}

func TestAnalyzeUser_NoInsights(t *testing.T) {
	rec := &fakeRecorder{history: map[string][]model.HistoricalSymptom{"u1": {{SymptomName: "rash"}}}}
	s := NewScheduler(context.Background(), &fakeEnricher{enabled: true}, nil, rec, 20)
	n, err := s.AnalyzeUser(context.Background(), "u1")
	if err != nil || n != 0 {
		t.Errorf("AnalyzeUser = %d, %v", n, err)
	}
	if len(rec.stored) != 0 {
		t.Errorf("stored = %v", rec.stored)
	}
}

func TestRegisterAll_RejectsBadExpression(t *testing.T) {
	s := NewScheduler(context.Background(), insight.Disabled{}, nil, &fakeRecorder{}, 20)
	if err := s.RegisterAll("not a cron"); err == nil {
		t.Error("expected error for invalid cron expression")
	}
	if err := s.RegisterAll("0 0 6 * * *"); err != nil {
		t.Errorf("RegisterAll: %v", err)
	}
}

func TestHandleCommand(t *testing.T) {
	rec := &fakeRecorder{latest: []recorder.Assessment{{
		UserID: "u1",
		Report: model.SymptomReport{SymptomName: "cough", Severity: 3},
		Result: model.TriageResult{UrgencyLevel: model.UrgencySelfCare, Score: 8},
	}}}
	s := NewScheduler(context.Background(), insight.Disabled{}, nil, rec, 20)
	ctx := context.Background()

	if got := s.HandleCommand(ctx, "/latest u1"); !strings.Contains(got, "cough (3/10)") {
		t.Errorf("/latest = %q", got)
	}
	if got := s.HandleCommand(ctx, "/help"); !strings.Contains(got, "/latest") {
		t.Errorf("/help = %q", got)
	}
	if got := s.HandleCommand(ctx, "   "); got != "" {
		t.Errorf("blank = %q", got)
	}
}
