package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync/atomic"

	"github.com/robfig/cron/v3"

	"symptomtriage/internal/insight"
	"symptomtriage/internal/model"
	"symptomtriage/internal/notifier"
	"symptomtriage/internal/recorder"
)

const latestLimit = 5

// Scheduler manages the cron tasks and answers operator commands.
type Scheduler struct {
	Cron         *cron.Cron
	Enricher     insight.Enricher
	Notifier     notifier.Notifier
	Recorder     recorder.Recorder
	HistoryLimit int
	Ctx          context.Context

	// running is set while a pattern analysis pass is in progress.
	running atomic.Bool
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, enr insight.Enricher, n notifier.Notifier, rec recorder.Recorder, historyLimit int) *Scheduler {
	if n == nil {
		n = notifier.Noop{}
	}
	return &Scheduler{
		Cron:         cron.New(cron.WithSeconds()),
		Enricher:     enr,
		Notifier:     n,
		Recorder:     rec,
		HistoryLimit: historyLimit,
		Ctx:          ctx,
	}
}

// RegisterAll registers the long-term pattern analysis task.
func (s *Scheduler) RegisterAll(patternsCron string) error {
	if _, err := s.Cron.AddFunc(patternsCron, s.patternsTask); err != nil {
		return fmt.Errorf("register patterns task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunPatternsNow executes the pattern task immediately (for manual trigger / RUN_ON_START).
// It returns false without doing anything when a pass is already running.
func (s *Scheduler) RunPatternsNow() bool {
	if !s.running.CompareAndSwap(false, true) {
		log.Println("[WARN] pattern analysis already running, skipping")
		return false
	}
	s.runPatterns()
	return true
}

func (s *Scheduler) patternsTask() {
	s.RunPatternsNow()
}

// runPatterns does one pass. The caller must have set running.
func (s *Scheduler) runPatterns() {
	defer s.running.Store(false)

	if s.Enricher == nil || !s.Enricher.Enabled() {
		log.Println("[INFO] AI enrichment disabled, skipping pattern analysis")
		return
	}
	log.Println("[INFO] running pattern analysis")

	users, err := s.Recorder.Users(s.Ctx)
	if err != nil {
		log.Printf("[ERROR] list users: %v", err)
		return
	}

	total := 0
	for _, user := range users {
		if s.Ctx.Err() != nil {
			return
		}
		n, err := s.AnalyzeUser(s.Ctx, user)
		if err != nil {
			log.Printf("[ERROR] pattern analysis for %s: %v", user, err)
			continue
		}
		total += n
	}
	log.Printf("[INFO] pattern analysis done: %d users, %d insights", len(users), total)
}

// AnalyzeUser runs long-term analysis over one user's recent history, stores
// the insights and alerts on high or critical ones. It returns the number of
// insights produced.
func (s *Scheduler) AnalyzeUser(ctx context.Context, userID string) (int, error) {
	history, err := s.Recorder.RecentSymptoms(ctx, userID, s.HistoryLimit)
	if err != nil {
		return 0, fmt.Errorf("load history: %w", err)
	}
	if len(history) == 0 {
		return 0, nil
	}

	insights := s.Enricher.LongTermPatterns(ctx, history, 0, nil)
	if len(insights) == 0 {
		return 0, nil
	}
	if err := s.Recorder.RecordInsights(ctx, userID, insights); err != nil {
		return 0, fmt.Errorf("record insights: %w", err)
	}

	for _, in := range insights {
		if in.Severity == model.SeverityHigh || in.Severity == model.SeverityCritical {
			s.trySend(ctx, notifier.FormatInsight(userID, in))
		}
	}
	return len(insights), nil
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	switch fields[0] {
	case "/latest":
		user := ""
		if len(fields) > 1 {
			user = fields[1]
		}
		as, err := s.Recorder.ListAssessments(ctx, user, latestLimit)
		if err != nil {
			log.Printf("[ERROR] list assessments: %v", err)
			return "Could not load assessments."
		}
		return notifier.FormatLatest(as)
	case "/patterns":
		if !s.running.CompareAndSwap(false, true) {
			return "Pattern analysis is already running."
		}
		go s.runPatterns()
		return "Pattern analysis started."
	default:
		return "Available commands:\n• /latest [user_id]\n• /patterns\n• /help"
	}
}

func (s *Scheduler) trySend(ctx context.Context, text string) {
	if err := s.Notifier.Notify(ctx, text); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
