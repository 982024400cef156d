package recorder

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"symptomtriage/internal/model"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// SQLRecorder persists to SQLite or Postgres through database/sql.
type SQLRecorder struct {
	db     *sql.DB
	driver string
	mu     sync.Mutex
}

// Open connects to the database and creates the schema if needed.
func Open(driver, dsn string) (*SQLRecorder, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if driver == DriverSQLite {
		if dir := filepath.Dir(dsn); dir != "." && !strings.HasPrefix(dsn, "file:") {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create data dir: %w", err)
			}
		}
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("set WAL mode: %w", err)
		}
	} else if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	r := &SQLRecorder{db: db, driver: driver}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] %s recorder opened", driver)
	return r, nil
}

// rebind rewrites ? placeholders to $n for postgres.
func (r *SQLRecorder) rebind(query string) string {
	if r.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

func (r *SQLRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS assessments (
			id               TEXT PRIMARY KEY,
			user_id          TEXT NOT NULL,
			created_at       BIGINT NOT NULL,
			symptom_name     TEXT NOT NULL,
			severity         INTEGER NOT NULL,
			body_location    TEXT,
			status           TEXT NOT NULL,
			report_json      TEXT NOT NULL,
			urgency_level    TEXT NOT NULL,
			score            INTEGER NOT NULL,
			reasoning_json   TEXT NOT NULL,
			red_flags_json   TEXT NOT NULL,
			recommendation   TEXT NOT NULL,
			ai_insights      TEXT,
			pattern_analysis TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_assessments_user_ts ON assessments(user_id, created_at)`,

		`CREATE TABLE IF NOT EXISTS insights (
			id           TEXT PRIMARY KEY,
			user_id      TEXT NOT NULL,
			created_at   BIGINT NOT NULL,
			type         TEXT NOT NULL,
			title        TEXT NOT NULL,
			severity     TEXT NOT NULL,
			confidence   DOUBLE PRECISION,
			payload_json TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_insights_user_ts ON insights(user_id, created_at)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLRecorder) RecordAssessment(ctx context.Context, a *Assessment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	if a.Status == "" {
		a.Status = model.StatusActive
	}
	report, err := json.Marshal(a.Report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	reasoning, err := json.Marshal(a.Result.Reasoning)
	if err != nil {
		return fmt.Errorf("marshal reasoning: %w", err)
	}
	redFlags, err := json.Marshal(a.Result.RedFlags)
	if err != nil {
		return fmt.Errorf("marshal red flags: %w", err)
	}

	_, err = r.db.ExecContext(ctx, r.rebind(`INSERT INTO assessments
		(id, user_id, created_at, symptom_name, severity, body_location, status, report_json,
		 urgency_level, score, reasoning_json, red_flags_json, recommendation, ai_insights, pattern_analysis)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`),
		a.ID.String(), a.UserID, a.CreatedAt.UnixMilli(), a.Report.SymptomName, a.Report.Severity,
		a.Report.BodyLocation, string(a.Status), string(report),
		string(a.Result.UrgencyLevel), a.Result.Score, string(reasoning), string(redFlags),
		a.Result.Recommendation, a.Result.AIInsights, a.Result.PatternAnalysis,
	)
	if err != nil {
		return fmt.Errorf("insert assessment: %w", err)
	}
	return nil
}

func (r *SQLRecorder) ListAssessments(ctx context.Context, userID string, limit int) ([]Assessment, error) {
	query := `SELECT id, user_id, created_at, status, report_json, urgency_level, score,
		reasoning_json, red_flags_json, recommendation, ai_insights, pattern_analysis
		FROM assessments`
	var args []any
	if userID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, r.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query assessments: %w", err)
	}
	defer rows.Close()

	var out []Assessment
	for rows.Next() {
		var (
			a                           Assessment
			id, status, report, level   string
			reasoning, redFlags         string
			createdAt                   int64
			aiInsights, patternAnalysis sql.NullString
		)
		if err := rows.Scan(&id, &a.UserID, &createdAt, &status, &report, &level, &a.Result.Score,
			&reasoning, &redFlags, &a.Result.Recommendation, &aiInsights, &patternAnalysis); err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		if a.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse assessment id %q: %w", id, err)
		}
		a.CreatedAt = time.UnixMilli(createdAt)
		a.Status = model.SymptomStatus(status)
		a.Result.UrgencyLevel = model.UrgencyLevel(level)
		a.Result.AIInsights = aiInsights.String
		a.Result.PatternAnalysis = patternAnalysis.String
		if err := json.Unmarshal([]byte(report), &a.Report); err != nil {
			return nil, fmt.Errorf("decode report %s: %w", id, err)
		}
		if err := json.Unmarshal([]byte(reasoning), &a.Result.Reasoning); err != nil {
			return nil, fmt.Errorf("decode reasoning %s: %w", id, err)
		}
		if err := json.Unmarshal([]byte(redFlags), &a.Result.RedFlags); err != nil {
			return nil, fmt.Errorf("decode red flags %s: %w", id, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *SQLRecorder) RecentSymptoms(ctx context.Context, userID string, limit int) ([]model.HistoricalSymptom, error) {
	as, err := r.ListAssessments(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	return ToHistorical(as), nil
}

func (r *SQLRecorder) RecordInsights(ctx context.Context, userID string, insights []model.Insight) error {
	if len(insights) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UnixMilli()
	stmt := r.rebind(`INSERT INTO insights
		(id, user_id, created_at, type, title, severity, confidence, payload_json)
		VALUES (?,?,?,?,?,?,?,?)`)
	for _, in := range insights {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal insight: %w", err)
		}
		if _, err := tx.ExecContext(ctx, stmt, uuid.NewString(), userID, now,
			string(in.Type), in.Title, string(in.Severity), in.Confidence, string(payload)); err != nil {
			return fmt.Errorf("insert insight: %w", err)
		}
	}
	return tx.Commit()
}

func (r *SQLRecorder) ListInsights(ctx context.Context, userID string, limit int) ([]StoredInsight, error) {
	query := `SELECT id, user_id, created_at, payload_json FROM insights`
	var args []any
	if userID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, r.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query insights: %w", err)
	}
	defer rows.Close()

	var out []StoredInsight
	for rows.Next() {
		var (
			s           StoredInsight
			id, payload string
			createdAt   int64
		)
		if err := rows.Scan(&id, &s.UserID, &createdAt, &payload); err != nil {
			return nil, fmt.Errorf("scan insight: %w", err)
		}
		if s.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse insight id %q: %w", id, err)
		}
		s.CreatedAt = time.UnixMilli(createdAt)
		if err := json.Unmarshal([]byte(payload), &s.Insight); err != nil {
			return nil, fmt.Errorf("decode insight %s: %w", id, err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLRecorder) Users(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT user_id FROM assessments ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *SQLRecorder) Close() error {
	log.Printf("[INFO] closing %s recorder", r.driver)
	return r.db.Close()
}
