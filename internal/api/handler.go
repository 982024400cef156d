// Package api exposes the triage service over HTTP.
package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"symptomtriage/internal/assess"
	"symptomtriage/internal/model"
	"symptomtriage/internal/notifier"
	"symptomtriage/internal/recorder"
)

const (
	defaultListLimit = 20
	maxListLimit     = 200
	alertTimeout     = 2 * time.Minute
)

type Handler struct {
	svc          *assess.Service
	rec          recorder.Recorder
	alerts       notifier.Notifier
	historyLimit int
}

func NewHandler(svc *assess.Service, rec recorder.Recorder, alerts notifier.Notifier, historyLimit int) *Handler {
	if alerts == nil {
		alerts = notifier.Noop{}
	}
	if historyLimit <= 0 {
		historyLimit = defaultListLimit
	}
	return &Handler{svc: svc, rec: rec, alerts: alerts, historyLimit: historyLimit}
}

// NewRouter builds the chi router with logging and panic recovery.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Route("/api", func(r chi.Router) {
		RegisterRoutes(r, h)
	})
	return r
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/health", h.Health)
	r.Post("/triage", h.Triage)
	r.Get("/users/{userID}/assessments", h.ListAssessments)
	r.Get("/users/{userID}/insights", h.ListInsights)
}

type TriageRequest struct {
	UserID string              `json:"user_id"`
	Status string              `json:"status"`
	Report model.SymptomReport `json:"report"`
}

// TriageResponse carries the result of one assessment. Saving is best-effort:
// Persisted is false when the assessment could not be stored, and its
// AssessmentID will not be found by later lookups.
type TriageResponse struct {
	AssessmentID string             `json:"assessment_id"`
	CreatedAt    time.Time          `json:"created_at"`
	Persisted    bool               `json:"persisted"`
	Result       model.TriageResult `json:"result"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"ai_enabled": h.svc.AIEnabled(),
	})
}

func (h *Handler) Triage(w http.ResponseWriter, r *http.Request) {
	var req TriageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	uid, err := uuid.Parse(req.UserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user_id")
		return
	}
	status, err := model.ParseSymptomStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Report.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	history, err := h.rec.RecentSymptoms(r.Context(), uid.String(), h.historyLimit)
	if err != nil {
		// History only sharpens the score; assess without it.
		log.Printf("[WARN] load history for %s: %v", uid, err)
		history = nil
	}

	result := h.svc.AssessSymptom(r.Context(), req.Report, history)

	a := &recorder.Assessment{
		ID:        uuid.New(),
		UserID:    uid.String(),
		CreatedAt: time.Now(),
		Status:    status,
		Report:    req.Report,
		Result:    result,
	}
	persisted := true
	if err := h.rec.RecordAssessment(r.Context(), a); err != nil {
		log.Printf("[ERROR] record assessment %s: %v", a.ID, err)
		persisted = false
	}

	if result.UrgencyLevel.AtLeast(model.UrgencyUrgent) {
		go h.sendAlert(a)
	}

	writeJSON(w, http.StatusOK, TriageResponse{
		AssessmentID: a.ID.String(),
		CreatedAt:    a.CreatedAt,
		Persisted:    persisted,
		Result:       result,
	})
}

func (h *Handler) sendAlert(a *recorder.Assessment) {
	ctx, cancel := context.WithTimeout(context.Background(), alertTimeout)
	defer cancel()
	if err := h.alerts.Notify(ctx, notifier.FormatAlert(a)); err != nil {
		log.Printf("[ERROR] send alert for %s: %v", a.ID, err)
	}
}

func (h *Handler) ListAssessments(w http.ResponseWriter, r *http.Request) {
	uid, ok := userParam(w, r)
	if !ok {
		return
	}
	limit, ok := limitParam(w, r)
	if !ok {
		return
	}
	as, err := h.rec.ListAssessments(r.Context(), uid, limit)
	if err != nil {
		log.Printf("[ERROR] list assessments: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load assessments")
		return
	}

	out := make([]TriageResponse, 0, len(as))
	for _, a := range as {
		out = append(out, TriageResponse{AssessmentID: a.ID.String(), CreatedAt: a.CreatedAt, Persisted: true, Result: a.Result})
	}
	writeJSON(w, http.StatusOK, out)
}

type insightResponse struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Insight   model.Insight `json:"insight"`
}

func (h *Handler) ListInsights(w http.ResponseWriter, r *http.Request) {
	uid, ok := userParam(w, r)
	if !ok {
		return
	}
	limit, ok := limitParam(w, r)
	if !ok {
		return
	}
	ins, err := h.rec.ListInsights(r.Context(), uid, limit)
	if err != nil {
		log.Printf("[ERROR] list insights: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load insights")
		return
	}

	out := make([]insightResponse, 0, len(ins))
	for _, s := range ins {
		out = append(out, insightResponse{ID: s.ID.String(), CreatedAt: s.CreatedAt, Insight: s.Insight})
	}
	writeJSON(w, http.StatusOK, out)
}

func userParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	uid, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return "", false
	}
	return uid.String(), true
}

func limitParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return defaultListLimit, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		writeError(w, http.StatusBadRequest, "limit must be a positive integer")
		return 0, false
	}
	if n > maxListLimit {
		n = maxListLimit
	}
	return n, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[WARN] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
