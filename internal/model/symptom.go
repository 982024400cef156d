package model

import (
	"fmt"
	"strings"
	"time"
)

// SymptomStatus tracks how a logged symptom is evolving.
type SymptomStatus string

const (
	StatusActive     SymptomStatus = "ACTIVE"
	StatusImproving  SymptomStatus = "IMPROVING"
	StatusWorsening  SymptomStatus = "WORSENING"
	StatusResolved   SymptomStatus = "RESOLVED"
	StatusMonitoring SymptomStatus = "MONITORING"
)

// ParseSymptomStatus maps a case-insensitive name to a SymptomStatus.
// An empty string yields StatusActive.
func ParseSymptomStatus(s string) (SymptomStatus, error) {
	switch SymptomStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case "", StatusActive:
		return StatusActive, nil
	case StatusImproving:
		return StatusImproving, nil
	case StatusWorsening:
		return StatusWorsening, nil
	case StatusResolved:
		return StatusResolved, nil
	case StatusMonitoring:
		return StatusMonitoring, nil
	}
	return "", fmt.Errorf("unknown symptom status %q", s)
}

// SymptomReport is a single symptom submission. Empty strings and nil
// pointers mean the field was not reported.
type SymptomReport struct {
	SymptomName        string   `json:"symptom_name"`
	Severity           int      `json:"severity"` // 1..10, validated by the caller
	BodyLocation       string   `json:"body_location,omitempty"`
	Characteristic     string   `json:"characteristic,omitempty"` // sharp, dull, throbbing, burning, stabbing, aching
	Frequency          string   `json:"frequency,omitempty"`      // constant, intermittent, occasional
	Temperature        *float64 `json:"temperature,omitempty"`    // °F
	HeartRate          *int     `json:"heart_rate,omitempty"`     // bpm
	BloodPressure      string   `json:"blood_pressure,omitempty"` // "systolic/diastolic"
	Triggers           []string `json:"triggers,omitempty"`
	AlleviatingFactors []string `json:"alleviating_factors,omitempty"`
	AggravatingFactors []string `json:"aggravating_factors,omitempty"`
	Notes              string   `json:"notes,omitempty"`
}

// Validate checks the input contract the scorer relies on. The scorer itself
// never calls it; request handlers do before assessment.
func (r *SymptomReport) Validate() error {
	if strings.TrimSpace(r.SymptomName) == "" {
		return fmt.Errorf("symptom_name is required")
	}
	if r.Severity < 1 || r.Severity > 10 {
		return fmt.Errorf("severity must be between 1 and 10, got %d", r.Severity)
	}
	return nil
}

// HistoricalSymptom is a previously logged symptom used for pattern checks.
type HistoricalSymptom struct {
	SymptomName  string        `json:"symptom_name"`
	Severity     int           `json:"severity"`
	StartedAt    time.Time     `json:"started_at"`
	EndedAt      *time.Time    `json:"ended_at,omitempty"`
	Status       SymptomStatus `json:"status"`
	BodyLocation string        `json:"body_location,omitempty"`
}
