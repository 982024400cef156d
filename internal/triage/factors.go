package triage

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"symptomtriage/internal/model"
)

// factor is one rule's contribution to the score.
type factor struct {
	Points  int
	Reason  string
	RedFlag string // empty when the rule is not a red flag
}

func withPoints(points int, format string, args ...any) factor {
	return factor{Points: points, Reason: fmt.Sprintf(format, args...) + fmt.Sprintf(" (+%d)", points)}
}

// scoreTemperature applies the single matching temperature band.
func scoreTemperature(r *model.SymptomReport) (factor, bool) {
	if r.Temperature == nil {
		return factor{}, false
	}
	temp := *r.Temperature
	switch {
	case temp >= 104:
		return withPoints(25, "Temperature %.1f°F is dangerously high", temp), true
	case temp >= 103:
		return withPoints(20, "Temperature %.1f°F indicates a high fever", temp), true
	case temp >= 101:
		return withPoints(10, "Temperature %.1f°F indicates a fever", temp), true
	case temp <= 95:
		return withPoints(20, "Temperature %.1f°F indicates hypothermia risk", temp), true
	}
	return factor{}, false
}

// scoreHeartRate applies the single matching heart-rate band. 50-120 bpm is normal.
func scoreHeartRate(r *model.SymptomReport) (factor, bool) {
	if r.HeartRate == nil {
		return factor{}, false
	}
	hr := *r.HeartRate
	switch {
	case hr > 140:
		return withPoints(20, "Heart rate %d bpm is severely elevated", hr), true
	case hr > 120:
		return withPoints(15, "Heart rate %d bpm is elevated", hr), true
	case hr < 45:
		return withPoints(20, "Heart rate %d bpm is severely low", hr), true
	case hr < 50:
		return withPoints(15, "Heart rate %d bpm is low", hr), true
	}
	return factor{}, false
}

var bloodPressurePattern = regexp.MustCompile(`^(\d+)/(\d+)$`)

// parseBloodPressure accepts only "systolic/diastolic" digits.
func parseBloodPressure(s string) (systolic, diastolic int, ok bool) {
	m := bloodPressurePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, false
	}
	sys, err1 := strconv.Atoi(m[1])
	dia, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return sys, dia, true
}

// scoreBloodPressure skips unparsable readings as if absent.
func scoreBloodPressure(r *model.SymptomReport) (factor, bool) {
	sys, dia, ok := parseBloodPressure(r.BloodPressure)
	if !ok {
		return factor{}, false
	}
	switch {
	case sys >= 180 || dia >= 120:
		f := withPoints(30, "Blood pressure %d/%d indicates hypertensive crisis", sys, dia)
		f.RedFlag = "hypertensive crisis"
		return f, true
	case sys >= 140 || dia >= 90:
		return withPoints(10, "Blood pressure %d/%d is elevated", sys, dia), true
	case sys < 90 || dia < 60:
		return withPoints(15, "Blood pressure %d/%d indicates hypotension", sys, dia), true
	}
	return factor{}, false
}

// scoreSeverity is the modifier on top of the base severity points.
func scoreSeverity(r *model.SymptomReport) (factor, bool) {
	switch {
	case r.Severity >= 9:
		return withPoints(15, "Very high severity rating"), true
	case r.Severity >= 8:
		return withPoints(10, "High severity rating"), true
	case r.Severity >= 6:
		return withPoints(5, "Moderate-to-high severity rating"), true
	}
	return factor{}, false
}

func scoreCharacteristic(r *model.SymptomReport) (factor, bool) {
	c := strings.ToLower(strings.TrimSpace(r.Characteristic))
	switch c {
	case "sharp", "stabbing":
		return withPoints(8, "Pain characteristic is %s", c), true
	case "burning":
		return withPoints(5, "Pain characteristic is burning"), true
	case "throbbing":
		return withPoints(4, "Pain characteristic is throbbing"), true
	}
	return factor{}, false
}

func scoreFrequency(r *model.SymptomReport) (factor, bool) {
	switch strings.ToLower(strings.TrimSpace(r.Frequency)) {
	case "constant":
		return withPoints(8, "Symptom is constant"), true
	case "intermittent":
		return withPoints(3, "Symptom is intermittent"), true
	}
	return factor{}, false
}

// scoreRecurrence counts history entries whose name contains, or is contained
// in, the current symptom name. Entries with a blank name are ignored.
func scoreRecurrence(r *model.SymptomReport, history []model.HistoricalSymptom) (factor, bool) {
	current := strings.ToLower(strings.TrimSpace(r.SymptomName))
	if current == "" {
		return factor{}, false
	}
	count := 0
	for _, h := range history {
		past := strings.ToLower(strings.TrimSpace(h.SymptomName))
		if past == "" {
			continue
		}
		if strings.Contains(past, current) || strings.Contains(current, past) {
			count++
		}
	}
	if count >= 3 {
		return withPoints(10, "Recurring symptom: %d similar episodes in history", count), true
	}
	return factor{}, false
}

func scoreWorseningTrend(history []model.HistoricalSymptom) (factor, bool) {
	count := 0
	for _, h := range history {
		if h.Status == model.StatusWorsening {
			count++
		}
	}
	if count >= 2 {
		return withPoints(8, "Worsening trend: %d symptoms in history are worsening", count), true
	}
	return factor{}, false
}
