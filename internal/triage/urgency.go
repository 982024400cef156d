package triage

import "symptomtriage/internal/model"

// UrgencyTiers is walked top-down; the first tier whose score or red-flag
// threshold is met wins. MinRedFlags of 0 disables the red-flag override.
var UrgencyTiers = []struct {
	MinScore    int
	MinRedFlags int
	Level       model.UrgencyLevel
}{
	{60, 2, model.UrgencyEmergency},
	{40, 1, model.UrgencyUrgent},
	{25, 0, model.UrgencySemiUrgent},
	{15, 0, model.UrgencyNonUrgent},
}

// DefaultUrgency applies below every tier.
const DefaultUrgency = model.UrgencySelfCare

func mapUrgency(score, redFlags int) model.UrgencyLevel {
	for _, t := range UrgencyTiers {
		if score >= t.MinScore || (t.MinRedFlags > 0 && redFlags >= t.MinRedFlags) {
			return t.Level
		}
	}
	return DefaultUrgency
}
