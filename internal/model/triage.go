package model

// UrgencyLevel classifies how quickly care should be sought.
type UrgencyLevel string

const (
	UrgencyEmergency  UrgencyLevel = "EMERGENCY"
	UrgencyUrgent     UrgencyLevel = "URGENT"
	UrgencySemiUrgent UrgencyLevel = "SEMI_URGENT"
	UrgencyNonUrgent  UrgencyLevel = "NON_URGENT"
	UrgencySelfCare   UrgencyLevel = "SELF_CARE"
)

var urgencyRank = map[UrgencyLevel]int{
	UrgencySelfCare:   0,
	UrgencyNonUrgent:  1,
	UrgencySemiUrgent: 2,
	UrgencyUrgent:     3,
	UrgencyEmergency:  4,
}

// AtLeast reports whether u is as urgent as or more urgent than other.
func (u UrgencyLevel) AtLeast(other UrgencyLevel) bool {
	return urgencyRank[u] >= urgencyRank[other]
}

// TriageResult is the complete output of one assessment.
type TriageResult struct {
	UrgencyLevel    UrgencyLevel `json:"urgency_level"`
	Score           int          `json:"score"`
	Reasoning       []string     `json:"reasoning"`
	Recommendation  string       `json:"recommendation"`
	RedFlags        []string     `json:"red_flags"`
	AIInsights      string       `json:"ai_insights,omitempty"`
	PatternAnalysis string       `json:"pattern_analysis,omitempty"`
}

// Clone returns a copy that shares no slices with r.
func (r TriageResult) Clone() TriageResult {
	c := r
	c.Reasoning = cloneStrings(r.Reasoning)
	c.RedFlags = cloneStrings(r.RedFlags)
	return c
}

// cloneStrings keeps an empty slice empty rather than nil, so the JSON
// encoding of a clone matches the original.
func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}
