package notifier

import (
	"fmt"
	"html"
	"strings"

	"symptomtriage/internal/model"
	"symptomtriage/internal/recorder"
)

var urgencyIcon = map[model.UrgencyLevel]string{
	model.UrgencyEmergency:  "🚨",
	model.UrgencyUrgent:     "⚠️",
	model.UrgencySemiUrgent: "🟡",
	model.UrgencyNonUrgent:  "🟢",
	model.UrgencySelfCare:   "✅",
}

var severityIcon = map[model.InsightSeverity]string{
	model.SeverityCritical: "🚨",
	model.SeverityHigh:     "⚠️",
	model.SeverityMedium:   "🟡",
	model.SeverityLow:      "ℹ️",
}

// FormatAlert formats an urgent assessment for the operator channel.
func FormatAlert(a *recorder.Assessment) string {
	var b strings.Builder
	r := a.Result

	b.WriteString(fmt.Sprintf("%s <b>%s triage</b> | %s\n\n",
		urgencyIcon[r.UrgencyLevel], r.UrgencyLevel, a.CreatedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("User: %s\n", html.EscapeString(a.UserID)))
	b.WriteString(fmt.Sprintf("Symptom: %s (severity %d/10)\n", html.EscapeString(a.Report.SymptomName), a.Report.Severity))
	b.WriteString(fmt.Sprintf("Score: %d\n", r.Score))

	if len(r.RedFlags) > 0 {
		b.WriteString("\n<b>Red flags:</b>\n")
		for _, f := range r.RedFlags {
			b.WriteString(fmt.Sprintf("  • %s\n", html.EscapeString(f)))
		}
	}

	b.WriteString("\n<b>Reasoning:</b>\n")
	for _, line := range r.Reasoning {
		b.WriteString(fmt.Sprintf("  %s\n", html.EscapeString(line)))
	}
	return b.String()
}

// FormatInsight formats one long-term insight for a user.
func FormatInsight(userID string, in model.Insight) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s <b>%s</b> [%s, %s]\n",
		severityIcon[in.Severity], html.EscapeString(in.Title), in.Type, in.Severity))
	b.WriteString(fmt.Sprintf("User: %s\n\n", html.EscapeString(userID)))
	b.WriteString(html.EscapeString(in.Description))
	b.WriteString("\n")
	if len(in.RelatedSymptoms) > 0 {
		b.WriteString(fmt.Sprintf("\nRelated: %s\n", html.EscapeString(strings.Join(in.RelatedSymptoms, ", "))))
	}
	for _, r := range in.Recommendations {
		b.WriteString(fmt.Sprintf("  • %s\n", html.EscapeString(r)))
	}
	return b.String()
}

// FormatLatest summarizes recent assessments, newest first.
func FormatLatest(as []recorder.Assessment) string {
	if len(as) == 0 {
		return "No assessments recorded yet."
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📋 <b>Latest %d assessments</b>\n\n", len(as)))
	for _, a := range as {
		b.WriteString(fmt.Sprintf("%s %s | %s | %s (%d/10) | score %d\n",
			urgencyIcon[a.Result.UrgencyLevel],
			a.CreatedAt.Format("01-02 15:04"),
			html.EscapeString(a.UserID),
			html.EscapeString(a.Report.SymptomName),
			a.Report.Severity,
			a.Result.Score))
	}
	return b.String()
}
