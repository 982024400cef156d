// Package display renders triage data as terminal or Markdown tables.
package display

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"symptomtriage/internal/model"
	"symptomtriage/internal/recorder"
)

// Mode controls the output format.
type Mode int

const (
	ASCII    Mode = iota // Fixed-width terminal tables
	Markdown             // GitHub-flavoured Markdown tables
)

const wrapWidth = 72

func newWriter() table.Writer {
	w := table.NewWriter()
	w.SetStyle(table.StyleLight)
	return w
}

func render(w table.Writer, m Mode) string {
	if m == Markdown {
		return w.RenderMarkdown()
	}
	return w.Render()
}

// ResultTable shows one triage result: the verdict, the reasoning trail and
// the recommendation.
func ResultTable(r model.TriageResult, m Mode) string {
	w := newWriter()
	w.SetTitle("Triage result")
	w.AppendRow(table.Row{"Urgency", string(r.UrgencyLevel)})
	w.AppendRow(table.Row{"Score", r.Score})
	if len(r.RedFlags) > 0 {
		w.AppendRow(table.Row{"Red flags", strings.Join(r.RedFlags, "\n")})
	}
	w.AppendSeparator()
	w.AppendRow(table.Row{"Reasoning", strings.Join(r.Reasoning, "\n")})
	w.AppendSeparator()
	w.AppendRow(table.Row{"Recommendation", r.Recommendation})
	if r.AIInsights != "" {
		w.AppendRow(table.Row{"AI insights", r.AIInsights})
	}
	if r.PatternAnalysis != "" {
		w.AppendRow(table.Row{"Pattern analysis", r.PatternAnalysis})
	}
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, WidthMax: wrapWidth},
	})
	return render(w, m)
}

// AssessmentsTable lists stored assessments, one per row.
func AssessmentsTable(as []recorder.Assessment, m Mode) string {
	w := newWriter()
	w.AppendHeader(table.Row{"When", "Symptom", "Severity", "Status", "Urgency", "Score", "Red flags"})
	for _, a := range as {
		w.AppendRow(table.Row{
			a.CreatedAt.Format("2006-01-02 15:04"),
			a.Report.SymptomName,
			fmt.Sprintf("%d/10", a.Report.Severity),
			string(a.Status),
			string(a.Result.UrgencyLevel),
			a.Result.Score,
			strings.Join(a.Result.RedFlags, ", "),
		})
	}
	w.AppendFooter(table.Row{"", "", "", "", "Total", len(as)})
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	return render(w, m)
}

// InsightsTable lists long-term insights.
func InsightsTable(ins []model.Insight, m Mode) string {
	w := newWriter()
	w.AppendHeader(table.Row{"Severity", "Type", "Title", "Description", "Confidence"})
	for _, in := range ins {
		w.AppendRow(table.Row{
			string(in.Severity),
			string(in.Type),
			in.Title,
			in.Description,
			fmt.Sprintf("%.0f%%", in.Confidence*100),
		})
	}
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, WidthMax: wrapWidth / 2},
		{Number: 5, Align: text.AlignRight},
	})
	return render(w, m)
}
