package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"symptomtriage/internal/display"
	"symptomtriage/internal/model"
	"symptomtriage/internal/wiring"
)

var patternsFlags struct {
	userID     string
	age        int
	conditions []string
	save       bool
}

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Run long-term pattern analysis over a user's recorded symptoms",
	RunE:  runPatterns,
}

func init() {
	f := patternsCmd.Flags()
	f.StringVar(&patternsFlags.userID, "user", "", "User ID (required)")
	f.IntVar(&patternsFlags.age, "age", 0, "Patient age, if known")
	f.StringSliceVar(&patternsFlags.conditions, "condition", nil, "Known medical condition (repeatable)")
	f.BoolVar(&patternsFlags.save, "save", false, "Store the insights")

	_ = patternsCmd.MarkFlagRequired("user")
}

func runPatterns(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	enr := wiring.Enricher(cfg)
	if !enr.Enabled() {
		return fmt.Errorf("pattern analysis needs an AI provider; set ai.provider and ai.api_key")
	}

	rec := wiring.Recorder(cfg)
	defer rec.Close()

	history, err := rec.RecentSymptoms(cmd.Context(), patternsFlags.userID, cfg.Schedule.HistoryLimit)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(history) == 0 {
		fmt.Fprintf(out, "No recorded symptoms for %s.\n", patternsFlags.userID)
		return nil
	}

	insights := enr.LongTermPatterns(cmd.Context(), history, patternsFlags.age, patternsFlags.conditions)
	if len(insights) == 0 {
		fmt.Fprintln(out, "No patterns found.")
		return nil
	}
	if patternsFlags.save {
		if err := rec.RecordInsights(cmd.Context(), patternsFlags.userID, insights); err != nil {
			return fmt.Errorf("record insights: %w", err)
		}
	}
	fmt.Fprintln(out, display.InsightsTable(insights, tableMode()))
	if n := countSerious(insights); n > 0 {
		fmt.Fprintf(out, "%d insight(s) rated high or critical.\n", n)
	}
	return nil
}

func countSerious(ins []model.Insight) int {
	n := 0
	for _, in := range ins {
		if in.Severity == model.SeverityHigh || in.Severity == model.SeverityCritical {
			n++
		}
	}
	return n
}
