package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"symptomtriage/internal/display"
	"symptomtriage/internal/wiring"
)

var historyFlags struct {
	userID string
	limit  int
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded assessments",
	RunE:  runHistory,
}

func init() {
	f := historyCmd.Flags()
	f.StringVar(&historyFlags.userID, "user", "", "Only show this user (default all users)")
	f.IntVar(&historyFlags.limit, "limit", 20, "Maximum number of assessments")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	rec := wiring.Recorder(cfg)
	defer rec.Close()

	as, err := rec.ListAssessments(cmd.Context(), historyFlags.userID, historyFlags.limit)
	if err != nil {
		return fmt.Errorf("list assessments: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(as) == 0 {
		fmt.Fprintln(out, "No assessments recorded.")
		return nil
	}
	fmt.Fprintln(out, display.AssessmentsTable(as, tableMode()))
	return nil
}
