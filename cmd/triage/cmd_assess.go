package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"symptomtriage/internal/display"
	"symptomtriage/internal/model"
	"symptomtriage/internal/recorder"
	"symptomtriage/internal/wiring"
)

var assessFlags struct {
	reportFile  string
	historyFile string
	userID      string
	status      string
	save        bool
	asJSON      bool
}

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Assess a symptom report from a JSON file",
	RunE:  runAssess,
}

func init() {
	f := assessCmd.Flags()
	f.StringVarP(&assessFlags.reportFile, "file", "f", "", "Symptom report JSON file (required)")
	f.StringVar(&assessFlags.historyFile, "history", "", "JSON file with prior symptoms")
	f.StringVar(&assessFlags.userID, "user", "", "Load history for this user from the database")
	f.StringVar(&assessFlags.status, "status", "", "Symptom status to store with --save (default ACTIVE)")
	f.BoolVar(&assessFlags.save, "save", false, "Record the assessment for --user")
	f.BoolVar(&assessFlags.asJSON, "json", false, "Print the result as JSON")

	_ = assessCmd.MarkFlagRequired("file")
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func runAssess(cmd *cobra.Command, _ []string) error {
	if assessFlags.save && assessFlags.userID == "" {
		return fmt.Errorf("--save requires --user")
	}
	status, err := model.ParseSymptomStatus(assessFlags.status)
	if err != nil {
		return err
	}

	var report model.SymptomReport
	if err := readJSONFile(assessFlags.reportFile, &report); err != nil {
		return err
	}
	if err := report.Validate(); err != nil {
		return fmt.Errorf("invalid report: %w", err)
	}

	var history []model.HistoricalSymptom
	if assessFlags.historyFile != "" {
		if err := readJSONFile(assessFlags.historyFile, &history); err != nil {
			return err
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, _, err := wiring.Service(cfg)
	if err != nil {
		return err
	}

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if assessFlags.userID != "" {
		rec = wiring.Recorder(cfg)
		defer rec.Close()
		stored, err := rec.RecentSymptoms(cmd.Context(), assessFlags.userID, cfg.Schedule.HistoryLimit)
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}
		history = append(history, stored...)
	}

	result := svc.AssessSymptom(cmd.Context(), report, history)

	if assessFlags.save {
		a := &recorder.Assessment{
			ID:        uuid.New(),
			UserID:    assessFlags.userID,
			CreatedAt: time.Now(),
			Status:    status,
			Report:    report,
			Result:    result,
		}
		if err := rec.RecordAssessment(cmd.Context(), a); err != nil {
			return fmt.Errorf("record assessment: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	if assessFlags.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	fmt.Fprintln(out, display.ResultTable(result, tableMode()))
	return nil
}
