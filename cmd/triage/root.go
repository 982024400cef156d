package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"symptomtriage/internal/config"
	"symptomtriage/internal/display"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	configPath string
	markdown   bool
}

var rootCmd = &cobra.Command{
	Use:   "triage",
	Short: "Rule-based symptom triage with optional AI insights",
	Long:  "triage scores a symptom report into an urgency level, shows stored\nassessments and runs long-term pattern analysis over a user's history.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.configPath, "config", "configs/config.yaml", "Path to config file")
	pf.BoolVar(&rootFlags.markdown, "markdown", false, "Render tables as Markdown")

	rootCmd.AddCommand(assessCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(patternsCmd)
	rootCmd.Version = version
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(rootFlags.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func tableMode() display.Mode {
	if rootFlags.markdown {
		return display.Markdown
	}
	return display.ASCII
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
