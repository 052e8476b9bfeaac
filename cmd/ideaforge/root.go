package main

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "ideaforge",
	Short: "Turn a one-line project idea into a full project specification",
	Long: `IdeaForge drives a team of LLM-backed agents through a fixed
workflow: market research, parallel planning (features, tech stack,
reusability), consolidation and validation. The result is a versioned
project specification written to disk and optionally imported into your
project tracker.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "ideaforge.yaml", "Path to the configuration file")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}
