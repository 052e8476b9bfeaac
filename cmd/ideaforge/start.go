package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/ideaforge-dev/ideaforge/internal/observability"
	"github.com/ideaforge-dev/ideaforge/internal/workflow"
	"github.com/ideaforge-dev/ideaforge/pkg/config"
)

var (
	startIdea     string
	startAudience string
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the ideation workflow for a project idea",
	Long: `Runs the full pipeline for one idea: research, parallel planning,
consolidation and validation. The idea comes from --idea or an
interactive prompt. Outputs are written under the configured output
directory, in a subdirectory named after the run ID.`,
	RunE: runStart,
}

func init() {
	startCmd.Flags().StringVarP(&startIdea, "idea", "i", "", "Project idea (prompted interactively when omitted)")
	startCmd.Flags().StringVarP(&startAudience, "audience", "a", "", "Target audience for the research phase")
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}
	if startAudience != "" {
		cfg.TargetAudience = startAudience
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	idea := strings.TrimSpace(startIdea)
	if idea == "" {
		idea, err = promptIdea()
		if err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	observability.InitMetrics()
	if err := observability.Init(observability.Config{
		ServiceName:  observability.DefaultServiceName,
		Enabled:      cfg.Observability.TraceExporter != "none" && cfg.Observability.TraceExporter != "",
		ExporterType: cfg.Observability.TraceExporter,
		OTLPEndpoint: cfg.Observability.OTLPEndpoint,
	}); err != nil {
		return err
	}
	defer func() {
		if err := observability.Shutdown(context.Background()); err != nil {
			log.Printf("[cli] tracing shutdown: %v", err)
		}
	}()

	gen, err := buildGenerator(cfg)
	if err != nil {
		return err
	}
	store, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	orch, err := buildOrchestrator(cfg, gen, store)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	log.Printf("[cli] starting run %s (provider %s)", runID, cfg.Provider)

	report, err := orch.Run(ctx, runID, idea)
	printReport(report)
	return err
}

// promptIdea asks for the idea interactively.
func promptIdea() (string, error) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	for {
		input, err := line.Prompt("Project idea> ")
		if err != nil {
			return "", fmt.Errorf("read idea: %w", err)
		}
		input = strings.TrimSpace(input)
		if input != "" {
			line.AppendHistory(input)
			return input, nil
		}
		fmt.Fprintln(os.Stderr, "Please enter a non-empty idea.")
	}
}

func printReport(report *workflow.RunReport) {
	if report == nil {
		return
	}
	fmt.Printf("\nRun %s: %s (%s)\n", report.RunID, report.Outcome,
		report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))

	for _, pr := range report.Phases {
		line := fmt.Sprintf("  %-12s %-10s %s", pr.Name, pr.Status,
			pr.Duration.Round(time.Millisecond))
		if len(pr.FailedAgents) > 0 {
			line += "  failed: " + strings.Join(pr.FailedAgents, ", ")
		}
		fmt.Println(line)
	}

	for _, path := range report.OutputPaths {
		fmt.Printf("  wrote %s\n", path)
	}
	for _, fault := range report.OutputFaults {
		fmt.Printf("  delivery fault: %s\n", fault)
	}
	if report.Err != nil {
		fmt.Printf("  error: %v\n", report.Err)
	}
}
