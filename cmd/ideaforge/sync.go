package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ideaforge-dev/ideaforge/internal/knowledge"
	"github.com/ideaforge-dev/ideaforge/internal/observability"
	"github.com/ideaforge-dev/ideaforge/pkg/config"
)

var syncSchedule string

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync the similar-project knowledge index",
	Long: `Pulls past-project records from the configured seed file and
upserts them into the knowledge backend. With --schedule the command
stays up and re-syncs on the given cron expression, serving /metrics
and /health when a metrics port is configured.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncSchedule, "schedule", "", "Cron expression for periodic syncing (e.g. @hourly)")
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}
	if cfg.Knowledge.Backend == "" {
		return errors.New("no knowledge backend configured")
	}
	if cfg.Knowledge.SeedFile == "" {
		return errors.New("knowledge.seed_file is required for sync")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	source := func(ctx context.Context) ([]knowledge.Record, error) {
		return loadSeedRecords(cfg.Knowledge.SeedFile)
	}
	refresher := knowledge.NewRefresher(store, source, 0)

	n, err := refresher.SyncOnce(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Synced %d record(s) into the %s backend.\n", n, cfg.Knowledge.Backend)

	schedule := syncSchedule
	if schedule == "" {
		schedule = cfg.Knowledge.RefreshSchedule
	}
	if schedule == "" {
		return nil
	}

	if err := refresher.Start(schedule); err != nil {
		return err
	}
	defer refresher.Stop()
	log.Printf("[cli] sync scheduled (%s), press Ctrl-C to stop", schedule)

	if cfg.Observability.MetricsPort > 0 {
		observability.InitMetrics()
		server := observability.NewServer(cfg.Observability.MetricsPort)
		go func() {
			if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("[cli] metrics server: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Printf("[cli] metrics server shutdown: %v", err)
			}
		}()
	}

	<-ctx.Done()
	log.Printf("[cli] shutting down sync")
	return nil
}
