package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ideaforge-dev/ideaforge/internal/llm"
	"github.com/ideaforge-dev/ideaforge/pkg/config"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the model ids available from the configured provider",
	Long: `Queries the configured provider for the model ids it offers, so a
configured model can be checked before starting a run. Currently the
bedrock provider supports listing.`,
	RunE: runModels,
}

func runModels(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}

	gen, err := llm.New(cfg.Provider, cfg.ProviderConfig())
	if err != nil {
		return err
	}

	lister, ok := gen.(llm.ModelLister)
	if !ok {
		return fmt.Errorf("provider %q does not support model listing", cfg.Provider)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ids, err := lister.Models(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	return nil
}
