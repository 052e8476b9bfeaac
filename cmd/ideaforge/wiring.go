package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ideaforge-dev/ideaforge/agent"
	"github.com/ideaforge-dev/ideaforge/internal/agents"
	"github.com/ideaforge-dev/ideaforge/internal/knowledge"
	"github.com/ideaforge-dev/ideaforge/internal/llm"
	"github.com/ideaforge-dev/ideaforge/internal/output"
	"github.com/ideaforge-dev/ideaforge/internal/workflow"
	"github.com/ideaforge-dev/ideaforge/pkg/config"
)

// buildGenerator constructs the configured provider with pacing applied.
func buildGenerator(cfg *config.Config) (llm.Generator, error) {
	gen, err := llm.New(cfg.Provider, cfg.ProviderConfig())
	if err != nil {
		return nil, err
	}
	return llm.Throttle(gen, cfg.RequestsPerSecond), nil
}

// buildStore constructs the configured knowledge backend, or nil when
// lookup is disabled.
func buildStore(ctx context.Context, cfg *config.Config) (knowledge.Store, error) {
	switch cfg.Knowledge.Backend {
	case "":
		return nil, nil
	case "memory":
		seed, err := loadSeedRecords(cfg.Knowledge.SeedFile)
		if err != nil {
			return nil, err
		}
		return knowledge.NewMemoryStore(seed...), nil
	case "redis":
		return knowledge.NewRedisStore(knowledge.RedisConfig{
			Addr:     cfg.Knowledge.Redis.Addr,
			Password: cfg.Knowledge.Redis.Password,
			DB:       cfg.Knowledge.Redis.DB,
			TTL:      cfg.Knowledge.Redis.TTL,
		})
	case "firestore":
		return knowledge.NewFirestoreStore(ctx, knowledge.FirestoreConfig{
			ProjectID:       cfg.Knowledge.Firestore.ProjectID,
			CredentialsFile: cfg.Knowledge.Firestore.CredentialsFile,
			Collection:      cfg.Knowledge.Firestore.Collection,
		})
	default:
		return nil, fmt.Errorf("unknown knowledge backend %q", cfg.Knowledge.Backend)
	}
}

// buildOrchestrator assembles the full pipeline from configuration.
func buildOrchestrator(cfg *config.Config, gen llm.Generator, store knowledge.Store) (*workflow.Orchestrator, error) {
	lookup := knowledge.NewLookup(store)

	opts := func(name string) agents.Options {
		ac := cfg.AgentOptions(name)
		return agents.Options{
			Model:       ac.Model,
			MaxTokens:   ac.MaxTokens,
			Temperature: ac.Temperature,
		}
	}

	var publisher workflow.Publisher
	if cfg.Publisher.Enabled {
		publisher = output.NewHTTPPublisher(cfg.Publisher.URL, cfg.Publisher.Token)
	}

	return workflow.New(workflow.Config{
		Research: agents.NewResearchAgent(gen, opts("research")),
		Planners: []agent.Agent{
			agents.NewFeaturePlannerAgent(gen, opts("features")),
			agents.NewTechstackAgent(gen, opts("techstack")),
			agents.NewReusabilityAgent(gen, lookup, opts("reusability")),
		},
		Validator:      agents.NewValidatorAgent(gen, opts("validator")),
		Sink:           output.NewDirSink(cfg.Output.Dir),
		Publisher:      publisher,
		TargetAudience: cfg.TargetAudience,
		ParallelLimit:  cfg.ParallelLimit,
	})
}

// loadSeedRecords reads a JSON array of records. An empty path yields an
// empty corpus.
func loadSeedRecords(path string) ([]knowledge.Record, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var records []knowledge.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return records, nil
}
