// Package agents implements the five roles of the ideation workflow:
// research, feature planning, techstack analysis, reusability scouting and
// validation. Each role is a thin shell around one generation call: it
// reads its statically required keys from the context snapshot, builds a
// prompt, and returns its single contribution as a fragment.
package agents

import (
	"context"

	"github.com/ideaforge-dev/ideaforge/agent"
	"github.com/ideaforge-dev/ideaforge/internal/llm"
	"github.com/ideaforge-dev/ideaforge/internal/observability"
)

const defaultTemperature = 0.7

// Options configures one agent role.
type Options struct {
	// Model overrides the provider default for this role.
	Model string
	// MaxTokens is the output budget for this role.
	MaxTokens int
	// Temperature is the sampling temperature. Nil means the default;
	// an explicit zero is honored.
	Temperature *float64
}

func (o Options) withDefaultBudget(budget int) Options {
	if o.MaxTokens <= 0 {
		o.MaxTokens = budget
	}
	if o.Temperature == nil {
		t := defaultTemperature
		o.Temperature = &t
	}
	return o
}

// generate runs one completion for an agent role and normalizes provider
// faults into the shared error taxonomy.
func generate(ctx context.Context, gen llm.Generator, agentName, system, prompt string, opts Options) (string, error) {
	ctx, span := observability.StartSpan(ctx, "agent."+agentName)
	defer span.End()

	temperature := defaultTemperature
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}

	out, err := gen.Generate(ctx, llm.Request{
		System:      system,
		Prompt:      prompt,
		MaxTokens:   opts.MaxTokens,
		Model:       opts.Model,
		Temperature: temperature,
	})
	if err != nil {
		span.RecordError(err)
		observability.ObserveGeneration(gen.Name(), "error")
		return "", &agent.GenerationError{Agent: agentName, Err: err}
	}
	observability.ObserveGeneration(gen.Name(), "ok")
	return out, nil
}
