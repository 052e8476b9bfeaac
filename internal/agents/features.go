package agents

import (
	"context"
	"fmt"

	"github.com/ideaforge-dev/ideaforge/agent"
	"github.com/ideaforge-dev/ideaforge/internal/llm"
)

// FeaturePlannerAgent plans the MVP feature set with priorities.
// Requires: "idea", "research". Produces: "features".
type FeaturePlannerAgent struct {
	gen  llm.Generator
	opts Options
}

// NewFeaturePlannerAgent creates the feature-planning role.
func NewFeaturePlannerAgent(gen llm.Generator, opts Options) *FeaturePlannerAgent {
	return &FeaturePlannerAgent{gen: gen, opts: opts.withDefaultBudget(1500)}
}

// Name implements agent.Agent.
func (a *FeaturePlannerAgent) Name() string { return "features" }

// Run implements agent.Agent.
func (a *FeaturePlannerAgent) Run(ctx context.Context, c agent.Context) (*agent.Fragment, error) {
	idea, err := c.RequireString(a.Name(), "idea")
	if err != nil {
		return nil, err
	}
	research, err := c.RequireString(a.Name(), "research")
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`Create an MVP feature plan for this project:

PROJECT IDEA:
%s

MARKET RESEARCH:
%s

Create a focused MVP feature list following the format.`, idea, research)

	plan, err := generate(ctx, a.gen, a.Name(), featuresSystemPrompt, prompt, a.opts)
	if err != nil {
		return nil, err
	}

	return agent.NewFragment(a.Name(), map[string]any{
		"features": plan,
	}), nil
}
