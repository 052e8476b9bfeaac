package agents

import (
	"context"
	"fmt"

	"github.com/ideaforge-dev/ideaforge/agent"
	"github.com/ideaforge-dev/ideaforge/internal/llm"
)

// TechstackAgent recommends a technology stack for the planned project.
// Requires: "idea", "research". Produces: "techstack".
//
// It runs concurrently with the feature planner, so it works from the
// research report rather than the (not yet committed) feature plan.
type TechstackAgent struct {
	gen  llm.Generator
	opts Options
}

// NewTechstackAgent creates the techstack-analysis role.
func NewTechstackAgent(gen llm.Generator, opts Options) *TechstackAgent {
	return &TechstackAgent{gen: gen, opts: opts.withDefaultBudget(1000)}
}

// Name implements agent.Agent.
func (a *TechstackAgent) Name() string { return "techstack" }

// Run implements agent.Agent.
func (a *TechstackAgent) Run(ctx context.Context, c agent.Context) (*agent.Fragment, error) {
	idea, err := c.RequireString(a.Name(), "idea")
	if err != nil {
		return nil, err
	}
	research, err := c.RequireString(a.Name(), "research")
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`Recommend a tech stack for this project:

PROJECT IDEA:
%s

MARKET RESEARCH:
%s

Provide tech stack recommendations following the format.`, idea, research)

	recommendations, err := generate(ctx, a.gen, a.Name(), techstackSystemPrompt, prompt, a.opts)
	if err != nil {
		return nil, err
	}

	return agent.NewFragment(a.Name(), map[string]any{
		"techstack": recommendations,
	}), nil
}
