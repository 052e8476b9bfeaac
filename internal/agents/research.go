package agents

import (
	"context"
	"fmt"

	"github.com/ideaforge-dev/ideaforge/agent"
	"github.com/ideaforge-dev/ideaforge/internal/llm"
)

// ResearchAgent conducts market and competitor analysis for the idea.
// Requires: "idea". Produces: "research".
type ResearchAgent struct {
	gen  llm.Generator
	opts Options
}

// NewResearchAgent creates the research role.
func NewResearchAgent(gen llm.Generator, opts Options) *ResearchAgent {
	return &ResearchAgent{gen: gen, opts: opts.withDefaultBudget(3000)}
}

// Name implements agent.Agent.
func (a *ResearchAgent) Name() string { return "research" }

// Run implements agent.Agent.
func (a *ResearchAgent) Run(ctx context.Context, c agent.Context) (*agent.Fragment, error) {
	idea, err := c.RequireString(a.Name(), "idea")
	if err != nil {
		return nil, err
	}

	audience := c.GetString("target_audience")
	if audience == "" {
		audience = "general users"
	}

	prompt := fmt.Sprintf(`Analyze this project idea:

PROJECT IDEA:
%s

TARGET AUDIENCE:
%s

Provide comprehensive market research following the format specified.`, idea, audience)

	report, err := generate(ctx, a.gen, a.Name(), researchSystemPrompt, prompt, a.opts)
	if err != nil {
		return nil, err
	}

	return agent.NewFragment(a.Name(), map[string]any{
		"research": report,
	}), nil
}
