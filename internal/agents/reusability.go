package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/ideaforge-dev/ideaforge/agent"
	"github.com/ideaforge-dev/ideaforge/internal/knowledge"
	"github.com/ideaforge-dev/ideaforge/internal/llm"
)

const similarProjectLimit = 3

// ReusabilityAgent identifies components and patterns from past projects
// worth reusing. Requires: "idea", "research". Produces: "reusable_assets"
// and "similar_projects".
//
// The knowledge lookup is best-effort enrichment: when it is disabled or
// empty the agent still runs, it just tells the model no index was
// available.
type ReusabilityAgent struct {
	gen    llm.Generator
	lookup *knowledge.Lookup
	opts   Options
}

// NewReusabilityAgent creates the reusability-scouting role.
func NewReusabilityAgent(gen llm.Generator, lookup *knowledge.Lookup, opts Options) *ReusabilityAgent {
	return &ReusabilityAgent{gen: gen, lookup: lookup, opts: opts.withDefaultBudget(800)}
}

// Name implements agent.Agent.
func (a *ReusabilityAgent) Name() string { return "reusability" }

// Run implements agent.Agent.
func (a *ReusabilityAgent) Run(ctx context.Context, c agent.Context) (*agent.Fragment, error) {
	idea, err := c.RequireString(a.Name(), "idea")
	if err != nil {
		return nil, err
	}
	research, err := c.RequireString(a.Name(), "research")
	if err != nil {
		return nil, err
	}

	similar := a.lookup.FindSimilar(ctx, idea, similarProjectLimit)

	var enrichment strings.Builder
	if len(similar) > 0 {
		enrichment.WriteString("\n\nSIMILAR PAST PROJECTS:\n")
		for _, rec := range similar {
			fmt.Fprintf(&enrichment, "- %s: %s\n", rec.Title, rec.Description)
		}
	} else {
		enrichment.WriteString("\n\nNOTE: No past-project index available or no similar projects found.")
	}

	prompt := fmt.Sprintf(`Identify reusable components for this project:

PROJECT IDEA:
%s

MARKET RESEARCH:
%s%s

Identify reusable assets following the format.
Be realistic about what can be reused.`, idea, research, enrichment.String())

	assets, err := generate(ctx, a.gen, a.Name(), reusabilitySystemPrompt, prompt, a.opts)
	if err != nil {
		return nil, err
	}

	return agent.NewFragment(a.Name(), map[string]any{
		"reusable_assets":  assets,
		"similar_projects": similar,
	}), nil
}
