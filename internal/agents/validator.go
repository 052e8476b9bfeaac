package agents

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/ideaforge-dev/ideaforge/agent"
	"github.com/ideaforge-dev/ideaforge/internal/llm"
)

// summaryLimit truncates each section fed to the validator so the prompt
// stays within budget; the validator assesses shape, not full content.
const summaryLimit = 500

// ValidatorAgent reviews the assembled specification for completeness and
// realism. Requires: "idea", "research", "features", "techstack",
// "reusable_assets". Produces: "validation".
type ValidatorAgent struct {
	gen  llm.Generator
	opts Options
}

// NewValidatorAgent creates the validation role.
func NewValidatorAgent(gen llm.Generator, opts Options) *ValidatorAgent {
	return &ValidatorAgent{gen: gen, opts: opts.withDefaultBudget(1500)}
}

// Name implements agent.Agent.
func (a *ValidatorAgent) Name() string { return "validator" }

// Run implements agent.Agent.
func (a *ValidatorAgent) Run(ctx context.Context, c agent.Context) (*agent.Fragment, error) {
	sections := make(map[string]string, 5)
	for _, key := range []string{"idea", "research", "features", "techstack", "reusable_assets"} {
		v, err := c.RequireString(a.Name(), key)
		if err != nil {
			return nil, err
		}
		sections[key] = truncate(v, summaryLimit)
	}

	prompt := fmt.Sprintf(`Validate this project specification:

IDEA: %s

RESEARCH: %s

FEATURES: %s

TECHSTACK: %s

REUSABILITY: %s

Provide a thorough validation report following the format.`,
		sections["idea"], sections["research"], sections["features"],
		sections["techstack"], sections["reusable_assets"])

	report, err := generate(ctx, a.gen, a.Name(), validatorSystemPrompt, prompt, a.opts)
	if err != nil {
		return nil, err
	}

	return agent.NewFragment(a.Name(), map[string]any{
		"validation": report,
	}), nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	// Back up to a rune boundary so the cut never produces invalid UTF-8.
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
