package agents

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ideaforge-dev/ideaforge/agent"
	"github.com/ideaforge-dev/ideaforge/internal/knowledge"
	"github.com/ideaforge-dev/ideaforge/internal/llm"
)

type stubGenerator struct {
	response string
	err      error
	requests []llm.Request
}

func (g *stubGenerator) Generate(_ context.Context, req llm.Request) (string, error) {
	g.requests = append(g.requests, req)
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

func (g *stubGenerator) Name() string { return "stub" }

func emptyLookup() *knowledge.Lookup {
	return knowledge.NewLookup(nil)
}

func baseContext() agent.Context {
	return agent.Context{
		"idea":            "A recipe sharing platform for home cooks",
		"research":        "The market is crowded but underserved on mobile.",
		"features":        "1. Recipe upload 2. Search 3. Ratings",
		"techstack":       "Go backend, Postgres, React frontend",
		"reusable_assets": "Auth service from the previous project",
	}
}

func TestAgentProducedKeys(t *testing.T) {
	gen := &stubGenerator{response: "generated output"}

	tests := []struct {
		agent agent.Agent
		keys  []string
	}{
		{NewResearchAgent(gen, Options{}), []string{"research"}},
		{NewFeaturePlannerAgent(gen, Options{}), []string{"features"}},
		{NewTechstackAgent(gen, Options{}), []string{"techstack"}},
		{NewReusabilityAgent(gen, emptyLookup(), Options{}), []string{"reusable_assets", "similar_projects"}},
		{NewValidatorAgent(gen, Options{}), []string{"validation"}},
	}

	for _, tt := range tests {
		t.Run(tt.agent.Name(), func(t *testing.T) {
			frag, err := tt.agent.Run(context.Background(), baseContext())
			require.NoError(t, err)
			assert.Equal(t, tt.agent.Name(), frag.Agent)
			assert.Equal(t, agent.StatusCompleted, frag.Status)
			want := append([]string(nil), tt.keys...)
			sort.Strings(want)
			assert.Equal(t, want, frag.Keys())
		})
	}
}

func TestAgentMissingField(t *testing.T) {
	gen := &stubGenerator{response: "unused"}

	tests := []struct {
		agent agent.Agent
		field string
		c     agent.Context
	}{
		{NewResearchAgent(gen, Options{}), "idea", agent.Context{}},
		{NewFeaturePlannerAgent(gen, Options{}), "research", agent.Context{"idea": "x"}},
		{NewTechstackAgent(gen, Options{}), "research", agent.Context{"idea": "x"}},
		{NewReusabilityAgent(gen, emptyLookup(), Options{}), "research", agent.Context{"idea": "x"}},
		{NewValidatorAgent(gen, Options{}), "features", agent.Context{"idea": "x", "research": "y"}},
	}

	for _, tt := range tests {
		t.Run(tt.agent.Name()+"/"+tt.field, func(t *testing.T) {
			frag, err := tt.agent.Run(context.Background(), tt.c)
			assert.Nil(t, frag)
			var missing *agent.MissingFieldError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.agent.Name(), missing.Agent)
			assert.Equal(t, tt.field, missing.Field)
		})
	}
}

func TestAgentGenerationFailureWrapped(t *testing.T) {
	cause := errors.New("provider exploded")
	gen := &stubGenerator{err: cause}

	a := NewResearchAgent(gen, Options{})
	frag, err := a.Run(context.Background(), baseContext())
	assert.Nil(t, frag)

	var genErr *agent.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "research", genErr.Agent)
	assert.ErrorIs(t, err, cause)
}

func TestAgentIdempotentKeySet(t *testing.T) {
	gen := &stubGenerator{response: "pass one"}
	a := NewValidatorAgent(gen, Options{})

	first, err := a.Run(context.Background(), baseContext())
	require.NoError(t, err)

	gen.response = "pass two"
	second, err := a.Run(context.Background(), baseContext())
	require.NoError(t, err)

	assert.Equal(t, first.Keys(), second.Keys())
}

func TestResearchDefaultAudience(t *testing.T) {
	gen := &stubGenerator{response: "report"}
	a := NewResearchAgent(gen, Options{})

	_, err := a.Run(context.Background(), agent.Context{"idea": "a habit tracker"})
	require.NoError(t, err)

	require.Len(t, gen.requests, 1)
	assert.Contains(t, gen.requests[0].Prompt, "general users")
}

func TestReusabilityEnrichesFromLookup(t *testing.T) {
	store := knowledge.NewMemoryStore(knowledge.Record{
		ID:          "proj-1",
		Title:       "MealPlanner",
		Description: "recipe sharing app with meal planning",
		Tags:        []string{"recipes"},
	})
	gen := &stubGenerator{response: "assets"}
	a := NewReusabilityAgent(gen, knowledge.NewLookup(store), Options{})

	frag, err := a.Run(context.Background(), baseContext())
	require.NoError(t, err)

	require.Len(t, gen.requests, 1)
	assert.Contains(t, gen.requests[0].Prompt, "MealPlanner")

	similar, ok := frag.Values["similar_projects"].([]knowledge.Record)
	require.True(t, ok)
	require.Len(t, similar, 1)
	assert.Equal(t, "proj-1", similar[0].ID)
}

func TestValidatorTruncatesSections(t *testing.T) {
	long := make([]byte, 2000)
	for i := range long {
		long[i] = 'r'
	}
	c := baseContext()
	c["research"] = string(long)

	gen := &stubGenerator{response: "verdict"}
	a := NewValidatorAgent(gen, Options{})

	_, err := a.Run(context.Background(), c)
	require.NoError(t, err)

	require.Len(t, gen.requests, 1)
	assert.Less(t, len(gen.requests[0].Prompt), 1500)
}

func TestOptionsDefaultBudget(t *testing.T) {
	opts := Options{}.withDefaultBudget(1234)
	assert.Equal(t, 1234, opts.MaxTokens)
	require.NotNil(t, opts.Temperature)
	assert.InDelta(t, 0.7, *opts.Temperature, 0.001)

	temp := 0.2
	custom := Options{MaxTokens: 99, Temperature: &temp}.withDefaultBudget(1234)
	assert.Equal(t, 99, custom.MaxTokens)
	require.NotNil(t, custom.Temperature)
	assert.InDelta(t, 0.2, *custom.Temperature, 0.001)
}

func TestExplicitZeroTemperaturePreserved(t *testing.T) {
	zero := 0.0
	gen := &stubGenerator{response: "report"}
	a := NewResearchAgent(gen, Options{Temperature: &zero})

	_, err := a.Run(context.Background(), baseContext())
	require.NoError(t, err)

	require.Len(t, gen.requests, 1)
	assert.Zero(t, gen.requests[0].Temperature)
}

func TestTruncateKeepsRuneBoundary(t *testing.T) {
	// 3-byte runes so the byte limit lands mid-rune.
	long := strings.Repeat("€", 200)
	got := truncate(long, summaryLimit)

	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, len(got), summaryLimit+3)

	assert.Equal(t, "short", truncate("short", summaryLimit))
}
