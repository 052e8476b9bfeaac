package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ideaforge-dev/ideaforge/agent"
	"github.com/ideaforge-dev/ideaforge/internal/agents"
	"github.com/ideaforge-dev/ideaforge/internal/knowledge"
	"github.com/ideaforge-dev/ideaforge/internal/llm"
)

// scriptedGenerator answers each role by recognizing its prompt preamble,
// so parallel completion order cannot influence which answer a role gets.
type scriptedGenerator struct{}

func (scriptedGenerator) Generate(_ context.Context, req llm.Request) (string, error) {
	switch {
	case strings.HasPrefix(req.Prompt, "Analyze this project idea"):
		return "Market research: crowded space, mobile-first gap.", nil
	case strings.HasPrefix(req.Prompt, "Create an MVP feature plan"):
		return "1. Recipe upload 2. Search 3. Ratings", nil
	case strings.HasPrefix(req.Prompt, "Recommend a tech stack"):
		return "Go backend, Postgres, React frontend.", nil
	case strings.HasPrefix(req.Prompt, "Identify reusable components"):
		return "Reuse the auth service and image pipeline.", nil
	case strings.HasPrefix(req.Prompt, "Validate this project specification"):
		return "Verdict: GO. Feasible with a small team.", nil
	}
	return "", errors.New("unrecognized prompt")
}

func (scriptedGenerator) Name() string { return "scripted" }

type recordingSink struct {
	mu    sync.Mutex
	specs []*Specification
	paths []string
	err   error
}

func (s *recordingSink) Persist(_ context.Context, _ string, spec *Specification) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.specs = append(s.specs, spec)
	if s.err != nil {
		return nil, s.err
	}
	return s.paths, nil
}

type recordingPublisher struct {
	calls int
	err   error
}

func (p *recordingPublisher) Publish(context.Context, *Specification) error {
	p.calls++
	return p.err
}

// stubAgent is a hand-wired role for failure and determinism tests.
type stubAgent struct {
	name   string
	values map[string]any
	err    error
	block  bool
}

func (a *stubAgent) Name() string { return a.name }

func (a *stubAgent) Run(ctx context.Context, _ agent.Context) (*agent.Fragment, error) {
	if a.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if a.err != nil {
		return nil, a.err
	}
	return agent.NewFragment(a.name, a.values), nil
}

func realAgentConfig(sink Sink, store knowledge.Store) Config {
	gen := scriptedGenerator{}
	lookup := knowledge.NewLookup(store)
	return Config{
		Research: agents.NewResearchAgent(gen, agents.Options{}),
		Planners: []agent.Agent{
			agents.NewFeaturePlannerAgent(gen, agents.Options{}),
			agents.NewTechstackAgent(gen, agents.Options{}),
			agents.NewReusabilityAgent(gen, lookup, agents.Options{}),
		},
		Validator: agents.NewValidatorAgent(gen, agents.Options{}),
		Sink:      sink,
	}
}

func stubConfig(sink Sink, techstack agent.Agent) Config {
	return Config{
		Research: &stubAgent{name: "research", values: map[string]any{"research": "report"}},
		Planners: []agent.Agent{
			&stubAgent{name: "features", values: map[string]any{"features": "plan"}},
			techstack,
			&stubAgent{name: "reusability", values: map[string]any{"reusable_assets": "assets"}},
		},
		Validator: &stubAgent{name: "validator", values: map[string]any{"validation": "GO"}},
		Sink:      sink,
	}
}

func TestRunHappyPath(t *testing.T) {
	sink := &recordingSink{paths: []string{"out/project-spec.json", "out/project-spec.md"}}
	store := knowledge.NewMemoryStore(knowledge.Record{
		ID:          "proj-7",
		Title:       "CookBook",
		Description: "recipe sharing platform for home cooks",
	})

	o, err := New(realAgentConfig(sink, store))
	require.NoError(t, err)

	report, err := o.Run(context.Background(),
		"run-1", "A recipe sharing platform for home cooks.")
	require.NoError(t, err)

	assert.Equal(t, OutcomeSucceeded, report.Outcome)
	assert.Empty(t, report.OutputFaults)
	assert.Equal(t, sink.paths, report.OutputPaths)
	require.Len(t, report.Phases, len(phaseOrder))
	for _, pr := range report.Phases {
		assert.Equal(t, PhaseCompleted, pr.Status, pr.Name)
	}

	spec := report.Spec
	require.NotNil(t, spec)
	assert.Equal(t, SpecVersion, spec.Version)
	assert.Equal(t, "A recipe sharing platform for home cooks", spec.Project.Title)
	assert.Equal(t, "web-app", spec.Project.Type)
	assert.NotEmpty(t, spec.Research)
	assert.NotEmpty(t, spec.Features)
	assert.NotEmpty(t, spec.Techstack)
	assert.NotEmpty(t, spec.Reusability.Assets)
	assert.Equal(t, "Verdict: GO. Feasible with a small team.", spec.Validation)
	require.Len(t, spec.Reusability.SimilarProjects, 1)
	assert.Equal(t, "proj-7", spec.Reusability.SimilarProjects[0].ID)

	require.Len(t, sink.specs, 1)
	assert.Equal(t, spec, sink.specs[0])
}

func TestRunPlanningPartialFailure(t *testing.T) {
	sink := &recordingSink{}
	boom := &agent.GenerationError{Agent: "techstack", Err: errors.New("rate limit")}
	o, err := New(stubConfig(sink, &stubAgent{name: "techstack", err: boom}))
	require.NoError(t, err)

	report, err := o.Run(context.Background(), "run-2", "a habit tracker")
	require.Error(t, err)

	assert.Equal(t, OutcomeFailed, report.Outcome)
	assert.Nil(t, report.Spec)
	assert.Empty(t, sink.specs)

	failed := report.FailedPhase()
	require.NotNil(t, failed)
	assert.Equal(t, PhasePlanning, failed.Name)
	assert.Equal(t, []string{"techstack"}, failed.FailedAgents)

	var perr *agent.ParallelError
	require.ErrorAs(t, err, &perr)
	assert.Len(t, perr.Fragments, 2)
	assert.Len(t, perr.Failures, 1)

	byName := map[string]PhaseStatus{}
	for _, pr := range report.Phases {
		byName[pr.Name] = pr.Status
	}
	assert.Equal(t, PhaseSkipped, byName[PhaseConsolidate])
	assert.Equal(t, PhaseSkipped, byName[PhaseValidate])
	assert.Equal(t, PhaseSkipped, byName[PhaseFinalize])
}

func TestRunDeterministicSpecification(t *testing.T) {
	fixed := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	render := func() []byte {
		sink := &recordingSink{}
		o, err := New(realAgentConfig(sink, nil))
		require.NoError(t, err)
		o.now = func() time.Time { return fixed }

		report, err := o.Run(context.Background(), "run-3", "A recipe sharing platform.")
		require.NoError(t, err)

		raw, err := json.Marshal(report.Spec)
		require.NoError(t, err)
		return raw
	}

	first := render()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, render())
	}
}

func TestRunCancellationDiscardsPartialWork(t *testing.T) {
	sink := &recordingSink{}
	o, err := New(stubConfig(sink, &stubAgent{name: "techstack", block: true}))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	report, err := o.Run(ctx, "run-4", "a habit tracker")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, OutcomeFailed, report.Outcome)
	assert.Nil(t, report.Spec)
	assert.Empty(t, sink.specs)

	failed := report.FailedPhase()
	require.NotNil(t, failed)
	assert.Equal(t, PhasePlanning, failed.Name)
}

func TestRunSinkFailureStaysSucceeded(t *testing.T) {
	sink := &recordingSink{err: errors.New("disk full")}
	o, err := New(realAgentConfig(sink, nil))
	require.NoError(t, err)

	report, err := o.Run(context.Background(), "run-5", "a habit tracker")
	require.NoError(t, err)

	assert.Equal(t, OutcomeSucceeded, report.Outcome)
	require.Len(t, report.OutputFaults, 1)
	assert.Contains(t, report.OutputFaults[0], "disk full")
}

func TestRunPublisherFailureStaysSucceeded(t *testing.T) {
	sink := &recordingSink{}
	pub := &recordingPublisher{err: errors.New("tracker unreachable")}
	cfg := realAgentConfig(sink, nil)
	cfg.Publisher = pub

	o, err := New(cfg)
	require.NoError(t, err)

	report, err := o.Run(context.Background(), "run-6", "a habit tracker")
	require.NoError(t, err)

	assert.Equal(t, OutcomeSucceeded, report.Outcome)
	assert.Equal(t, 1, pub.calls)
	require.Len(t, report.OutputFaults, 1)
	assert.Contains(t, report.OutputFaults[0], "tracker unreachable")
}

func TestRunEmptyIdea(t *testing.T) {
	sink := &recordingSink{}
	o, err := New(realAgentConfig(sink, nil))
	require.NoError(t, err)

	report, err := o.Run(context.Background(), "run-7", "   ")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyIdea)
	assert.Equal(t, OutcomeFailed, report.Outcome)

	failed := report.FailedPhase()
	require.NotNil(t, failed)
	assert.Equal(t, PhaseInit, failed.Name)
}

func TestNewRejectsIncompleteWiring(t *testing.T) {
	sink := &recordingSink{}
	base := realAgentConfig(sink, nil)

	missingSink := base
	missingSink.Sink = nil
	_, err := New(missingSink)
	assert.Error(t, err)

	missingPlanners := base
	missingPlanners.Planners = nil
	_, err = New(missingPlanners)
	assert.Error(t, err)

	missingValidator := base
	missingValidator.Validator = nil
	_, err = New(missingValidator)
	assert.Error(t, err)
}
