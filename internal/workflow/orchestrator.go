// Package workflow drives the fixed ideation pipeline: a one-line idea in,
// a consolidated project specification out. The orchestrator owns the run
// context and is its only writer; agents only ever see snapshots and hand
// back fragments, which the orchestrator commits between phases in
// registration order so that two runs over identical agent output produce
// byte-identical specifications.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ideaforge-dev/ideaforge/agent"
	"github.com/ideaforge-dev/ideaforge/internal/executor"
	"github.com/ideaforge-dev/ideaforge/internal/observability"
)

// Sink persists a finished specification and returns the paths it wrote.
type Sink interface {
	Persist(ctx context.Context, runID string, spec *Specification) ([]string, error)
}

// Publisher pushes a finished specification to an external system.
// Publishing is best-effort: the orchestrator reports its failure and
// moves on.
type Publisher interface {
	Publish(ctx context.Context, spec *Specification) error
}

// ErrEmptyIdea rejects runs started without an idea to work on.
var ErrEmptyIdea = errors.New("workflow: idea must not be empty")

// Orchestrator executes the pipeline. Construct it with New and reuse it
// across runs; it holds no per-run state.
type Orchestrator struct {
	research  agent.Agent
	planners  []agent.Agent
	validator agent.Agent

	exec      *executor.Group
	sink      Sink
	publisher Publisher

	audience string
	now      func() time.Time
}

// Config wires an Orchestrator.
type Config struct {
	// Research runs alone in the research phase.
	Research agent.Agent
	// Planners fan out concurrently in the planning phase. Their order
	// here is the order their fragments are committed.
	Planners []agent.Agent
	// Validator runs alone in the validation phase.
	Validator agent.Agent
	// Sink receives the finished specification. Required.
	Sink Sink
	// Publisher optionally pushes the specification to a tracker.
	Publisher Publisher
	// TargetAudience seeds the run context when non-empty.
	TargetAudience string
	// ParallelLimit caps planner concurrency, zero means unlimited.
	ParallelLimit int64
}

// New creates an orchestrator from the config.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Research == nil || cfg.Validator == nil {
		return nil, errors.New("workflow: research and validator agents are required")
	}
	if len(cfg.Planners) == 0 {
		return nil, errors.New("workflow: at least one planner agent is required")
	}
	if cfg.Sink == nil {
		return nil, errors.New("workflow: output sink is required")
	}
	return &Orchestrator{
		research:  cfg.Research,
		planners:  cfg.Planners,
		validator: cfg.Validator,
		exec:      executor.NewGroup(executor.WithLimit(cfg.ParallelLimit)),
		sink:      cfg.Sink,
		publisher: cfg.Publisher,
		audience:  cfg.TargetAudience,
		now:       time.Now,
	}, nil
}

// Run executes the full pipeline for one idea. The returned report is
// always non-nil and accounts for every phase; err mirrors report.Err for
// callers that only care whether the run failed.
func (o *Orchestrator) Run(ctx context.Context, runID, idea string) (*RunReport, error) {
	report := &RunReport{
		RunID:     runID,
		Idea:      idea,
		StartedAt: o.now(),
	}

	ctx, span := observability.StartSpan(ctx, "workflow.run",
		trace.WithAttributes(attribute.String("workflow.run_id", runID)),
	)
	defer span.End()

	run := &runState{report: report}
	err := o.runPhases(ctx, run, idea)

	report.FinishedAt = o.now()
	if err != nil {
		report.Outcome = OutcomeFailed
		report.Err = err
		span.RecordError(err)
		observability.ObserveWorkflow("failed")
		log.Printf("[workflow] run %s failed: %v", runID, err)
		return report, err
	}

	report.Outcome = OutcomeSucceeded
	observability.ObserveWorkflow("succeeded")
	log.Printf("[workflow] run %s succeeded, %d output file(s)", runID, len(report.OutputPaths))
	return report, nil
}

// runState accumulates per-run progress while phases execute.
type runState struct {
	c      agent.Context
	spec   *Specification
	report *RunReport
}

func (o *Orchestrator) runPhases(ctx context.Context, run *runState, idea string) error {
	steps := []func(context.Context, *runState) error{
		func(_ context.Context, r *runState) error { return o.initPhase(r, idea) },
		o.researchPhase,
		o.planningPhase,
		o.consolidatePhase,
		o.validatePhase,
		o.finalizePhase,
	}

	for i, step := range steps {
		name := phaseOrder[i]
		if err := ctx.Err(); err != nil {
			o.skipFrom(run.report, i)
			return fmt.Errorf("workflow: cancelled before %s phase: %w", name, err)
		}

		phaseCtx, span := observability.StartSpan(ctx, "workflow.phase."+name)
		start := o.now()
		err := step(phaseCtx, run)
		elapsed := o.now().Sub(start)

		pr := PhaseReport{
			Ordinal:  i,
			Name:     name,
			Mode:     phaseMode(name),
			Duration: elapsed,
		}
		if err != nil {
			pr.Status = PhaseFailed
			pr.Err = err
			pr.FailedAgents = failedAgents(err)
			span.RecordError(err)
		} else {
			pr.Status = PhaseCompleted
		}
		span.End()
		run.report.Phases = append(run.report.Phases, pr)
		observability.ObservePhase(name, string(pr.Status), elapsed.Seconds())

		if err != nil {
			o.skipFrom(run.report, i+1)
			return fmt.Errorf("workflow: %s phase: %w", name, err)
		}
	}
	return nil
}

func (o *Orchestrator) initPhase(run *runState, idea string) error {
	if strings.TrimSpace(idea) == "" {
		return ErrEmptyIdea
	}
	c := agent.NewContext()
	c["idea"] = strings.TrimSpace(idea)
	if o.audience != "" {
		c["target_audience"] = o.audience
	}
	run.c = c
	return nil
}

func (o *Orchestrator) researchPhase(ctx context.Context, run *runState) error {
	return o.runSequential(ctx, run, o.research)
}

func (o *Orchestrator) planningPhase(ctx context.Context, run *runState) error {
	fragments, err := o.exec.Run(ctx, o.planners, run.c.Clone())
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		// Cancelled while joining: nothing is committed.
		return err
	}

	// Commit in registration order, not completion order.
	merged := run.c
	for _, p := range o.planners {
		frag, ok := fragments[p.Name()]
		if !ok {
			return fmt.Errorf("fan-out returned no fragment for agent %s", p.Name())
		}
		merged, err = merged.Merge(frag)
		if err != nil {
			return err
		}
	}
	run.c = merged
	return nil
}

func (o *Orchestrator) consolidatePhase(_ context.Context, run *runState) error {
	spec, err := consolidate(run.c, o.now())
	if err != nil {
		return err
	}

	merged, err := run.c.Merge(agent.NewFragment("consolidate", map[string]any{specKey: spec}))
	if err != nil {
		return err
	}
	run.c = merged
	run.spec = spec
	return nil
}

func (o *Orchestrator) validatePhase(ctx context.Context, run *runState) error {
	return o.runSequential(ctx, run, o.validator)
}

func (o *Orchestrator) finalizePhase(ctx context.Context, run *runState) error {
	final := run.spec.withValidation(run.c.GetString("validation"))
	run.report.Spec = final

	paths, err := o.sink.Persist(ctx, run.report.RunID, final)
	run.report.OutputPaths = paths
	if err != nil {
		run.report.OutputFaults = append(run.report.OutputFaults,
			fmt.Sprintf("sink: %v", err))
		log.Printf("[workflow] run %s: output sink failed: %v", run.report.RunID, err)
	}

	if o.publisher != nil {
		if err := o.publisher.Publish(ctx, final); err != nil {
			run.report.OutputFaults = append(run.report.OutputFaults,
				fmt.Sprintf("publisher: %v", err))
			log.Printf("[workflow] run %s: publish failed: %v", run.report.RunID, err)
		}
	}

	// Delivery faults are reported, never fatal: the specification exists.
	return nil
}

func (o *Orchestrator) runSequential(ctx context.Context, run *runState, a agent.Agent) error {
	start := o.now()
	frag, err := a.Run(ctx, run.c.Clone())
	elapsed := o.now().Sub(start).Seconds()
	if err != nil {
		observability.ObserveAgent(a.Name(), "error", elapsed)
		return err
	}
	observability.ObserveAgent(a.Name(), "ok", elapsed)

	merged, err := run.c.Merge(frag)
	if err != nil {
		return err
	}
	run.c = merged
	return nil
}

func (o *Orchestrator) skipFrom(report *RunReport, next int) {
	for i := next; i < len(phaseOrder); i++ {
		report.Phases = append(report.Phases, PhaseReport{
			Ordinal: i,
			Name:    phaseOrder[i],
			Mode:    phaseMode(phaseOrder[i]),
			Status:  PhaseSkipped,
		})
	}
}

func phaseMode(name string) Mode {
	switch name {
	case PhaseResearch, PhaseValidate:
		return ModeSequential
	case PhasePlanning:
		return ModeParallel
	default:
		return ModeInternal
	}
}

// failedAgents extracts the failing agent names from a phase fault.
func failedAgents(err error) []string {
	var perr *agent.ParallelError
	if errors.As(err, &perr) {
		return perr.FailedAgents()
	}
	var generr *agent.GenerationError
	if errors.As(err, &generr) {
		return []string{generr.Agent}
	}
	var missing *agent.MissingFieldError
	if errors.As(err, &missing) {
		return []string{missing.Agent}
	}
	return nil
}
