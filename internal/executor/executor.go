// Package executor runs a set of independent agents concurrently against a
// shared context snapshot and joins all of them before returning. It never
// cancels siblings when one agent fails: the agents are independent, and
// discarding nearly finished generation work only wastes cost.
package executor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"

	"github.com/ideaforge-dev/ideaforge/agent"
	"github.com/ideaforge-dev/ideaforge/internal/observability"
)

// Group executes fan-out phases.
type Group struct {
	limit int64
}

// Option configures a Group.
type Option func(*Group)

// WithLimit caps the number of concurrently running agents. Zero or
// negative means unlimited.
func WithLimit(n int64) Option {
	return func(g *Group) { g.limit = n }
}

// NewGroup creates an executor group.
func NewGroup(opts ...Option) *Group {
	g := &Group{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Run launches every agent concurrently against the same context snapshot
// and waits for all of them. On full success it returns a fragment for
// every agent, keyed by name. If any agent fails it still waits for the
// rest, then returns a *agent.ParallelError carrying every successful
// fragment and every failure. There are no retries here; retry policy
// belongs to the generation boundary.
//
// Agent names must be unique within one call.
func (g *Group) Run(ctx context.Context, agents []agent.Agent, snapshot agent.Context) (map[string]*agent.Fragment, error) {
	if len(agents) == 0 {
		return map[string]*agent.Fragment{}, nil
	}
	if err := checkNames(agents); err != nil {
		return nil, err
	}

	ctx, span := observability.StartSpan(ctx, "executor.fanout",
		trace.WithAttributes(
			attribute.Int("executor.agent_count", len(agents)),
			attribute.StringSlice("executor.agents", names(agents)),
		),
	)
	defer span.End()

	var sem *semaphore.Weighted
	if g.limit > 0 {
		sem = semaphore.NewWeighted(g.limit)
	}

	var (
		mu        sync.Mutex
		fragments = make(map[string]*agent.Fragment, len(agents))
		failures  = make(map[string]error)
		wg        sync.WaitGroup
	)

	for _, a := range agents {
		wg.Add(1)
		go func(a agent.Agent) {
			defer wg.Done()

			if sem != nil {
				if err := sem.Acquire(ctx, 1); err != nil {
					mu.Lock()
					failures[a.Name()] = err
					mu.Unlock()
					return
				}
				defer sem.Release(1)
			}

			start := time.Now()
			frag, err := a.Run(ctx, snapshot)
			elapsed := time.Since(start).Seconds()

			mu.Lock()
			if err != nil {
				failures[a.Name()] = err
				observability.ObserveAgent(a.Name(), "error", elapsed)
			} else {
				fragments[a.Name()] = frag
				observability.ObserveAgent(a.Name(), "ok", elapsed)
			}
			mu.Unlock()
		}(a)
	}

	wg.Wait()

	span.SetAttributes(
		attribute.Int("executor.success_count", len(fragments)),
		attribute.Int("executor.failure_count", len(failures)),
	)

	if len(failures) > 0 {
		perr := &agent.ParallelError{Fragments: fragments, Failures: failures}
		span.RecordError(perr)
		return nil, perr
	}
	return fragments, nil
}

func checkNames(agents []agent.Agent) error {
	seen := make(map[string]struct{}, len(agents))
	for _, a := range agents {
		if _, dup := seen[a.Name()]; dup {
			return fmt.Errorf("duplicate agent name in fan-out: %s", a.Name())
		}
		seen[a.Name()] = struct{}{}
	}
	return nil
}

func names(agents []agent.Agent) []string {
	out := make([]string, len(agents))
	for i, a := range agents {
		out[i] = a.Name()
	}
	return out
}
