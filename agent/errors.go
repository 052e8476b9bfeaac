package agent

import (
	"fmt"
	"sort"
	"strings"
)

// MissingFieldError reports that an agent was given a context lacking a key
// it statically requires. This is a precondition violation: the phase that
// should have produced the key did not run or was wired incorrectly.
type MissingFieldError struct {
	Agent string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("agent %s: required context field %q is missing", e.Agent, e.Field)
}

// GenerationError reports a fault in the external text-generation
// capability: timeout, provider rejection, or a malformed or empty
// response. The underlying provider error is preserved for unwrapping.
type GenerationError struct {
	Agent string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("agent %s: generation failed: %v", e.Agent, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// DuplicateKeyError reports that a fragment attempted to write a context key
// already written by an earlier phase. Two phases wired to the same output
// key is a programming error, not a recoverable runtime condition.
type DuplicateKeyError struct {
	Key   string
	Agent string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("agent %s: context key %q already written by an earlier phase", e.Agent, e.Key)
}

// ParallelError aggregates the per-agent outcomes of a fan-out phase in
// which at least one agent failed. Fragments from agents that succeeded are
// preserved so a caller can inspect partial results or choose degraded
// continuation; the orchestrator treats any non-empty failure set as fatal.
type ParallelError struct {
	// Fragments holds the successful results keyed by agent name.
	Fragments map[string]*Fragment

	// Failures holds the error for each agent that failed.
	Failures map[string]error
}

func (e *ParallelError) Error() string {
	failed := e.FailedAgents()
	parts := make([]string, 0, len(failed))
	for _, name := range failed {
		parts = append(parts, fmt.Sprintf("%s: %v", name, e.Failures[name]))
	}
	return fmt.Sprintf("parallel phase: %d of %d agents failed: %s",
		len(e.Failures), len(e.Failures)+len(e.Fragments), strings.Join(parts, "; "))
}

// Unwrap exposes the per-agent failures to errors.Is and errors.As, in
// sorted agent-name order.
func (e *ParallelError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, name := range e.FailedAgents() {
		errs = append(errs, e.Failures[name])
	}
	return errs
}

// FailedAgents returns the names of the failed agents in sorted order.
func (e *ParallelError) FailedAgents() []string {
	names := make([]string, 0, len(e.Failures))
	for name := range e.Failures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
