package agent

import "context"

// Agent is a single unit of work in the ideation workflow.
// External packages should implement this interface for custom agents.
//
// Implementations must treat the supplied Context as read-only and must be
// idempotent with respect to it: calling Run twice with the same snapshot is
// always safe. The generated text may differ between calls, but the shape of
// the returned Fragment (its key set) must not.
type Agent interface {
	// Name returns the unique identifier for this agent instance.
	// Agent names must be unique within a phase.
	Name() string

	// Run executes the agent against a context snapshot and returns the
	// fragment of keys it produces. It fails with a *GenerationError when
	// the text-generation capability errors and with a *MissingFieldError
	// when a required input key is absent from the snapshot.
	Run(ctx context.Context, c Context) (*Fragment, error)
}
