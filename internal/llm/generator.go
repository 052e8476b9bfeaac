// Package llm is the text-generation boundary of the pipeline. It exposes a
// single narrow capability, Generator, and factory-registered
// implementations for the supported providers. All provider faults surface
// as plain errors here; agents wrap them into the shared error taxonomy.
package llm

import (
	"context"
	"errors"
)

// Request is a single text-generation request: a system instruction, a user
// instruction and an output budget. Model and Temperature fall back to
// provider defaults when zero.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Model       string
	Temperature float64
}

// Generator turns a system instruction and a user instruction into
// generated text. Implementations must honor the context deadline and
// return a non-empty string on success.
type Generator interface {
	// Generate performs one completion call.
	Generate(ctx context.Context, req Request) (string, error)

	// Name returns the provider name (e.g. "openai", "gemini", "bedrock").
	Name() string
}

// ModelLister is implemented by providers that can enumerate the model ids
// available to the configured account.
type ModelLister interface {
	// Models returns the available model ids.
	Models(ctx context.Context) ([]string, error)
}

// ErrEmptyResponse is returned when a provider replies without any usable
// text. Callers treat it like any other generation fault.
var ErrEmptyResponse = errors.New("provider returned an empty response")
