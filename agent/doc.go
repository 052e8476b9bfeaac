// Package agent defines the shared contract between the workflow
// orchestrator and the units of work it drives.
//
// An Agent consumes an immutable snapshot of the run Context and returns a
// Fragment: the set of keys it contributes to the run. Agents never write to
// shared state; all merging happens on the coordinating goroutine between
// phases via Context.Merge.
//
// The package also defines the error taxonomy shared across the pipeline:
// MissingFieldError, GenerationError, DuplicateKeyError and ParallelError.
package agent
