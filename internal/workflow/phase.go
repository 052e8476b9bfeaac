package workflow

import "time"

// Mode distinguishes how a phase drives its agents.
type Mode string

const (
	// ModeSequential runs a single agent on the coordinating goroutine.
	ModeSequential Mode = "sequential"
	// ModeParallel fans a snapshot out to several agents at once.
	ModeParallel Mode = "parallel"
	// ModeInternal marks phases that run no agents at all.
	ModeInternal Mode = "internal"
)

// The fixed phase sequence. Ordinals are stable identifiers used in
// reports and logs; the orchestrator always walks them in order.
const (
	PhaseInit        = "init"
	PhaseResearch    = "research"
	PhasePlanning    = "planning"
	PhaseConsolidate = "consolidate"
	PhaseValidate    = "validate"
	PhaseFinalize    = "finalize"
)

var phaseOrder = []string{
	PhaseInit,
	PhaseResearch,
	PhasePlanning,
	PhaseConsolidate,
	PhaseValidate,
	PhaseFinalize,
}

// PhaseStatus is the terminal state of one phase within a run.
type PhaseStatus string

const (
	// PhaseCompleted means the phase committed its results.
	PhaseCompleted PhaseStatus = "completed"
	// PhaseFailed means the phase faulted; nothing from it was committed.
	PhaseFailed PhaseStatus = "failed"
	// PhaseSkipped means an earlier phase failed before this one started.
	PhaseSkipped PhaseStatus = "skipped"
)

// PhaseReport records the outcome of one phase for diagnostics.
type PhaseReport struct {
	Ordinal      int           `json:"ordinal"`
	Name         string        `json:"name"`
	Mode         Mode          `json:"mode"`
	Status       PhaseStatus   `json:"status"`
	Duration     time.Duration `json:"duration"`
	FailedAgents []string      `json:"failed_agents,omitempty"`
	Err          error         `json:"-"`
}

// Outcome is the terminal state of a whole run.
type Outcome string

const (
	// OutcomeSucceeded means every phase through validation committed and a
	// specification was produced. Output delivery faults do not revoke it.
	OutcomeSucceeded Outcome = "succeeded"
	// OutcomeFailed means a phase faulted and later phases never ran.
	OutcomeFailed Outcome = "failed"
)

// RunReport is the full account of one workflow run.
type RunReport struct {
	RunID       string         `json:"run_id"`
	Idea        string         `json:"idea"`
	Outcome     Outcome        `json:"outcome"`
	Phases      []PhaseReport  `json:"phases"`
	Spec        *Specification `json:"-"`
	OutputPaths []string       `json:"output_paths,omitempty"`

	// OutputFaults lists sink and publisher errors from the finalize
	// phase. They are reported here and nowhere else; a run that produced
	// a specification stays Succeeded even when delivery partially failed.
	OutputFaults []string `json:"output_faults,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Err is the fault that failed the run, nil when Outcome is Succeeded.
	Err error `json:"-"`
}

// FailedPhase returns the report of the phase that failed, or nil for a
// successful run.
func (r *RunReport) FailedPhase() *PhaseReport {
	for i := range r.Phases {
		if r.Phases[i].Status == PhaseFailed {
			return &r.Phases[i]
		}
	}
	return nil
}
