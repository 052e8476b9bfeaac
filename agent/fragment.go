package agent

import "sort"

// Status marks the outcome recorded on a fragment. A failed agent run is
// reported as an error, not a status value; the status exists for
// diagnostics on fragments that were produced.
type Status string

// StatusCompleted is the status of every fragment returned by a successful
// agent run.
const StatusCompleted Status = "completed"

// Fragment is the partial result contributed by exactly one agent
// invocation. It records the producing agent's identity for diagnostics and
// the keys the agent contributes to the run context.
type Fragment struct {
	// Agent is the name of the producing agent.
	Agent string

	// Status is the outcome marker, StatusCompleted for returned fragments.
	Status Status

	// Values holds the keys this invocation contributes.
	Values map[string]any
}

// NewFragment creates a completed fragment for the named agent.
func NewFragment(agentName string, values map[string]any) *Fragment {
	if values == nil {
		values = make(map[string]any)
	}
	return &Fragment{
		Agent:  agentName,
		Status: StatusCompleted,
		Values: values,
	}
}

// Keys returns the fragment's keys in sorted order. Merging iterates this
// slice so that merge results do not depend on map iteration order.
func (f *Fragment) Keys() []string {
	keys := make([]string, 0, len(f.Values))
	for k := range f.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
