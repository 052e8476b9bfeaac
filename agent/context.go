package agent

import "sort"

// Context is the accumulating key-value record threaded through every phase
// of the workflow. It grows monotonically: each phase commits its fragments
// between phases, and no phase ever overwrites a key written by another.
//
// Context values are treated as immutable once stored. Agents receive a
// Clone and must not modify it; the orchestrator is the only writer, and it
// writes only through Merge on the coordinating goroutine.
type Context map[string]any

// NewContext returns an empty context.
func NewContext() Context {
	return make(Context)
}

// Clone returns a shallow copy of the context. Stored values are never
// mutated after insertion, so a shallow copy is a safe snapshot.
func (c Context) Clone() Context {
	snapshot := make(Context, len(c))
	for k, v := range c {
		snapshot[k] = v
	}
	return snapshot
}

// Get returns the value stored under key.
func (c Context) Get(key string) (any, bool) {
	v, ok := c[key]
	return v, ok
}

// GetString returns the string stored under key, or "" when the key is
// absent or holds a non-string value.
func (c Context) GetString(key string) string {
	if v, ok := c[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// RequireString returns the string stored under key or a *MissingFieldError
// naming the requesting agent when the key is absent or empty.
func (c Context) RequireString(agentName, key string) (string, error) {
	s := c.GetString(key)
	if s == "" {
		return "", &MissingFieldError{Agent: agentName, Field: key}
	}
	return s, nil
}

// Keys returns all keys in sorted order.
func (c Context) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Merge returns a new context holding the key-wise union of c and the
// fragment. It fails with a *DuplicateKeyError if the fragment writes a key
// already present; that is a wiring bug between phases, not a runtime
// condition to recover from. The receiver is never modified.
func (c Context) Merge(frag *Fragment) (Context, error) {
	merged := c.Clone()
	for _, key := range frag.Keys() {
		if _, exists := merged[key]; exists {
			return nil, &DuplicateKeyError{Key: key, Agent: frag.Agent}
		}
		merged[key] = frag.Values[key]
	}
	return merged, nil
}
