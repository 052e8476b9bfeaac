package knowledge

import (
	"context"
	"log"
)

// Lookup is the agent-facing face of the knowledge index. Its contract is
// deliberately lossy: a disabled or failing store degrades to an empty
// result. Agents consuming a Lookup never see a lookup error and must not
// treat an empty result as a fault.
type Lookup struct {
	store Store
}

// NewLookup wraps a store. A nil store produces a permanently disabled
// lookup, which is the correct collaborator for runs without a knowledge
// backend configured.
func NewLookup(store Store) *Lookup {
	return &Lookup{store: store}
}

// Enabled reports whether a backing store is configured.
func (l *Lookup) Enabled() bool {
	return l != nil && l.store != nil
}

// FindSimilar returns up to limit records similar to the query. It returns
// an empty slice when the lookup is disabled or the store errors.
func (l *Lookup) FindSimilar(ctx context.Context, query string, limit int) []Record {
	if !l.Enabled() {
		return nil
	}

	records, err := l.store.SearchSimilar(ctx, query, limit)
	if err != nil {
		log.Printf("[knowledge] similar-project lookup failed, continuing without: %v", err)
		return nil
	}
	return records
}
