package knowledge

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory record index using brute-force scoring.
// Suitable for tests and single-run CLI use; not for large corpora.
type MemoryStore struct {
	records map[string]Record
	mu      sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store, optionally seeded.
func NewMemoryStore(seed ...Record) *MemoryStore {
	s := &MemoryStore{records: make(map[string]Record, len(seed))}
	for _, rec := range seed {
		s.records[rec.ID] = rec
	}
	return s
}

// Upsert inserts or replaces records by ID.
func (s *MemoryStore) Upsert(ctx context.Context, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range records {
		s.records[rec.ID] = rec
	}
	return nil
}

// SearchSimilar returns the best-matching records for the query.
func (s *MemoryStore) SearchSimilar(ctx context.Context, query string, limit int) ([]Record, error) {
	s.mu.RLock()
	all := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		all = append(all, rec)
	}
	s.mu.RUnlock()

	return rankRecords(query, all, limit), nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }
