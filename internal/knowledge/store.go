// Package knowledge provides the similar-project lookup used to enrich the
// reusability agent. The lookup is best-effort by contract: when the backing
// store is disabled or errors, callers get an empty result, never a failure.
package knowledge

import (
	"context"
	"sort"
	"strings"
)

// Record is one indexed past project.
type Record struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
	Score       float64  `json:"score,omitempty"`
}

// Store indexes past-project records and serves similarity queries.
type Store interface {
	// Upsert inserts or replaces records by ID.
	Upsert(ctx context.Context, records []Record) error

	// SearchSimilar returns up to limit records ordered by descending
	// relevance to the query.
	SearchSimilar(ctx context.Context, query string, limit int) ([]Record, error)

	// Close releases the store's resources.
	Close() error
}

// scoreRecord ranks a record against a query by token overlap over title,
// description and tags. Good enough for the small per-team corpora this
// index holds; backends that can rank natively may ignore it.
func scoreRecord(query string, rec Record) float64 {
	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return 0
	}

	haystack := make(map[string]struct{})
	for _, tok := range tokenize(rec.Title + " " + rec.Description + " " + strings.Join(rec.Tags, " ")) {
		haystack[tok] = struct{}{}
	}

	matches := 0
	for _, tok := range queryTokens {
		if _, ok := haystack[tok]; ok {
			matches++
		}
	}
	return float64(matches) / float64(len(queryTokens))
}

func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) > 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// rankRecords scores, filters and sorts records for a query.
func rankRecords(query string, records []Record, limit int) []Record {
	ranked := make([]Record, 0, len(records))
	for _, rec := range records {
		score := scoreRecord(query, rec)
		if score <= 0 {
			continue
		}
		rec.Score = score
		ranked = append(ranked, rec)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ID < ranked[j].ID
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
