package knowledge

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const defaultFirestoreCollection = "ideaforge-knowledge"

// FirestoreStore keeps the record index in a Firestore collection, for
// teams that already run on GCP and want the corpus shared and durable.
// Ranking happens client-side after streaming the collection.
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

// FirestoreConfig holds Firestore connection configuration.
type FirestoreConfig struct {
	// ProjectID is the GCP project (required).
	ProjectID string
	// CredentialsFile optionally points at service-account credentials;
	// otherwise Application Default Credentials are used.
	CredentialsFile string
	// Collection is the collection name (default "ideaforge-knowledge").
	Collection string
}

// NewFirestoreStore connects to Firestore.
func NewFirestoreStore(ctx context.Context, cfg FirestoreConfig) (*FirestoreStore, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("firestore project ID is required")
	}

	collection := cfg.Collection
	if collection == "" {
		collection = defaultFirestoreCollection
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}

	return &FirestoreStore{client: client, collection: collection}, nil
}

// Upsert inserts or replaces records by ID.
func (s *FirestoreStore) Upsert(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	writer := s.client.BulkWriter(ctx)
	for _, rec := range records {
		if rec.ID == "" {
			return fmt.Errorf("record ID is required")
		}
		doc := s.client.Collection(s.collection).Doc(rec.ID)
		if _, err := writer.Set(doc, rec); err != nil {
			return fmt.Errorf("queue record %s: %w", rec.ID, err)
		}
	}
	writer.End()
	return nil
}

// SearchSimilar streams the collection and ranks it client-side.
func (s *FirestoreStore) SearchSimilar(ctx context.Context, query string, limit int) ([]Record, error) {
	iter := s.client.Collection(s.collection).Documents(ctx)
	defer iter.Stop()

	var all []Record
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate records: %w", err)
		}

		var rec Record
		if err := doc.DataTo(&rec); err != nil {
			return nil, fmt.Errorf("decode record %s: %w", doc.Ref.ID, err)
		}
		if rec.ID == "" {
			rec.ID = doc.Ref.ID
		}
		all = append(all, rec)
	}

	return rankRecords(query, all, limit), nil
}

// Close closes the underlying client.
func (s *FirestoreStore) Close() error { return s.client.Close() }
