package knowledge

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// SourceFunc pulls the current set of records from wherever the corpus
// lives (typically the project tracker's export API).
type SourceFunc func(ctx context.Context) ([]Record, error)

// Refresher periodically re-pulls the corpus from a source and upserts it
// into a store, keeping the index warm between runs.
type Refresher struct {
	store   Store
	source  SourceFunc
	cron    *cron.Cron
	timeout time.Duration
}

// NewRefresher creates a refresher syncing source into store. Each sync is
// bounded by timeout (default 2 minutes).
func NewRefresher(store Store, source SourceFunc, timeout time.Duration) *Refresher {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Refresher{
		store:   store,
		source:  source,
		cron:    cron.New(),
		timeout: timeout,
	}
}

// SyncOnce pulls the corpus and upserts it immediately.
func (r *Refresher) SyncOnce(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	records, err := r.source(ctx)
	if err != nil {
		return 0, fmt.Errorf("pull records: %w", err)
	}
	if err := r.store.Upsert(ctx, records); err != nil {
		return 0, fmt.Errorf("upsert records: %w", err)
	}
	return len(records), nil
}

// Start schedules syncs on the given cron expression (e.g. "@hourly") and
// runs them until Stop is called. Sync failures are logged, not fatal.
func (r *Refresher) Start(spec string) error {
	_, err := r.cron.AddFunc(spec, func() {
		n, err := r.SyncOnce(context.Background())
		if err != nil {
			log.Printf("[knowledge] scheduled sync failed: %v", err)
			return
		}
		log.Printf("[knowledge] synced %d records", n)
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}

	r.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running sync to finish.
func (r *Refresher) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}
