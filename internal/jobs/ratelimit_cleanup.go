package jobs

import (
	"context"
	"time"
)

// CounterCleaner deletes stale rate limit counters
type CounterCleaner interface {
	Cleanup(ctx context.Context, olderThan time.Duration, batch int) (int, error)
}

// RateLimitCleanup deletes counters untouched for the retention period, one
// bounded batch per run.
type RateLimitCleanup struct {
	cleaner   CounterCleaner
	retention time.Duration
	batch     int
}

// NewRateLimitCleanup creates the cleanupRateLimits job
func NewRateLimitCleanup(cleaner CounterCleaner, retention time.Duration, batch int) *RateLimitCleanup {
	if batch <= 0 {
		batch = 500
	}
	return &RateLimitCleanup{cleaner: cleaner, retention: retention, batch: batch}
}

func (j *RateLimitCleanup) Name() string { return "cleanupRateLimits" }

func (j *RateLimitCleanup) Run(ctx context.Context) (int, error) {
	return j.cleaner.Cleanup(ctx, j.retention, j.batch)
}
