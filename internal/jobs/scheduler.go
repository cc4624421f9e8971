// Package jobs runs the periodic maintenance tasks: strike decay and rate limit
// counter cleanup. Jobs log their failures and never return them to a caller;
// the next run picks up whatever a failed run left behind.
package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/neighborly/neighborly-api/internal/pkg/metrics"
)

// Job is one scheduled task. Run returns the number of records it changed.
type Job interface {
	Name() string
	Run(ctx context.Context) (int, error)
}

// Scheduler fires every job on a fixed interval, one after another
type Scheduler struct {
	jobs     []Job
	interval time.Duration
	timeout  time.Duration
}

// NewScheduler creates a scheduler
func NewScheduler(interval time.Duration, jobs ...Job) *Scheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Scheduler{jobs: jobs, interval: interval, timeout: 10 * time.Minute}
}

// Start runs all jobs immediately and then on every tick until ctx is done
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Scheduler stopped")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce runs every job once
func (s *Scheduler) RunOnce(ctx context.Context) {
	for _, j := range s.jobs {
		if ctx.Err() != nil {
			return
		}
		s.run(ctx, j)
	}
}

func (s *Scheduler) run(parent context.Context, j Job) {
	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()

	start := time.Now()
	n, err := j.Run(ctx)
	elapsed := time.Since(start)

	metrics.JobDuration.WithLabelValues(j.Name()).Observe(elapsed.Seconds())
	metrics.JobItems.WithLabelValues(j.Name()).Add(float64(n))

	if err != nil {
		metrics.JobRuns.WithLabelValues(j.Name(), "error").Inc()
		log.Error().
			Err(err).
			Str("job", j.Name()).
			Int("items", n).
			Dur("duration", elapsed).
			Msg("Scheduled job failed")
		return
	}

	metrics.JobRuns.WithLabelValues(j.Name(), "ok").Inc()
	log.Info().
		Str("job", j.Name()).
		Int("items", n).
		Dur("duration", elapsed).
		Msg("Scheduled job finished")
}
