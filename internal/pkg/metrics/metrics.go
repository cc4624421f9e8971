// Package metrics provides Prometheus instrumentation for callables, the
// rate limiter, the content filter and the scheduled jobs.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// CallsTotal counts callable invocations by operation and outcome
	// (an error code, or "ok").
	CallsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "neighborly_calls_total",
		Help: "Total number of callable invocations",
	}, []string{"operation", "outcome"})

	// RateLimitRejections counts calls refused by the rate limiter.
	RateLimitRejections = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "neighborly_rate_limit_rejections_total",
		Help: "Total number of calls refused by the rate limiter",
	}, []string{"action"})

	// RateLimitConflicts counts optimistic transaction retries on counters.
	RateLimitConflicts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "neighborly_rate_limit_conflicts_total",
		Help: "Total number of counter transaction conflicts",
	})

	// ContentRejections counts texts rejected by the content filter, by code.
	ContentRejections = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "neighborly_content_rejections_total",
		Help: "Total number of texts rejected by the content filter",
	}, []string{"code"})

	// JobRuns counts scheduled job runs by job and outcome.
	JobRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "neighborly_job_runs_total",
		Help: "Total number of scheduled job runs",
	}, []string{"job", "outcome"}) // outcome = "ok", "error"

	// JobItems counts records changed by scheduled jobs.
	JobItems = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "neighborly_job_items_total",
		Help: "Total number of records processed by scheduled jobs",
	}, []string{"job"})

	// JobDuration records scheduled job run time in seconds.
	JobDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "neighborly_job_duration_seconds",
		Help:    "Scheduled job run time in seconds",
		Buckets: []float64{.1, .5, 1, 5, 15, 30, 60, 120, 300},
	}, []string{"job"})
)

func init() {
	prometheus.MustRegister(
		CallsTotal,
		RateLimitRejections,
		RateLimitConflicts,
		ContentRejections,
		JobRuns,
		JobItems,
		JobDuration,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
