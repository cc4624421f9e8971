package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/neighborly/neighborly-api/internal/pkg/metrics"
)

type countingJob struct {
	name  string
	err   error
	calls int
}

func (j *countingJob) Name() string { return j.name }

func (j *countingJob) Run(ctx context.Context) (int, error) {
	j.calls++
	return 3, j.err
}

func TestRunOnceRunsEveryJobEvenAfterFailure(t *testing.T) {
	failing := &countingJob{name: "testFailing", err: errors.New("boom")}
	ok := &countingJob{name: "testOK"}

	NewScheduler(time.Hour, failing, ok).RunOnce(context.Background())

	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, ok.calls)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.JobRuns.WithLabelValues("testFailing", "error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.JobRuns.WithLabelValues("testOK", "ok")))
	assert.Equal(t, float64(3), testutil.ToFloat64(metrics.JobItems.WithLabelValues("testOK")))
}

func TestRunOnceSkipsJobsAfterCancel(t *testing.T) {
	j := &countingJob{name: "testCancelled"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	NewScheduler(time.Hour, j).RunOnce(ctx)

	assert.Zero(t, j.calls)
}

type signalJob struct {
	ran chan struct{}
}

func (j *signalJob) Name() string { return "testStart" }

func (j *signalJob) Run(ctx context.Context) (int, error) {
	j.ran <- struct{}{}
	return 0, nil
}

func TestStartRunsImmediatelyAndStopsOnCancel(t *testing.T) {
	j := &signalJob{ran: make(chan struct{}, 1)}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		NewScheduler(time.Hour, j).Start(ctx)
		close(done)
	}()

	select {
	case <-j.ran:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
