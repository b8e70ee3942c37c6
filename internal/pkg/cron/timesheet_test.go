package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeStaleSessionCloser struct {
	calls   int
	maxOpen time.Duration
	closed  int
	err     error
}

func (f *fakeStaleSessionCloser) CloseStaleSessions(ctx context.Context, maxOpen time.Duration) (int, error) {
	f.calls++
	f.maxOpen = maxOpen
	return f.closed, f.err
}

func TestTimesheetJobs_SweepRunsThroughScheduler(t *testing.T) {
	closer := &fakeStaleSessionCloser{closed: 2}
	jobs := NewTimesheetJobs(closer, 16*time.Hour)

	scheduler := NewScheduler()
	jobs.RegisterJobs(scheduler, 30*time.Minute)
	scheduler.RunOnce(context.Background())

	assert.Equal(t, 1, closer.calls)
	assert.Equal(t, 16*time.Hour, closer.maxOpen)
}

func TestTimesheetJobs_CloseStaleSessions_PropagatesError(t *testing.T) {
	closer := &fakeStaleSessionCloser{err: errors.New("store unavailable")}
	jobs := NewTimesheetJobs(closer, 16*time.Hour)

	err := jobs.CloseStaleSessions(context.Background())
	assert.ErrorContains(t, err, "store unavailable")
}
