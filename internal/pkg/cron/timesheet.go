package cron

import (
	"context"
	"log/slog"
	"time"
)

// StaleSessionCloser closes sessions that stayed open past the allowed age.
// Implemented by the timesheet service.
type StaleSessionCloser interface {
	CloseStaleSessions(ctx context.Context, maxOpen time.Duration) (int, error)
}

type TimesheetJobs struct {
	closer  StaleSessionCloser
	maxOpen time.Duration
}

func NewTimesheetJobs(closer StaleSessionCloser, maxOpen time.Duration) *TimesheetJobs {
	return &TimesheetJobs{
		closer:  closer,
		maxOpen: maxOpen,
	}
}

func (j *TimesheetJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("close_stale_sessions", interval, j.CloseStaleSessions)
}

// CloseStaleSessions punches out sessions whose punch-in is older than the
// configured maximum. Forgotten punch-outs would otherwise hold the
// one-active-session slot forever.
func (j *TimesheetJobs) CloseStaleSessions(ctx context.Context) error {
	closed, err := j.closer.CloseStaleSessions(ctx, j.maxOpen)
	if err != nil {
		return err
	}
	if closed > 0 {
		slog.Info("Cron: closed stale timesheet sessions", "count", closed, "max_open", j.maxOpen)
	}
	return nil
}
