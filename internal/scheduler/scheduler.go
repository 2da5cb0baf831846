// Package scheduler runs the periodic sweep of expired browser sessions.
// Each session backend that cannot expire entries on its own contributes
// a Job.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/justsurfingit/jobboard-web/internal/auth"
)

// Job is one sweep. Run removes whatever is expired at now and reports
// how many entries went.
type Job struct {
	Name string
	Run  func(ctx context.Context, now time.Time) (int64, error)
}

// ExpiredRows sweeps the web_sessions table.
func ExpiredRows(db *gorm.DB) Job {
	return Job{
		Name: "session rows",
		Run: func(ctx context.Context, now time.Time) (int64, error) {
			return auth.DeleteExpiredSessions(ctx, db, now)
		},
	}
}

// StaleFiles sweeps per-browser session files not written for ttl.
func StaleFiles(dir string, ttl time.Duration) Job {
	return Job{
		Name: "session files",
		Run: func(_ context.Context, now time.Time) (int64, error) {
			return auth.DeleteStaleSessionFiles(dir, now.Add(-ttl))
		},
	}
}

// Scheduler wraps robfig/cron and owns the session sweep.
type Scheduler struct {
	cron *cron.Cron
	jobs []Job
	spec string // cron spec, e.g. "@every 1h"
	now  func() time.Time
}

// New creates a Scheduler that runs jobs on spec.
func New(spec string, jobs ...Job) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLogger(cron.DefaultLogger)),
		jobs: jobs,
		spec: spec,
		now:  time.Now,
	}
}

// Start registers the sweep and starts the scheduler. One sweep also runs
// right away so entries left over from a previous run go early.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.Sweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	slog.Info("session sweeper started", "spec", s.spec, "jobs", len(s.jobs))

	go s.Sweep(ctx)

	return nil
}

// Stop shuts the scheduler down and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("session sweeper stopped")
}

// Sweep runs every job once and reports how many entries went in total.
// A failing job is logged and does not stop the others.
func (s *Scheduler) Sweep(ctx context.Context) int64 {
	now := s.now()
	var total int64
	for _, job := range s.jobs {
		n, err := job.Run(ctx, now)
		if err != nil {
			slog.Error("session sweep failed", "job", job.Name, "err", err)
		}
		if n > 0 {
			slog.Info("expired sessions removed", "job", job.Name, "count", n)
		}
		total += n
	}
	return total
}
