// Package scheduler runs a job once a day at a fixed UTC time.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/mcoot/crackthecode/internal/dependencies/clock"
	"github.com/mcoot/crackthecode/internal/model"
)

// Job is the daily work. date is the UTC date of the run.
type Job func(ctx context.Context, date string) (int, error)

// AfterFunc returns a channel that fires after d. time.After in production.
type AfterFunc func(d time.Duration) <-chan time.Time

// Config sets the UTC time of day the job runs
type Config struct {
	Hour   int
	Minute int
}

// DefaultConfig runs at 00:05 UTC
func DefaultConfig() Config {
	return Config{Hour: 0, Minute: 5}
}

// Scheduler runs a Job daily until its context is cancelled
type Scheduler struct {
	name   string
	job    Job
	cfg    Config
	clock  clock.Clock
	after  AfterFunc
	logger *slog.Logger
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithAfterFunc replaces the timer source
func WithAfterFunc(after AfterFunc) Option {
	return func(s *Scheduler) {
		s.after = after
	}
}

// New creates a Scheduler for job
func New(name string, job Job, cfg Config, clock clock.Clock, logger *slog.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		name:   name,
		job:    job,
		cfg:    cfg,
		clock:  clock,
		after:  time.After,
		logger: logger.With("job", name),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start runs the scheduler in a goroutine. The returned channel closes when it stops.
func (s *Scheduler) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx)
	}()
	return done
}

// Run blocks, running the job at each scheduled time, until ctx is cancelled
func (s *Scheduler) Run(ctx context.Context) {
	var last time.Time
	for {
		now := s.clock.Now().UTC()
		from := now
		if last.After(from) {
			from = last
		}
		next := NextRun(from, s.cfg.Hour, s.cfg.Minute)
		s.logger.Debug("next run scheduled", "at", next)

		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		case <-s.after(next.Sub(now)):
		}

		last = next
		s.runOnce(ctx, model.DateOf(next))
	}
}

func (s *Scheduler) runOnce(ctx context.Context, date string) {
	started := s.clock.Now()
	count, err := s.job(ctx, date)
	if err != nil {
		s.logger.Error("scheduled run failed", "date", date, "error", err)
		return
	}
	s.logger.Info("scheduled run complete",
		"date", date,
		"affected", count,
		"duration", clock.Since(s.clock, started),
	)
}

// NextRun returns the first hour:minute UTC strictly after now
func NextRun(now time.Time, hour, minute int) time.Time {
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
