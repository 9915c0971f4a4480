// Package worker runs reconciliations periodically.
package worker

import (
	"context"
	"time"

	"ipcynab/internal/core"
	applog "ipcynab/internal/log"
)

// RunFunc performs one reconciliation.
type RunFunc func(ctx context.Context) core.RunReport

// Scheduler runs once at start and then on every tick until its context is
// cancelled. Runs never overlap within one process.
type Scheduler struct {
	run      RunFunc
	interval time.Duration
	timeout  time.Duration
	logger   *applog.Logger

	newTicker func(time.Duration) (<-chan time.Time, func())
}

func NewScheduler(run RunFunc, interval, timeout time.Duration, logger *applog.Logger) *Scheduler {
	if logger == nil {
		logger = applog.FromSlog(nil, applog.ComponentScheduler)
	}
	return &Scheduler{
		run:      run,
		interval: interval,
		timeout:  timeout,
		logger:   logger.WithComponent(applog.ComponentScheduler),
		newTicker: func(d time.Duration) (<-chan time.Time, func()) {
			t := time.NewTicker(d)
			return t.C, t.Stop
		},
	}
}

// Start blocks until ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	ticks, stop := s.newTicker(s.interval)
	defer stop()

	s.logger.InfoContext(ctx, "Scheduler started", "interval", s.interval, "run_timeout", s.timeout)
	s.runOnce(ctx, time.Now())

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "Scheduler stopped", "reason", ctx.Err())
			return nil
		case now := <-ticks:
			s.runOnce(ctx, now)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, now time.Time) {
	if ctx.Err() != nil {
		return
	}
	runCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	report := s.run(runCtx)
	updated, skipped, errored := report.Counts()
	args := []any{
		applog.FieldStatus, report.Status,
		applog.FieldPeriod, report.Period(),
		"updated", updated,
		"skipped", skipped,
		"errored", errored,
		"next_run", now.Add(s.interval).Format(time.RFC3339),
	}
	if report.Err != nil {
		args = append(args, applog.FieldError, report.Err, applog.FieldErrorKind, core.Kind(report.Err))
	}
	if report.Failed() {
		s.logger.ErrorContext(ctx, "Scheduled run failed", args...)
		return
	}
	s.logger.InfoContext(ctx, "Scheduled run complete", args...)
}
