// Package notify delivers run reports. Delivery is best effort: a failing
// sink never changes the outcome of a run.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"ipcynab/internal/core"
)

// Sink receives the report of a finished run.
type Sink interface {
	Send(ctx context.Context, report core.RunReport) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, report core.RunReport) error

func (f SinkFunc) Send(ctx context.Context, report core.RunReport) error { return f(ctx, report) }

// Fanout sends a report to every sink concurrently.
type Fanout []Sink

// Send waits for all sinks and joins their errors.
func (f Fanout) Send(ctx context.Context, report core.RunReport) error {
	errs := make([]error, len(f))
	var g errgroup.Group
	for i, s := range f {
		if s == nil {
			continue
		}
		g.Go(func() error {
			if err := s.Send(ctx, report); err != nil {
				errs[i] = fmt.Errorf("sink %d (%T): %w", i, s, err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

// LogSink writes the summary to a slog logger.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Send(ctx context.Context, report core.RunReport) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	updated, skipped, errored := report.Counts()
	level := slog.LevelInfo
	if report.Status != core.RunOK {
		level = slog.LevelWarn
	}
	logger.Log(ctx, level, Subject(report),
		"status", report.Status,
		"updated", updated,
		"skipped", skipped,
		"errored", errored,
		"summary", Body(report))
	return nil
}
