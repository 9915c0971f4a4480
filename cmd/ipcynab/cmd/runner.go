package cmd

import (
	"context"
	"fmt"
	"time"

	"ipcynab/internal/backend"
	"ipcynab/internal/budget"
	"ipcynab/internal/config"
	"ipcynab/internal/core"
	applog "ipcynab/internal/log"
	"ipcynab/internal/notify"
	"ipcynab/internal/params"
	"ipcynab/internal/services"
	"ipcynab/internal/stats"
)

// reportTimeout bounds delivery of a report for a run that never started.
const reportTimeout = 30 * time.Second

// runner loads run parameters from the store on every run, so parameter
// changes apply to the next scheduled run.
type runner struct {
	params   params.Store
	sources  stats.Sources
	newStore func(params.RunParameters) budget.CategoryStore
	sink     notify.Sink
	locker   services.Locker
	lockTTL  time.Duration
	unit     int64
	logger   *applog.Logger

	mode   string
	dryRun bool
}

func newRunner(cfg *config.Config, res *backend.Result, mode string, dryRun bool) *runner {
	return &runner{
		params:  res.Params,
		sources: backend.NewSources(cfg),
		newStore: func(p params.RunParameters) budget.CategoryStore {
			return backend.NewCategoryStore(cfg, p)
		},
		sink:    res.Sinks,
		locker:  res.Locker,
		lockTTL: lockTTL(cfg.RunTimeout),
		unit:    cfg.RoundingUnit,
		logger:  applog.FromSlog(nil, applog.ComponentApp),
		mode:    mode,
		dryRun:  dryRun,
	}
}

// lockTTL keeps the run lock alive for the whole run timeout, so a slow run
// never loses the lock to the next one.
func lockTTL(runTimeout time.Duration) time.Duration {
	return runTimeout + time.Minute
}

// Run resolves the mode (flag, then /ipc/mode, then monthly) and performs
// one reconciliation.
func (r *runner) Run(ctx context.Context) core.RunReport {
	fallback := core.PeriodOverPeriod
	var override core.Basis
	if r.mode != "" {
		m, err := core.ParseMode(r.mode)
		if err != nil {
			return r.abort(ctx, fallback, err)
		}
		override = m
	}

	p, err := params.LoadRunParameters(ctx, r.params, fallback)
	if err != nil {
		mode := fallback
		if override != "" {
			mode = override
		}
		return r.abort(ctx, mode, fmt.Errorf("load run parameters: %w", err))
	}
	if override != "" {
		p.Mode = override
	}

	rec := services.NewReconciler(r.sources, r.newStore(p), r.sink, services.ReconcilerConfig{
		RoundingUnit: r.unit,
		DryRun:       r.dryRun,
		Locker:       r.locker,
		LockTTL:      r.lockTTL,
		Logger:       r.logger,
	})
	return rec.Run(ctx, p.Mode, p.CategoryIDs)
}

// abort reports a run that failed before the reconciler could start.
func (r *runner) abort(ctx context.Context, mode core.Basis, err error) core.RunReport {
	now := time.Now()
	report := core.RunReport{
		Status:     core.RunFailed,
		Mode:       mode,
		StartedAt:  now,
		FinishedAt: now,
		Err:        err,
	}
	r.logger.ErrorContext(ctx, "Run aborted", applog.FieldMode, mode, applog.FieldError, err)
	if r.sink != nil {
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), reportTimeout)
		defer cancel()
		if serr := r.sink.Send(sendCtx, report); serr != nil {
			r.logger.WarnContext(ctx, "Failed to deliver run report", applog.FieldError, serr)
		}
	}
	return report
}
