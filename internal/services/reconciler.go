package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"ipcynab/internal/budget"
	"ipcynab/internal/core"
	"ipcynab/internal/history"
	applog "ipcynab/internal/log"
	"ipcynab/internal/notify"
	"ipcynab/internal/stats"
)

const lockName = "reconcile"

// Locker guarantees a single run at a time across processes.
type Locker interface {
	TryLock(ctx context.Context, name, owner string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, name, owner string) error
}

type ReconcilerConfig struct {
	RoundingUnit int64 // millicents, default core.DefaultRoundingUnit
	DryRun       bool
	Locker       Locker
	LockTTL      time.Duration // default 15 minutes
	Logger       *applog.Logger
	Now          func() time.Time
}

// Reconciler applies the published inflation rate to budget category targets.
type Reconciler struct {
	sources stats.Sources
	store   budget.CategoryStore
	sink    notify.Sink
	cfg     ReconcilerConfig
	logger  *applog.Logger
	owner   string
}

func NewReconciler(sources stats.Sources, store budget.CategoryStore, sink notify.Sink, cfg ReconcilerConfig) *Reconciler {
	if cfg.RoundingUnit <= 0 {
		cfg.RoundingUnit = core.DefaultRoundingUnit
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 15 * time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = applog.FromSlog(nil, applog.ComponentReconciler)
	}
	host, _ := os.Hostname()
	return &Reconciler{
		sources: sources,
		store:   store,
		sink:    sink,
		cfg:     cfg,
		logger:  logger.WithComponent(applog.ComponentReconciler),
		owner:   fmt.Sprintf("%s:%d", host, os.Getpid()),
	}
}

// Run performs one reconciliation pass over categoryIDs in order. Failures
// that prevent resolving a rate abort the run before any category is read;
// failures of a single category are recorded and the pass continues.
func (r *Reconciler) Run(ctx context.Context, mode core.Basis, categoryIDs []string) core.RunReport {
	report := core.RunReport{Mode: mode, StartedAt: r.cfg.Now()}

	if r.store == nil {
		return r.finish(ctx, report, errors.New("reconciler not properly initialized"))
	}

	if r.cfg.Locker != nil {
		unlock, err := r.lock(ctx)
		if err != nil {
			return r.finish(ctx, report, err)
		}
		defer unlock()
	}

	rate, err := r.resolve(ctx, mode)
	if err != nil {
		return r.finish(ctx, report, err)
	}
	report.Rate = &rate

	r.logger.InfoContext(ctx, "Reconciling categories",
		applog.FieldMode, mode,
		applog.FieldPeriod, rate.Period,
		applog.FieldRate, rate.Percent.String(),
		"categories", len(categoryIDs),
		"dry_run", r.cfg.DryRun)

	report.Results = make([]core.Result, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		if err := ctx.Err(); err != nil {
			// Unprocessed categories stay untouched.
			report.Results = append(report.Results, core.Result{
				CategoryID: id,
				Status:     core.StatusErrored,
				Reason:     fmt.Sprintf("not processed: %v", err),
			})
			continue
		}
		res := r.reconcileCategory(ctx, rate, id)
		r.logResult(ctx, res)
		report.Results = append(report.Results, res)
	}

	return r.finish(ctx, report, nil)
}

func (r *Reconciler) resolve(ctx context.Context, mode core.Basis) (core.Rate, error) {
	if !mode.IsValid() {
		return core.Rate{}, fmt.Errorf("unknown mode %q", mode)
	}
	source, ok := r.sources.For(mode)
	if !ok {
		return core.Rate{}, fmt.Errorf("%w: no statistics source for %s mode", core.ErrSourceUnavailable, mode)
	}
	readings, err := source.FetchIndexReadings(ctx, mode.Window())
	if err != nil {
		if !errors.Is(err, core.ErrSourceUnavailable) && !errors.Is(err, core.ErrInvalidReading) {
			err = fmt.Errorf("%w: %v", core.ErrSourceUnavailable, err)
		}
		return core.Rate{}, fmt.Errorf("fetch index readings: %w", err)
	}
	rate, err := ResolveRate(mode, readings)
	if err != nil {
		return core.Rate{}, fmt.Errorf("resolve rate: %w", err)
	}
	return rate, nil
}

func (r *Reconciler) reconcileCategory(ctx context.Context, rate core.Rate, id string) core.Result {
	res := core.Result{CategoryID: id}

	state, err := r.store.GetCategory(ctx, id)
	if err != nil {
		return errored(res, fmt.Errorf("get category: %w", err))
	}
	res.CategoryName = state.Name
	res.OldAmount = state.TargetMillicents

	if history.HasEntryForPeriod(state.Notes, rate.Period) {
		res.Status = core.StatusSkipped
		res.NewAmount = state.TargetMillicents
		res.Reason = "already updated for period " + rate.Period
		res.Entry, _ = history.EntryForPeriod(state.Notes, rate.Period)
		return res
	}

	newAmount, err := core.NewTarget(state.TargetMillicents, rate.Percent, r.cfg.RoundingUnit)
	if err != nil {
		return errored(res, err)
	}
	res.NewAmount = newAmount
	res.Entry = history.FormatEntry(rate, state.TargetMillicents, newAmount)
	notes := history.Prepend(state.Notes, res.Entry)

	if r.cfg.DryRun {
		res.Status = core.StatusUpdated
		res.Reason = "dry run"
		return res
	}

	if err := r.persist(ctx, id, newAmount, notes); err != nil {
		return errored(res, err)
	}
	res.Status = core.StatusUpdated
	return res
}

// persist prefers a single write so a new target never lands without its
// history entry.
func (r *Reconciler) persist(ctx context.Context, id string, amount int64, notes string) error {
	if u, ok := r.store.(budget.CategoryUpdater); ok {
		if err := u.UpdateCategory(ctx, id, amount, notes); err != nil {
			return fmt.Errorf("update category: %w", err)
		}
		return nil
	}
	if err := r.store.SetCategoryTarget(ctx, id, amount); err != nil {
		return fmt.Errorf("set target: %w", err)
	}
	if err := r.store.SetCategoryNotes(ctx, id, notes); err != nil {
		return fmt.Errorf("target updated but notes not written: %w", err)
	}
	return nil
}

func (r *Reconciler) lock(ctx context.Context) (func(), error) {
	ok, err := r.cfg.Locker.TryLock(ctx, lockName, r.owner, r.cfg.LockTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: acquire lock: %v", core.ErrRunInProgress, err)
	}
	if !ok {
		return nil, core.ErrRunInProgress
	}
	return func() {
		// The run context may already be cancelled.
		unlockCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := r.cfg.Locker.Unlock(unlockCtx, lockName, r.owner); err != nil {
			r.logger.WarnContext(ctx, "Failed to release run lock", applog.FieldError, err)
		}
	}, nil
}

func (r *Reconciler) finish(ctx context.Context, report core.RunReport, fatal error) core.RunReport {
	report.FinishedAt = r.cfg.Now()
	report.Err = fatal
	report.Status = overallStatus(report, fatal)

	if fatal != nil {
		r.logger.ErrorContext(ctx, "Reconciliation aborted",
			applog.NewFields().WithError(fatal, core.Kind(fatal)).WithOperation(applog.OpResolve).ToSlice()...)
	} else {
		updated, skipped, errored := report.Counts()
		r.logger.InfoContext(ctx, "Reconciliation complete",
			applog.FieldStatus, report.Status,
			"updated", updated,
			"skipped", skipped,
			"errored", errored,
			applog.FieldDuration, report.FinishedAt.Sub(report.StartedAt).Milliseconds())
	}

	if r.sink != nil {
		// Reporting must outlive a cancelled run.
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		if err := r.sink.Send(sendCtx, report); err != nil {
			r.logger.WarnContext(ctx, "Failed to send notification",
				applog.FieldOperation, applog.OpNotify,
				applog.FieldError, err)
		}
	}
	return report
}

func (r *Reconciler) logResult(ctx context.Context, res core.Result) {
	fields := applog.NewFields().
		WithCategory(res.CategoryID, res.CategoryName).
		WithAmounts(res.OldAmount, res.NewAmount)
	fields[applog.FieldStatus] = res.Status
	if res.Reason != "" {
		fields[applog.FieldReason] = res.Reason
	}
	if res.Status == core.StatusErrored {
		r.logger.ErrorContext(ctx, "Category reconciliation failed", fields.ToSlice()...)
		return
	}
	r.logger.InfoContext(ctx, "Category reconciled", fields.ToSlice()...)
}

func errored(res core.Result, err error) core.Result {
	res.Status = core.StatusErrored
	res.Reason = err.Error()
	return res
}

func overallStatus(report core.RunReport, fatal error) core.RunStatus {
	if fatal != nil {
		return core.RunFailed
	}
	_, _, errored := report.Counts()
	switch {
	case errored == 0:
		return core.RunOK
	case errored == len(report.Results):
		return core.RunFailed
	default:
		return core.RunPartial
	}
}
