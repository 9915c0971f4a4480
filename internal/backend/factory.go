package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ipcynab/internal/amqp"
	"ipcynab/internal/budget"
	"ipcynab/internal/budget/ynab"
	"ipcynab/internal/config"
	"ipcynab/internal/core"
	"ipcynab/internal/notify"
	"ipcynab/internal/params"
	"ipcynab/internal/sheets"
	gsheet "ipcynab/internal/sheets/google"
	"ipcynab/internal/stats"
	"ipcynab/internal/stats/ine"
	"ipcynab/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend builds the parameter store and the notification sinks.
// Optional sinks that fail to initialise are logged and left out.
func (f *DefaultFactory) CreateBackend(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res := &Result{}
	var closers []func() error

	switch cfg.Type {
	case EnvBackend:
		res.Params = params.NewEnvStore()
	case YAMLBackend:
		store, err := params.LoadFile(cfg.ParamsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load parameters file: %w", err)
		}
		res.Params = store
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		res.Repo = repo
		res.Locker = repo
		res.Params = params.NewSQLiteStore(repo)
		closers = append(closers, repo.Close)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}

	if cfg.ParamCacheTTL > 0 {
		res.Params = params.NewCachedStore(res.Params, cfg.ParamCacheTTL)
	}

	res.Sinks = notify.Fanout{notify.LogSink{Logger: f.logger}}

	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without it", "error", err)
		} else {
			f.logger.Info("Initialized AMQP notifications",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
			res.Sinks = append(res.Sinks, client)
			closers = append(closers, client.Close)
		}
	}

	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID, gsheet.Credentials{
			JSON: cfg.GoogleServiceAccountJSON,
			File: cfg.GoogleServiceAccountFile,
		})
		if err != nil {
			f.logger.Warn("Failed to initialize Google Sheets audit, continuing without it", "error", err)
		} else {
			f.logger.Info("Initialized Google Sheets audit", "sheet", cfg.GoogleSheetName)
			res.Sinks = append(res.Sinks, sheets.AuditSink{Rows: client, SheetBase: cfg.GoogleSheetName})
		}
	}

	res.Cleanup = func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}

	f.logger.Info("Initialized backend",
		"params", cfg.Type,
		"cached", cfg.ParamCacheTTL > 0,
		"sinks", len(res.Sinks))
	return res, nil
}

// NewSources builds one INE client per rate basis.
func NewSources(cfg *config.Config) stats.Sources {
	return stats.Sources{
		core.PeriodOverPeriod: ine.NewClient(ine.Config{
			BaseURL: cfg.INEBaseURL,
			Series:  cfg.INEMonthlySeries,
			Timeout: cfg.HTTPTimeout,
		}),
		core.YearOverYear: ine.NewClient(ine.Config{
			BaseURL: cfg.INEBaseURL,
			Series:  cfg.INEAnnualSeries,
			Timeout: cfg.HTTPTimeout,
		}),
	}
}

// NewCategoryStore builds the YNAB client for the loaded run parameters.
func NewCategoryStore(cfg *config.Config, p params.RunParameters) budget.CategoryStore {
	return ynab.NewClient(ynab.ClientConfig{
		BaseURL:     cfg.YNABBaseURL,
		AccessToken: p.Token,
		BudgetID:    p.BudgetID,
		Timeout:     cfg.HTTPTimeout,
	})
}
