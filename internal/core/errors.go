package core

import (
	"context"
	"errors"
)

var (
	// Fatal: no rate can be resolved, the run aborts before touching categories.
	ErrInsufficientHistory = errors.New("insufficient history")
	ErrSourceUnavailable   = errors.New("statistics source unavailable")
	ErrInvalidReading      = errors.New("invalid index reading")
	ErrRunInProgress       = errors.New("another run is in progress")

	// Per category, recorded as errored results.
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrNotFound           = errors.New("category not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrServiceUnavailable = errors.New("budgeting service unavailable")
)

// IsFatal reports whether err prevents the whole run from proceeding.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrInsufficientHistory) ||
		errors.Is(err, ErrSourceUnavailable) ||
		errors.Is(err, ErrInvalidReading) ||
		errors.Is(err, ErrRunInProgress)
}

// Kind returns a short classification used in logs and audit rows.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.Is(err, ErrInsufficientHistory):
		return "insufficient_history"
	case errors.Is(err, ErrSourceUnavailable):
		return "source_unavailable"
	case errors.Is(err, ErrInvalidReading):
		return "invalid_reading"
	case errors.Is(err, ErrRunInProgress):
		return "run_in_progress"
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrServiceUnavailable):
		return "service_unavailable"
	default:
		return "unknown"
	}
}
