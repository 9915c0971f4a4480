package backend

import (
	"context"

	"ipcynab/internal/notify"
	"ipcynab/internal/params"
	"ipcynab/internal/services"
	"ipcynab/internal/storage"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result is everything a run needs besides the remote services.
type Result struct {
	Params params.Store
	// Locker is nil unless the sqlite backend is used.
	Locker services.Locker
	// Repo is the sqlite repository, nil for other backends.
	Repo    *storage.SQLiteRepository
	Sinks   notify.Fanout
	Cleanup CleanupFunc
}

// Close runs the cleanup function if any.
func (r *Result) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// BackendType selects where run parameters are read from.
type BackendType string

const (
	EnvBackend    BackendType = "env"
	YAMLBackend   BackendType = "yaml"
	SQLiteBackend BackendType = "sqlite"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case EnvBackend, YAMLBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}
