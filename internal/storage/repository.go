package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrParameterNotFound is returned when a parameter has never been stored.
var ErrParameterNotFound = errors.New("parameter not found")

type Parameter struct {
	Name      string
	Value     string
	Secure    bool
	UpdatedAt time.Time
}

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, now: time.Now}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// GetParameter returns the stored value of name.
func (r *SQLiteRepository) GetParameter(ctx context.Context, name string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM parameters WHERE name = ?`, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%s: %w", name, ErrParameterNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get parameter %s: %w", name, err)
	}
	return value, nil
}

// PutParameter inserts or replaces a parameter.
func (r *SQLiteRepository) PutParameter(ctx context.Context, name, value string, secure bool) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO parameters (name, value, secure, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, secure = excluded.secure, updated_at = excluded.updated_at`,
		name, value, secure, r.now().UTC())
	if err != nil {
		return fmt.Errorf("put parameter %s: %w", name, err)
	}
	slog.DebugContext(ctx, "Parameter stored", "parameter", name, "secure", secure)
	return nil
}

func (r *SQLiteRepository) DeleteParameter(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM parameters WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete parameter %s: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", name, ErrParameterNotFound)
	}
	return nil
}

// ListParameters returns all parameters ordered by name.
func (r *SQLiteRepository) ListParameters(ctx context.Context) ([]Parameter, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, value, secure, updated_at FROM parameters ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list parameters: %w", err)
	}
	defer rows.Close()

	var out []Parameter
	for rows.Next() {
		var p Parameter
		if err := rows.Scan(&p.Name, &p.Value, &p.Secure, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan parameter: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// TryLock takes the named lock for owner unless another owner holds an
// unexpired lease. Re-entrant for the same owner.
func (r *SQLiteRepository) TryLock(ctx context.Context, name, owner string, ttl time.Duration) (bool, error) {
	now := r.now()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO run_locks (name, owner, acquired_at, expires_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET owner = excluded.owner, acquired_at = excluded.acquired_at, expires_at = excluded.expires_at
		WHERE run_locks.expires_at <= ? OR run_locks.owner = excluded.owner`,
		name, owner, now.UnixMilli(), now.Add(ttl).UnixMilli(), now.UnixMilli())
	if err != nil {
		return false, fmt.Errorf("acquire lock %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("acquire lock %s: %w", name, err)
	}
	return n == 1, nil
}

// Unlock releases the lock if owner holds it.
func (r *SQLiteRepository) Unlock(ctx context.Context, name, owner string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM run_locks WHERE name = ? AND owner = ?`, name, owner)
	if err != nil {
		return fmt.Errorf("release lock %s: %w", name, err)
	}
	return nil
}
