package params

import (
	"context"
	"errors"
	"fmt"

	"ipcynab/internal/storage"
)

// SQLiteStore serves parameters kept in the local SQLite database.
type SQLiteStore struct {
	repo *storage.SQLiteRepository
}

func NewSQLiteStore(repo *storage.SQLiteRepository) *SQLiteStore {
	return &SQLiteStore{repo: repo}
}

func (s *SQLiteStore) GetParameter(ctx context.Context, name string) (string, error) {
	v, err := s.repo.GetParameter(ctx, name)
	if errors.Is(err, storage.ErrParameterNotFound) {
		return "", fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return v, err
}
