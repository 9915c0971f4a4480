// Package memory is an in-process sheet store used in tests and local runs.
package memory

import (
	"context"
	"fmt"
	"sync"
)

type Store struct {
	mu     sync.Mutex
	sheets map[string][][]any
	err    error
}

func New() *Store {
	return &Store{sheets: make(map[string][][]any)}
}

// Fail makes every following append return err.
func (s *Store) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *Store) AppendRows(_ context.Context, sheet string, rows [][]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	start := len(s.sheets[sheet]) + 1
	for _, row := range rows {
		s.sheets[sheet] = append(s.sheets[sheet], append([]any(nil), row...))
	}
	return fmt.Sprintf("%s!A%d:J%d", sheet, start, start+len(rows)-1), nil
}

// Rows returns a copy of the rows written to sheet.
func (s *Store) Rows(sheet string) [][]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]any, len(s.sheets[sheet]))
	copy(out, s.sheets[sheet])
	return out
}
