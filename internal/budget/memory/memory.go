package memory

import (
	"context"
	"fmt"
	"sync"

	"ipcynab/internal/budget"
	"ipcynab/internal/core"
)

var (
	_ budget.CategoryStore   = (*Store)(nil)
	_ budget.CategoryUpdater = (*Store)(nil)
)

// Store keeps categories in memory. Writes can be made to fail per category.
type Store struct {
	mu         sync.Mutex
	categories map[string]core.CategoryState
	failWrites map[string]error
	failReads  map[string]error
	writes     int
}

func New(categories ...core.CategoryState) *Store {
	s := &Store{
		categories: make(map[string]core.CategoryState),
		failWrites: make(map[string]error),
		failReads:  make(map[string]error),
	}
	for _, c := range categories {
		s.categories[c.ID] = c
	}
	return s
}

// FailWrites makes every write to id return err.
func (s *Store) FailWrites(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWrites[id] = err
}

// FailReads makes every read of id return err.
func (s *Store) FailReads(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failReads[id] = err
}

func (s *Store) GetCategory(_ context.Context, id string) (core.CategoryState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failReads[id]; err != nil {
		return core.CategoryState{}, err
	}
	c, ok := s.categories[id]
	if !ok {
		return core.CategoryState{}, fmt.Errorf("category %s: %w", id, core.ErrNotFound)
	}
	return c, nil
}

func (s *Store) SetCategoryTarget(_ context.Context, id string, millicents int64) error {
	return s.mutate(id, func(c *core.CategoryState) { c.TargetMillicents = millicents })
}

func (s *Store) SetCategoryNotes(_ context.Context, id string, notes string) error {
	return s.mutate(id, func(c *core.CategoryState) { c.Notes = notes })
}

func (s *Store) UpdateCategory(_ context.Context, id string, millicents int64, notes string) error {
	return s.mutate(id, func(c *core.CategoryState) {
		c.TargetMillicents = millicents
		c.Notes = notes
	})
}

// Writes returns the number of successful writes.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *Store) mutate(id string, fn func(*core.CategoryState)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failWrites[id]; err != nil {
		return err
	}
	c, ok := s.categories[id]
	if !ok {
		return fmt.Errorf("category %s: %w", id, core.ErrNotFound)
	}
	fn(&c)
	s.categories[id] = c
	s.writes++
	return nil
}
