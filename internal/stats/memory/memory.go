package memory

import (
	"context"
	"sort"
	"sync"

	"ipcynab/internal/core"
	"ipcynab/internal/stats"
)

var _ stats.Source = (*Source)(nil)

// Source serves a fixed list of readings.
type Source struct {
	mu       sync.Mutex
	readings []core.IndexReading
	err      error
	calls    int
}

func New(readings ...core.IndexReading) *Source {
	return &Source{readings: readings}
}

// Fail makes every following fetch return err.
func (s *Source) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// FetchIndexReadings returns the last window readings sorted by period.
func (s *Source) FetchIndexReadings(_ context.Context, window int) ([]core.IndexReading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := append([]core.IndexReading(nil), s.readings...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	if window > 0 && len(out) > window {
		out = out[len(out)-window:]
	}
	return out, nil
}

// Calls returns how many fetches were made.
func (s *Source) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
