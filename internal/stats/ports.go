package stats

import (
	"context"

	"ipcynab/internal/core"
)

// Source is the statistics service publishing index readings.
type Source interface {
	// FetchIndexReadings returns up to window latest readings ordered oldest
	// first. It may return fewer readings than requested.
	FetchIndexReadings(ctx context.Context, window int) ([]core.IndexReading, error)
}

// Sources picks the series to read for each rate basis.
type Sources map[core.Basis]Source

func (s Sources) For(b core.Basis) (Source, bool) {
	src, ok := s[b]
	return src, ok && src != nil
}
