package params

import (
	"context"
	"time"

	"ipcynab/internal/cache"
)

// CachedStore memoises lookups of an underlying store. Misses are not cached.
type CachedStore struct {
	next  Store
	cache cache.Cache[string]
}

func NewCachedStore(next Store, ttl time.Duration) *CachedStore {
	return &CachedStore{
		next:  next,
		cache: cache.NewLRUCache[string](64, ttl),
	}
}

func (s *CachedStore) GetParameter(ctx context.Context, name string) (string, error) {
	if v, ok := s.cache.Get(name); ok {
		return v, nil
	}
	v, err := s.next.GetParameter(ctx, name)
	if err != nil {
		return "", err
	}
	s.cache.Set(name, v)
	return v, nil
}
