package params

import (
	"context"
	"fmt"
	"os"
)

// EnvStore reads parameters from environment variables, see EnvName.
type EnvStore struct {
	lookup func(string) (string, bool)
}

func NewEnvStore() *EnvStore {
	return &EnvStore{lookup: os.LookupEnv}
}

func (s *EnvStore) GetParameter(_ context.Context, name string) (string, error) {
	key := EnvName(name)
	v, ok := s.lookup(key)
	if !ok {
		return "", fmt.Errorf("%s (%s): %w", name, key, ErrNotFound)
	}
	return v, nil
}
