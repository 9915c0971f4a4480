package params

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// fileFormat is the YAML layout of a parameters file:
//
//	ynab:
//	  token_env: YNAB_TOKEN
//	  budget_id: 1234-abcd
//	  category_ids: [cat-1, cat-2]
//	ipc:
//	  mode: monthly
type fileFormat struct {
	YNAB struct {
		Token       string   `yaml:"token"`
		TokenEnv    string   `yaml:"token_env"`
		BudgetID    string   `yaml:"budget_id"`
		CategoryIDs []string `yaml:"category_ids"`
	} `yaml:"ynab"`
	IPC struct {
		Mode string `yaml:"mode"`
	} `yaml:"ipc"`
	Parameters map[string]string `yaml:"parameters"`
}

// FileStore serves parameters from a YAML file read at construction.
type FileStore struct {
	values map[string]string
}

func LoadFile(path string) (*FileStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parameters file: %w", err)
	}
	return ParseFile(data)
}

func ParseFile(data []byte) (*FileStore, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	values := make(map[string]string, len(f.Parameters)+4)
	for k, v := range f.Parameters {
		values["/"+strings.Trim(k, "/")] = v
	}

	token := f.YNAB.Token
	if token == "" && f.YNAB.TokenEnv != "" {
		token = os.Getenv(f.YNAB.TokenEnv)
	}
	set := func(name, v string) {
		if v != "" {
			values[name] = v
		}
	}
	set(Token, token)
	set(BudgetID, f.YNAB.BudgetID)
	set(CategoryIDs, strings.Join(f.YNAB.CategoryIDs, ","))
	set(Mode, f.IPC.Mode)

	return &FileStore{values: values}, nil
}

func (s *FileStore) GetParameter(_ context.Context, name string) (string, error) {
	v, ok := s.values[name]
	if !ok {
		return "", fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return v, nil
}
