// Package params reads the credentials and settings of a run from a
// parameter store. Parameters use path style names such as /ynab/token.
package params

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ipcynab/internal/core"
)

const (
	Token       = "/ynab/token"
	BudgetID    = "/ynab/budget_id"
	CategoryIDs = "/ynab/category_ids"
	Mode        = "/ipc/mode"
)

var ErrNotFound = errors.New("parameter not found")

// Store is a read-only parameter store.
type Store interface {
	GetParameter(ctx context.Context, name string) (string, error)
}

// RunParameters is everything a run needs from the store, loaded once.
type RunParameters struct {
	Token       string
	BudgetID    string
	CategoryIDs []string
	Mode        core.Basis
}

// LoadRunParameters reads all run parameters. The mode parameter is optional
// and defaults to fallbackMode.
func LoadRunParameters(ctx context.Context, s Store, fallbackMode core.Basis) (RunParameters, error) {
	var p RunParameters
	var err error

	if p.Token, err = required(ctx, s, Token); err != nil {
		return p, err
	}
	if p.BudgetID, err = required(ctx, s, BudgetID); err != nil {
		return p, err
	}
	ids, err := required(ctx, s, CategoryIDs)
	if err != nil {
		return p, err
	}
	p.CategoryIDs = SplitList(ids)
	if len(p.CategoryIDs) == 0 {
		return p, fmt.Errorf("parameter %s lists no categories", CategoryIDs)
	}

	p.Mode = fallbackMode
	raw, err := s.GetParameter(ctx, Mode)
	switch {
	case err == nil && strings.TrimSpace(raw) != "":
		if p.Mode, err = core.ParseMode(raw); err != nil {
			return p, fmt.Errorf("parameter %s: %w", Mode, err)
		}
	case err != nil && !errors.Is(err, ErrNotFound):
		return p, fmt.Errorf("get parameter %s: %w", Mode, err)
	}
	return p, nil
}

func required(ctx context.Context, s Store, name string) (string, error) {
	v, err := s.GetParameter(ctx, name)
	if err != nil {
		return "", fmt.Errorf("get parameter %s: %w", name, err)
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return "", fmt.Errorf("parameter %s is empty", name)
	}
	return v, nil
}

// SplitList splits a comma separated list, trimming blanks and dropping
// empty items. Order is preserved.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// EnvName maps a parameter name to its environment variable:
// /ynab/budget_id -> YNAB_BUDGET_ID.
func EnvName(name string) string {
	name = strings.Trim(name, "/")
	name = strings.NewReplacer("/", "_", "-", "_", ".", "_").Replace(name)
	return strings.ToUpper(name)
}
