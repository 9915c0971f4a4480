package budget

import (
	"context"

	"ipcynab/internal/core"
)

// Ports for the budgeting service. Amounts are millicents.
type (
	CategoryReader interface {
		GetCategory(ctx context.Context, id string) (core.CategoryState, error)
	}

	CategoryWriter interface {
		SetCategoryTarget(ctx context.Context, id string, millicents int64) error
		SetCategoryNotes(ctx context.Context, id string, notes string) error
	}

	CategoryStore interface {
		CategoryReader
		CategoryWriter
	}

	// CategoryUpdater writes target and notes in a single call. Stores that
	// can do so avoid leaving a new target without its history entry.
	CategoryUpdater interface {
		UpdateCategory(ctx context.Context, id string, millicents int64, notes string) error
	}
)
