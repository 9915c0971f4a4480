package sheets

import "context"

// RowAppender appends rows at the end of a named sheet and returns the
// range that was written.
type RowAppender interface {
	AppendRows(ctx context.Context, sheet string, rows [][]any) (string, error)
}
