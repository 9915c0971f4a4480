// Package sheets keeps an audit trail of reconciliation runs in a
// spreadsheet, one row per category result.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ipcynab/internal/core"
)

var Header = []any{"Run", "Period", "Mode", "Rate %", "Category ID", "Category", "Status", "Old €", "New €", "Detail"}

// AuditSink is a notification sink writing run results to a sheet named
// "<year> <SheetBase>", the year taken from the run start.
type AuditSink struct {
	Rows      RowAppender
	SheetBase string
}

func (s AuditSink) Send(ctx context.Context, report core.RunReport) error {
	if s.Rows == nil {
		return errors.New("sheets audit sink: no row appender")
	}
	sheet := SheetName(s.SheetBase, report.StartedAt.Year())
	if _, err := s.Rows.AppendRows(ctx, sheet, Rows(report)); err != nil {
		return fmt.Errorf("append audit rows to %s: %w", sheet, err)
	}
	return nil
}

// Rows renders a report. A run without results yields a single row holding
// the run status and error.
func Rows(r core.RunReport) [][]any {
	started := r.StartedAt.UTC().Format(time.RFC3339)
	period, rate := "", ""
	if r.Rate != nil {
		period = r.Rate.Period
		rate = r.Rate.Percent.String()
	}

	if len(r.Results) == 0 {
		detail := ""
		if r.Err != nil {
			detail = r.Err.Error()
		}
		return [][]any{{started, period, string(r.Mode), rate, "", "", string(r.Status), "", "", detail}}
	}

	rows := make([][]any, 0, len(r.Results))
	for _, res := range r.Results {
		detail := res.Reason
		if res.Status == core.StatusUpdated && res.Entry != "" {
			detail = res.Entry
		}
		rows = append(rows, []any{
			started,
			period,
			string(r.Mode),
			rate,
			res.CategoryID,
			res.CategoryName,
			string(res.Status),
			core.FormatMillicents(res.OldAmount),
			core.FormatMillicents(res.NewAmount),
			detail,
		})
	}
	return rows
}

// SheetName prefixes base with the year unless it already starts with one.
func SheetName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		base = "IPC Audit"
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}
