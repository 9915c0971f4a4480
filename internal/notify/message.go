package notify

import (
	"fmt"
	"strings"

	"ipcynab/internal/core"
)

// Subject is the one-line title of a report.
func Subject(r core.RunReport) string {
	if r.Rate == nil {
		return "IPC Update Failed"
	}
	return "IPC Update Results - " + r.Rate.Period
}

// Body renders a human readable summary, one line per category.
func Body(r core.RunReport) string {
	var b strings.Builder
	if r.Rate == nil {
		fmt.Fprintf(&b, "IPC update aborted (%s mode)", r.Mode)
		if r.Err != nil {
			fmt.Fprintf(&b, ": %v", r.Err)
		}
		return b.String()
	}

	fmt.Fprintf(&b, "IPC Update Results for %s (Rate: %s%%)\n", r.Rate.Period, r.Rate.Display())
	if r.Err != nil {
		fmt.Fprintf(&b, "Error: %v\n", r.Err)
	}
	for _, res := range r.Results {
		name := res.CategoryName
		if name == "" {
			name = res.CategoryID
		}
		switch res.Status {
		case core.StatusUpdated:
			fmt.Fprintf(&b, "\n✅ %s: %s -> %s", name, core.FormatEuros(res.OldAmount), core.FormatEuros(res.NewAmount))
			if res.Reason != "" {
				fmt.Fprintf(&b, " (%s)", res.Reason)
			}
		case core.StatusSkipped:
			fmt.Fprintf(&b, "\n⏭️ %s: %s", name, res.Reason)
		default:
			fmt.Fprintf(&b, "\n❌ %s: Error - %s", name, res.Reason)
		}
	}
	return b.String()
}
