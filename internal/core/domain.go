package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	PeriodOverPeriod Basis = "monthly"
	YearOverYear     Basis = "annual"
)

const (
	StatusUpdated Status = "updated"
	StatusSkipped Status = "skipped"
	StatusErrored Status = "errored"
)

const (
	RunOK      RunStatus = "ok"
	RunPartial RunStatus = "partial"
	RunFailed  RunStatus = "failed"
)

type (
	// Basis selects how a rate is derived from index readings.
	Basis string

	Status    string
	RunStatus string

	// IndexReading is one published value of a statistics series.
	IndexReading struct {
		Period string // YYYY-MM
		Value  decimal.Decimal
	}

	Rate struct {
		Period  string // YYYY-MM for monthly rates, YYYY for annual ones
		Percent decimal.Decimal
		Basis   Basis
	}

	// CategoryState is a budget category as owned by the budgeting service.
	CategoryState struct {
		ID               string
		Name             string
		TargetMillicents int64
		Notes            string
	}

	Result struct {
		CategoryID   string
		CategoryName string
		Status       Status
		OldAmount    int64 // millicents
		NewAmount    int64 // millicents
		Entry        string
		Reason       string
	}

	RunReport struct {
		Status     RunStatus
		Mode       Basis
		Rate       *Rate
		Results    []Result
		StartedAt  time.Time
		FinishedAt time.Time
		Err        error
	}
)

var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ParseMode maps user supplied mode names to a Basis.
func ParseMode(s string) (Basis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monthly", "month", "period", "pop":
		return PeriodOverPeriod, nil
	case "annual", "yearly", "year", "yoy":
		return YearOverYear, nil
	default:
		return "", fmt.Errorf("unknown mode %q: must be monthly or annual", s)
	}
}

func (b Basis) String() string { return string(b) }

// Label is the word used for the basis in history entries.
func (b Basis) Label() string {
	switch b {
	case PeriodOverPeriod:
		return "Monthly"
	case YearOverYear:
		return "Annual"
	default:
		return ""
	}
}

// Window is the number of readings the basis needs from the statistics source.
func (b Basis) Window() int {
	if b == YearOverYear {
		return 13
	}
	return 1
}

func (b Basis) IsValid() bool {
	return b == PeriodOverPeriod || b == YearOverYear
}

// ValidPeriod reports whether s is a YYYY-MM period label.
func ValidPeriod(s string) bool {
	return periodPattern.MatchString(s)
}

// SplitPeriod returns year and month of a YYYY-MM label.
func SplitPeriod(s string) (year, month int, err error) {
	if !ValidPeriod(s) {
		return 0, 0, fmt.Errorf("%w: period %q", ErrInvalidReading, s)
	}
	year, _ = strconv.Atoi(s[:4])
	month, _ = strconv.Atoi(s[5:])
	return year, month, nil
}

func (r IndexReading) Validate() error {
	if !ValidPeriod(r.Period) {
		return fmt.Errorf("%w: period %q", ErrInvalidReading, r.Period)
	}
	return nil
}

// Display renders the percent with one decimal place, keeping the sign.
func (r Rate) Display() string {
	return r.Percent.StringFixed(1)
}

// Counts tallies results by status.
func (r RunReport) Counts() (updated, skipped, errored int) {
	for _, res := range r.Results {
		switch res.Status {
		case StatusUpdated:
			updated++
		case StatusSkipped:
			skipped++
		case StatusErrored:
			errored++
		}
	}
	return updated, skipped, errored
}

// Period returns the rate period or an empty string when no rate was resolved.
func (r RunReport) Period() string {
	if r.Rate == nil {
		return ""
	}
	return r.Rate.Period
}

func (r RunReport) Failed() bool {
	return r.Status == RunFailed
}
