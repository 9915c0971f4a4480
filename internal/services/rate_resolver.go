// Package services provides the reconciliation logic.
//
// This file implements the rate resolution strategies. Each basis
// (period over period, year over year) has its own strategy turning
// index readings into a Rate.
package services

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"ipcynab/internal/core"
)

// RateStrategy derives a rate from readings sorted oldest first.
type RateStrategy interface {
	Resolve(readings []core.IndexReading) (core.Rate, error)
}

// PeriodOverPeriodStrategy uses the latest published value as the rate.
// The series already carries percent changes.
type PeriodOverPeriodStrategy struct{}

func (PeriodOverPeriodStrategy) Resolve(readings []core.IndexReading) (core.Rate, error) {
	if len(readings) == 0 {
		return core.Rate{}, fmt.Errorf("%w: no readings published", core.ErrInsufficientHistory)
	}
	latest := readings[len(readings)-1]
	return core.Rate{
		Period:  latest.Period,
		Percent: latest.Value,
		Basis:   core.PeriodOverPeriod,
	}, nil
}

// YearOverYearStrategy compares the latest index level with December of the
// previous year.
type YearOverYearStrategy struct{}

func (YearOverYearStrategy) Resolve(readings []core.IndexReading) (core.Rate, error) {
	if len(readings) == 0 {
		return core.Rate{}, fmt.Errorf("%w: no readings published", core.ErrInsufficientHistory)
	}
	latest := readings[len(readings)-1]
	year, _, err := core.SplitPeriod(latest.Period)
	if err != nil {
		return core.Rate{}, err
	}

	december := fmt.Sprintf("%04d-12", year-1)
	var base *core.IndexReading
	for i := range readings {
		if readings[i].Period == december {
			base = &readings[i]
			break
		}
	}
	if base == nil {
		return core.Rate{}, fmt.Errorf("%w: no reading for %s", core.ErrInsufficientHistory, december)
	}
	if base.Value.IsZero() {
		return core.Rate{}, fmt.Errorf("%w: reading for %s is zero", core.ErrInsufficientHistory, december)
	}

	percent := latest.Value.Sub(base.Value).Mul(decimal.NewFromInt(100)).DivRound(base.Value, 4)
	return core.Rate{
		Period:  strconv.Itoa(year),
		Percent: percent,
		Basis:   core.YearOverYear,
	}, nil
}

var rateStrategies = map[core.Basis]RateStrategy{
	core.PeriodOverPeriod: PeriodOverPeriodStrategy{},
	core.YearOverYear:     YearOverYearStrategy{},
}

// GetRateStrategy returns the strategy for a basis.
func GetRateStrategy(mode core.Basis) (RateStrategy, error) {
	s, ok := rateStrategies[mode]
	if !ok {
		return nil, fmt.Errorf("unknown rate basis: %s", mode)
	}
	return s, nil
}

// ResolveRate validates and orders readings, then applies the strategy for mode.
func ResolveRate(mode core.Basis, readings []core.IndexReading) (core.Rate, error) {
	strategy, err := GetRateStrategy(mode)
	if err != nil {
		return core.Rate{}, err
	}
	sorted := make([]core.IndexReading, len(readings))
	copy(sorted, readings)
	for _, r := range sorted {
		if err := r.Validate(); err != nil {
			return core.Rate{}, err
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Period < sorted[j].Period })
	return strategy.Resolve(sorted)
}
