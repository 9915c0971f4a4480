package core

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewTarget(t *testing.T) {
	cases := []struct {
		name    string
		current int64
		percent string
		unit    int64
		want    int64
	}{
		{"monthly increase", 1000000, "0.3", 1000, 1003000},
		{"monthly decrease", 1000000, "-0.3", 1000, 997000},
		{"rounds down below half", 1004000, "0.2", 1000, 1006000},
		{"rounds fractional rate", 1000000, "0.616", 1000, 1006000},
		{"annual", 1000000, "3.5", 1000, 1035000},
		{"half rounds away from zero", 1000500, "0", 1000, 1001000},
		{"zero rate keeps aligned amount", 2000000, "0", 1000, 2000000},
		{"zero target", 0, "2.5", 1000, 0},
		{"cent unit", 1000000, "0.333", 10, 1003330},
		{"collapse clamps at zero", 1000000, "-150", 1000, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewTarget(tc.current, decimal.RequireFromString(tc.percent), tc.unit)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("NewTarget(%d, %s, %d) = %d, want %d", tc.current, tc.percent, tc.unit, got, tc.want)
			}
			if got%tc.unit != 0 {
				t.Fatalf("result %d is not a multiple of %d", got, tc.unit)
			}
		})
	}
}

func TestNewTarget_InvalidAmount(t *testing.T) {
	if _, err := NewTarget(-1, decimal.Zero, 1000); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for negative target, got %v", err)
	}
	if _, err := NewTarget(1000, decimal.Zero, 0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for zero unit, got %v", err)
	}
}

func TestPercentFromFloat(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := PercentFromFloat(f); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("%v: expected ErrInvalidAmount, got %v", f, err)
		}
	}
	p, err := PercentFromFloat(0.2)
	if err != nil || p.String() != "0.2" {
		t.Fatalf("expected 0.2, got %s (err=%v)", p, err)
	}
}

func TestFormatMillicents(t *testing.T) {
	cases := map[int64]string{
		1003000: "1003.00",
		1000:    "1.00",
		0:       "0.00",
		1234560: "1234.56",
		-997000: "-997.00",
	}
	for in, want := range cases {
		if got := FormatMillicents(in); got != want {
			t.Errorf("FormatMillicents(%d) = %q, want %q", in, got, want)
		}
	}
	if got := FormatEuros(1006000); got != "1006.00€" {
		t.Errorf("FormatEuros = %q", got)
	}
}
