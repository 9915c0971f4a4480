package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelDebug, Component: ComponentReconciler, Output: &buf})

	l.InfoContext(context.Background(), "hello", FieldPeriod, "2024-03")
	out := buf.String()
	if !strings.Contains(out, "component=reconciler") || !strings.Contains(out, "period=2024-03") {
		t.Fatalf("unexpected output: %s", out)
	}

	buf.Reset()
	l.WithComponent(ComponentScheduler).DebugContext(context.Background(), "tick")
	if !strings.Contains(buf.String(), "component=scheduler") {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLogFields(t *testing.T) {
	f := NewFields().
		WithComponent(ComponentBudget).
		WithOperation(OpUpdate).
		WithCategory("c1", "Rent").
		WithAmounts(1000000, 1003000).
		WithError(errors.New("boom"), "unknown")

	if f[FieldCategoryName] != "Rent" || f[FieldNewAmount] != int64(1003000) || f[FieldErrorKind] != "unknown" {
		t.Fatalf("unexpected fields: %v", f)
	}
	if len(f.ToSlice()) != len(f)*2 {
		t.Fatalf("slice length mismatch")
	}
	if _, ok := NewFields().WithError(nil, "x")[FieldError]; ok {
		t.Fatal("nil error should not add a field")
	}
}
