package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"

	"ipcynab/internal/core"
)

func sampleReport() core.RunReport {
	return core.RunReport{
		Status: core.RunPartial,
		Mode:   core.PeriodOverPeriod,
		Rate:   &core.Rate{Period: "2025-01", Percent: decimal.RequireFromString("0.2"), Basis: core.PeriodOverPeriod},
		Results: []core.Result{
			{CategoryID: "c1", CategoryName: "Category 1", Status: core.StatusUpdated, OldAmount: 1004000, NewAmount: 1006000},
			{CategoryID: "c2", CategoryName: "Category 2", Status: core.StatusSkipped, Reason: "already updated for period 2025-01"},
			{CategoryID: "c3", Status: core.StatusErrored, Reason: "category not found"},
		},
	}
}

func TestBody(t *testing.T) {
	body := Body(sampleReport())
	if !strings.HasPrefix(body, "IPC Update Results for 2025-01 (Rate: 0.2%)\n") {
		t.Errorf("Body() header = %q", body)
	}
	for _, line := range []string{
		"✅ Category 1: 1004.00€ -> 1006.00€",
		"⏭️ Category 2: already updated for period 2025-01",
		"❌ c3: Error - category not found",
	} {
		if !strings.Contains(body, line) {
			t.Errorf("Body() missing %q:\n%s", line, body)
		}
	}
	if got := Subject(sampleReport()); got != "IPC Update Results - 2025-01" {
		t.Errorf("Subject() = %q", got)
	}
}

func TestBody_Fatal(t *testing.T) {
	r := core.RunReport{Status: core.RunFailed, Mode: core.YearOverYear, Err: core.ErrInsufficientHistory}
	if got := Subject(r); got != "IPC Update Failed" {
		t.Errorf("Subject() = %q, want IPC Update Failed", got)
	}
	if got, want := Body(r), "IPC update aborted (annual mode): insufficient history"; got != want {
		t.Errorf("Body() = %q, want %q", got, want)
	}
}

func TestFanout(t *testing.T) {
	var calls atomic.Int32
	ok := SinkFunc(func(context.Context, core.RunReport) error { calls.Add(1); return nil })
	bad := SinkFunc(func(context.Context, core.RunReport) error { calls.Add(1); return errors.New("smtp down") })

	err := Fanout{ok, bad, nil, ok}.Send(context.Background(), sampleReport())
	if err == nil || !strings.Contains(err.Error(), "smtp down") {
		t.Errorf("Fanout.Send() error = %v, want smtp down", err)
	}
	if calls.Load() != 3 {
		t.Errorf("sinks called %d times, want 3", calls.Load())
	}

	if err := (Fanout{ok}).Send(context.Background(), sampleReport()); err != nil {
		t.Errorf("Fanout.Send() error = %v", err)
	}
	if err := (Fanout{}).Send(context.Background(), sampleReport()); err != nil {
		t.Errorf("empty Fanout.Send() error = %v", err)
	}
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	if err := (LogSink{Logger: logger}).Send(context.Background(), sampleReport()); err != nil {
		t.Fatalf("LogSink.Send() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"level=WARN", "updated=1", "errored=1"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}
}
