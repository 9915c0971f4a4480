package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetupLogger(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	logger := SetupLogger("warn", &buf)
	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("unexpected log output: %q", out)
	}
	if slog.Default() != logger {
		t.Error("SetupLogger should install the default logger")
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("IPCYNAB_TEST_VALUE=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("IPCYNAB_TEST_VALUE", "")
	os.Unsetenv("IPCYNAB_TEST_VALUE")

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile() error = %v", err)
	}
	if got := os.Getenv("IPCYNAB_TEST_VALUE"); got != "from-file" {
		t.Errorf("IPCYNAB_TEST_VALUE = %q", got)
	}

	if err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("expected an error for an explicit missing file")
	}
}

func TestLoadAndValidateConfig(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Setenv("PARAM_BACKEND", "nope")
	if _, err := LoadAndValidateConfig(logger); err == nil {
		t.Error("expected validation error")
	}

	t.Setenv("PARAM_BACKEND", "env")
	if _, err := LoadAndValidateConfig(logger); err != nil {
		t.Errorf("LoadAndValidateConfig() error = %v", err)
	}
}

func TestGracefulShutdown_Stop(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx, stop := GracefulShutdown(context.Background(), logger)
	stop()
	<-ctx.Done()
}
