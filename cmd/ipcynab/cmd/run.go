package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"ipcynab/internal/cli"
	"ipcynab/internal/notify"
)

var (
	runMode   string
	runDryRun bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Apply the latest published rate once",
	Long: `Fetch the latest IPC reading, resolve the rate for the selected mode and
update every configured category that has no entry for that period yet.

The command exits with status 1 when the run failed: the rate could not be
resolved, or every category errored.

Example:
  ipcynab run
  ipcynab run --mode annual --dry-run`,
	RunE: runOnce,
}

func init() {
	runCmd.Flags().StringVar(&runMode, "mode", "", "monthly or annual (default: /ipc/mode parameter, then monthly)")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "compute and report without writing to YNAB")
}

func runOnce(cmd *cobra.Command, args []string) error {
	ctx, stop := cli.GracefulShutdown(cmd.Context(), slog.Default())
	defer stop()

	cfg, res, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer res.Close()

	ctx, cancel := context.WithTimeout(ctx, cfg.RunTimeout)
	defer cancel()

	report := newRunner(cfg, res, runMode, runDryRun).Run(ctx)
	fmt.Fprintln(cmd.OutOrStdout(), notify.Body(report))

	if report.Failed() {
		if report.Err != nil {
			return fmt.Errorf("run failed: %w", report.Err)
		}
		return errors.New("run failed: every category errored")
	}
	return nil
}
