package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"ipcynab/internal/cli"
	applog "ipcynab/internal/log"
	"ipcynab/internal/worker"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run periodically until interrupted",
	Long: `Run once at start and then every SCHEDULE_INTERVAL. Categories already
adjusted for the current period are skipped, so frequent runs are harmless.

Example:
  SCHEDULE_INTERVAL=6h ipcynab schedule --mode monthly`,
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().StringVar(&runMode, "mode", "", "monthly or annual (default: /ipc/mode parameter, then monthly)")
	scheduleCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "compute and report without writing to YNAB")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	ctx, stop := cli.GracefulShutdown(cmd.Context(), slog.Default())
	defer stop()

	cfg, res, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer res.Close()

	r := newRunner(cfg, res, runMode, runDryRun)
	s := worker.NewScheduler(r.Run, cfg.ScheduleInterval, cfg.RunTimeout, applog.FromSlog(nil, applog.ComponentScheduler))
	return s.Start(ctx)
}
