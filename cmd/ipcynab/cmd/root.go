// Package cmd provides the CLI commands for ipcynab.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"ipcynab/internal/backend"
	"ipcynab/internal/cli"
	"ipcynab/internal/config"
)

var (
	envFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "ipcynab",
	Short: "Raise YNAB category targets by the published Spanish CPI",
	Long: `ipcynab reads the latest consumer price index (IPC) published by INE and
raises the goal target of a list of YNAB budget categories by that rate.

Each adjustment is recorded as a line at the top of the category note, so a
period is never applied twice to the same category.

Example:
  ipcynab run --mode monthly
  ipcynab run --mode annual --dry-run
  ipcynab schedule
  ipcynab params set /ynab/category_ids cat-1,cat-2`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := cli.LoadEnvFile(envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		level := os.Getenv("LOG_LEVEL")
		if debug {
			level = "debug"
		}
		cli.SetupLogger(level, os.Stderr)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load (default is .env when present)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(paramsCmd)
}

// bootstrap loads the configuration and builds the backend.
func bootstrap(ctx context.Context) (*config.Config, *backend.Result, error) {
	logger := slog.Default()
	cfg, err := cli.LoadAndValidateConfig(logger)
	if err != nil {
		return nil, nil, err
	}

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create backend: %w", err)
	}
	return cfg, res, nil
}
