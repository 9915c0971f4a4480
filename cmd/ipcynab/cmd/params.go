package cmd

import (
	"fmt"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ipcynab/internal/cli"
	"ipcynab/internal/storage"
)

var paramSecure bool

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Manage parameters in the local SQLite store",
	Long: `Read and write the parameters used by PARAM_BACKEND=sqlite.

Names:
  /ynab/token          YNAB personal access token
  /ynab/budget_id      budget holding the categories
  /ynab/category_ids   comma separated category ids
  /ipc/mode            monthly or annual (optional)`,
}

var paramsGetCmd = &cobra.Command{
	Use:   "get NAME",
	Short: "Print a parameter value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRepo(cmd, func(repo *storage.SQLiteRepository) error {
			v, err := repo.GetParameter(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		})
	},
}

var paramsSetCmd = &cobra.Command{
	Use:   "set NAME VALUE",
	Short: "Create or replace a parameter",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if !strings.HasPrefix(name, "/") {
			return fmt.Errorf("parameter name %q must start with /", name)
		}
		return withRepo(cmd, func(repo *storage.SQLiteRepository) error {
			if err := repo.PutParameter(cmd.Context(), name, args[1], paramSecure); err != nil {
				return err
			}
			slog.Info("Parameter stored", "parameter", name, "secure", paramSecure)
			return nil
		})
	},
}

var paramsDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Remove a parameter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRepo(cmd, func(repo *storage.SQLiteRepository) error {
			return repo.DeleteParameter(cmd.Context(), args[0])
		})
	},
}

var paramsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List parameters, masking secure values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRepo(cmd, func(repo *storage.SQLiteRepository) error {
			list, err := repo.ListParameters(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tVALUE\tUPDATED")
			for _, p := range list {
				v := p.Value
				if p.Secure {
					v = mask(v)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", p.Name, v, p.UpdatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		})
	},
}

func init() {
	paramsSetCmd.Flags().BoolVar(&paramSecure, "secure", false, "mask the value in listings")

	paramsCmd.AddCommand(paramsGetCmd, paramsSetCmd, paramsDeleteCmd, paramsListCmd)
}

func withRepo(cmd *cobra.Command, fn func(*storage.SQLiteRepository) error) error {
	cfg, err := cli.LoadAndValidateConfig(slog.Default())
	if err != nil {
		return err
	}
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return fmt.Errorf("open parameter store: %w", err)
	}
	defer repo.Close()
	return fn(repo)
}

func mask(v string) string {
	if len(v) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(v)-4) + v[len(v)-4:]
}
