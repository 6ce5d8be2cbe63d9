package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognicore/castplot/pkg/castplot/config"
	"github.com/cognicore/castplot/pkg/castplot/internalerr"
	"github.com/cognicore/castplot/pkg/castplot/report"
	"github.com/cognicore/castplot/pkg/castplot/store"
	"github.com/cognicore/castplot/pkg/castplot/store/sqlite"
)

func newRunsCommand(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit < 0 {
				return fmt.Errorf("%w: --limit must not be negative", internalerr.ErrInvalidInput)
			}
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			st, err := openStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			a.log.Debugf("%d runs listed", len(runs))
			return report.RenderRuns(cmd.OutOrStdout(), runs)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of runs (0 for all)")
	return cmd
}

func openStore(cmd *cobra.Command, cfg *config.Config) (store.Store, error) {
	if cfg.Store.Path == "" {
		return nil, fmt.Errorf("%w: store.path is not set", internalerr.ErrInvalidConfig)
	}
	return sqlite.OpenSQLite(cmd.Context(), cfg.Store.Path)
}

func validate(cfg *config.Config) error {
	return errors.Join(cfg.Validate()...)
}
