package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognicore/castplot/pkg/castplot"
	"github.com/cognicore/castplot/pkg/castplot/config"
	"github.com/cognicore/castplot/pkg/castplot/report"
	"github.com/cognicore/castplot/pkg/castplot/table"
)

func newStatsCommand(a *app) *cobra.Command {
	var runID string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print word-count statistics per character without plotting",
		Long: `Runs the pipeline up to tabulation and prints a summary table.
With --run, summarises a stored run instead of the current document.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			var tbl *table.Table
			if runID != "" {
				tbl, err = storedTable(cmd, cfg, runID)
			} else {
				tbl, err = analyze(cmd, a, cfg)
			}
			if err != nil {
				return err
			}
			return report.Render(cmd.OutOrStdout(), tbl.Len(), tbl.Summaries())
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "summarise a stored run by ID")
	return cmd
}

func analyze(cmd *cobra.Command, a *app, cfg *config.Config) (*table.Table, error) {
	// stats never records a run
	cfg.Store.Path = ""
	cp, err := castplot.Open(cmd.Context(), cfg, a.log)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := cp.Close(); err != nil {
			a.log.Warnf("close store: %v", err)
		}
	}()

	res, err := cp.Analyze(cmd.Context())
	if err != nil {
		return nil, err
	}
	return res.Table, nil
}

func storedTable(cmd *cobra.Command, cfg *config.Config, runID string) (*table.Table, error) {
	st, err := openStore(cmd, cfg)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	run, err := st.GetRun(cmd.Context(), runID)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	records, err := st.Records(cmd.Context(), runID)
	if err != nil {
		return nil, fmt.Errorf("records of run %s: %w", runID, err)
	}
	return table.New(run.Labels, records), nil
}
