package main

import (
	"github.com/spf13/cobra"

	"github.com/cognicore/castplot/pkg/castplot"
)

func newRunCommand(a *app) *cobra.Command {
	var (
		output  string
		open    bool
		noStore bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch the book, tabulate the sentences and plot them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if output != "" {
				cfg.Plot.Output = output
			}
			if cmd.Flags().Changed("open") {
				cfg.Plot.Open = open
			}
			if noStore {
				cfg.Store.Path = ""
			}

			cp, err := castplot.Open(cmd.Context(), cfg, a.log)
			if err != nil {
				return err
			}
			defer func() {
				if err := cp.Close(); err != nil {
					a.log.Warnf("close store: %v", err)
				}
			}()

			res, err := cp.Run(cmd.Context())
			if err != nil {
				return err
			}

			if cfg.Store.Path != "" {
				a.log.Infof("run %s saved to %s", res.RunID, cfg.Store.Path)
			}
			cmd.Printf("%s\n", cfg.Plot.Output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "plot file (.png, .svg, .pdf, .jpg); overrides plot.output")
	cmd.Flags().BoolVar(&open, "open", false, "open the plot in the system viewer")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "do not record the run even if store.path is set")
	return cmd
}
