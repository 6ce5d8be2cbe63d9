package main

import (
	"github.com/spf13/cobra"

	"github.com/cognicore/castplot/pkg/castplot/source"
)

func newFetchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Download the book into the cache, or report the cached copy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if err := validate(cfg); err != nil {
				return err
			}

			p := &source.CachedProvider{CachePath: cfg.CachePath, URL: cfg.SourceURL, Log: a.log}
			doc, err := p.Fetch(cmd.Context())
			if err != nil {
				return err
			}

			a.log.Infof("%s: %d bytes from %s", doc.Path, len(doc.Text), doc.Origin)
			cmd.Printf("%s\t%s\t%d\n", doc.Origin, doc.Path, len(doc.Text))
			return nil
		},
	}
}
