package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/NewsPulse/internal/report"
)

// serveCmd creates the "serve" subcommand, the local analysis form.
func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis form on a local address",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := interruptible()
			defer stop()

			srv := report.NewServer(report.ServerOptions{
				Addr:     a.cfg.Server.Addr,
				Title:    a.cfg.Report.Title,
				Channels: a.registry.Names(),
				Defaults: defaultSelection(a.registry.Names()),
				Limit:    a.cfg.Discovery.MaxArticlesLimit,
			}, a.runner().Run, a.metrics, a.logger)

			fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s\n", a.cfg.Server.Addr)
			err = srv.Start(ctx)
			a.metrics.LogSummary()
			return err
		},
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&readability, "readability", false, "fall back to readability when the content root is missing")
	cmd.Flags().BoolVar(&headful, "headful", false, "show the browser window")
	return cmd
}

// defaultSelection preselects the first two channels in the form.
func defaultSelection(names []string) []string {
	return names[:min(2, len(names))]
}
