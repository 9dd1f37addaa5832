package main

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"lifeboard/internal/httpapi"
	"lifeboard/internal/watch"
)

func newServeCmd(e *env) *cobra.Command {
	var watchPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board API over HTTP",
		Long: `Serve the board API on --addr until interrupted. With --watch, the given
board file is also uploaded every time it changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			handlers := httpapi.NewHandlers(e.svc, e.logger, httpapi.Defaults{
				Steps:         e.cfg.Defaults.Steps,
				MaxIterations: e.cfg.Defaults.MaxIterations,
			})
			srv := httpapi.NewServer(e.cfg.HTTP.Addr, httpapi.NewRouter(handlers, e.logger), e.logger)

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error { return srv.Run(ctx) })
			if watchPath != "" {
				w := watch.New(watchPath, e.svc, e.logger, nil)
				g.Go(func() error { return w.Run(ctx) })
			}
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&watchPath, "watch", "", "board file to upload whenever it changes")
	return cmd
}
