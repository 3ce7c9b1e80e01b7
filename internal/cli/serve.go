package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/mapgraph/internal/metrics"
	"github.com/matzehuels/mapgraph/internal/server"
	errs "github.com/matzehuels/mapgraph/pkg/errors"
	"github.com/matzehuels/mapgraph/pkg/graph"
	"github.com/matzehuels/mapgraph/pkg/history"
	"github.com/matzehuels/mapgraph/pkg/store"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		session string
		watch   bool
	)

	cmd := &cobra.Command{
		Use:   "serve [graph]",
		Short: "Serve an edit history over HTTP",
		Long: `Serve exposes one edit history over a JSON API, with Prometheus metrics
at /metrics.

With --session the history is loaded from the snapshot store and written
back after every edit. A graph file seeds a session that does not exist
yet, or serves as an in-memory history without --session.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			env, _, err := c.env()
			if err != nil {
				return err
			}
			opts := server.Options{
				Addr:           c.cfg.Server.Addr,
				AllowedOrigins: c.cfg.Server.AllowedOrigins,
				Env:            env,
				Defaults:       c.cfg.Params,
				Session:        session,
				PresetsPath:    c.cfg.Presets,
				WatchPresets:   watch || c.cfg.Server.WatchPresets,
				Logger:         logger,
			}
			if addr != "" {
				opts.Addr = addr
			}
			if opts.ShutdownTimeout, err = c.cfg.ShutdownTimeout(); err != nil {
				return err
			}
			if opts.TTL, err = c.cfg.StoreTTL(); err != nil {
				return err
			}

			collector := metrics.NewCollector("mapgraph")
			collector.Register()
			opts.Metrics = collector

			var seed *graph.Graph
			if len(args) == 1 {
				if seed, err = readGraph(cmd, args[0]); err != nil {
					return err
				}
			}

			if session == "" {
				h := history.New(seed, c.historyOptions())
				return server.New(h, opts).Run(ctx)
			}

			return c.withStore(ctx, func(s store.Store) error {
				h, err := store.LoadSession(ctx, s, session, c.historyOptions())
				switch {
				case errs.Is(err, errs.ErrCodeSessionNotFound):
					h = history.New(seed, c.historyOptions())
					if err := c.saveSession(ctx, s, session, h); err != nil {
						return err
					}
					logger.Info("created session", "session", session)
				case err != nil:
					return err
				case seed != nil:
					logger.Warn("session exists, ignoring graph file", "session", session)
				}
				opts.Store = s
				return server.New(h, opts).Run(ctx)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	cmd.Flags().StringVar(&session, "session", "", "load and persist this session")
	cmd.Flags().BoolVar(&watch, "watch-presets", false, "reload the --presets file when it changes")

	return cmd
}
