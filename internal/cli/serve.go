package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/matzehuels/huffviz/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the compression and visualization API over HTTP",
		Long: `Serve the compression and visualization API over HTTP.

Storage and cache backends come from the config file and HUFFVIZ_*
environment variables (for example HUFFVIZ_STORAGE=mongo with
HUFFVIZ_MONGO_URI, or HUFFVIZ_CACHE=redis with HUFFVIZ_REDIS_ADDR).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :5000)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) (err error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	store, err := newStore(ctx, cfg)
	if err != nil {
		return multierr.Append(fmt.Errorf("initialize storage: %w", err), runner.Close())
	}

	srv := server.New(runner, store,
		server.WithLogger(c.Logger),
		server.WithMaxUploadBytes(cfg.Server.MaxUploadBytes),
		server.WithLayout(cfg.Layout),
	)
	defer func() {
		err = multierr.Append(err, srv.Close())
	}()

	cacheBackend := cfg.Cache.Backend
	if noCache {
		cacheBackend = "none"
	}
	printInfo("Serving on %s", StyleHighlight.Render(cfg.Server.Addr))
	printDetail("storage: %s  cache: %s", cfg.Storage.Backend, cacheBackend)

	return srv.Run(ctx, cfg.Server)
}
