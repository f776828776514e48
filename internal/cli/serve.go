package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/railsmith/railsmith/internal/server"
	"github.com/railsmith/railsmith/pkg/cache"
	"github.com/railsmith/railsmith/pkg/pipeline"
)

// serveCommand creates the serve command running the companion HTTP
// server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noCache   bool
		redisAddr string
		noBackups bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the companion HTTP server",
		Long: `Run the companion HTTP server.

External tools post snapshots with an op list to /v1/transform and get
the transformed snapshot back; /v1/backups exposes the backup store.
With --redis (or redis.addr in the config file) the result cache is
shared across processes instead of living on local disk.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)

			store, err := c.serveCache(ctx, noCache, redisAddr)
			if err != nil {
				return fmt.Errorf("initialize cache: %w", err)
			}
			runner := pipeline.NewRunner(store, nil, c.Logger)
			defer runner.Close()

			srv := server.New(runner, nil, c.Logger)
			if !noBackups {
				backups, err := c.openBackupStore()
				if err != nil {
					return err
				}
				defer backups.Close()
				srv.Backups = backups
			}

			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8797", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result caching")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "redis address for a shared cache (host:port)")
	cmd.Flags().BoolVar(&noBackups, "no-backups", false, "disable the backup endpoints")

	return cmd
}

// serveCache picks the cache backend for the server: redis when
// configured, the regular file cache otherwise.
func (c *CLI) serveCache(ctx context.Context, noCache bool, redisAddr string) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisAddr == "" {
		redisAddr = c.Config.Redis.Addr
	}
	if redisAddr != "" {
		return cache.NewRedisCache(ctx, redisAddr)
	}
	return c.newCache(false)
}
