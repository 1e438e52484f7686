package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mkling/vitrail/internal/server"
	"github.com/mkling/vitrail/pkg/cache"
	"github.com/mkling/vitrail/pkg/pipeline"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr          string
	redisAddr     string
	redisPassword string
	redisDB       int
}

// serveCommand creates the serve command running the HTTP generation service.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr: ":8080",
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP generation service",
		Long: `Run the HTTP generation service.

Artifacts are stored in a file cache by default. With --redis, both the
artifact cache and the image store use redis, so multiple instances behind
a load balancer share generated images.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newServerCache(&opts)
			if err != nil {
				return fmt.Errorf("create cache: %w", err)
			}

			// Server keys are prefixed so they never collide with CLI
			// artifacts on a shared redis.
			keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "server:")
			runner := pipeline.NewRunner(store, keyer, c.Logger)
			defer runner.Close()

			srv := server.New(runner, store, c.Logger)
			return srv.ListenAndServe(cmd.Context(), opts.addr)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", "", "redis address (enables the redis backend)")
	cmd.Flags().StringVar(&opts.redisPassword, "redis-password", "", "redis password")
	cmd.Flags().IntVar(&opts.redisDB, "redis-db", 0, "redis database number")

	return cmd
}

// newServerCache picks the cache backend for the service.
func newServerCache(opts *serveOpts) (cache.Cache, error) {
	if opts.redisAddr != "" {
		return cache.NewRedisCache(opts.redisAddr, opts.redisPassword, opts.redisDB)
	}
	dir, err := cacheDir()
	if err != nil {
		return nil, err
	}
	return cache.NewFileCache(filepath.Join(dir, "server"))
}
