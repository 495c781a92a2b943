package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/taskgraph/internal/server"
	"github.com/matzehuels/taskgraph/pkg/cache"
	"github.com/matzehuels/taskgraph/pkg/store"
)

// connectTimeout bounds the initial store and cache handshakes.
const connectTimeout = 10 * time.Second

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		mongoURI string
		redisURL string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the graph storage and analysis HTTP server",
		Long: `Serve starts an HTTP server exposing graph storage, analysis reports,
exports, and execution event ingestion.

Without --mongo-uri graphs are held in memory and lost on restart.
Without --redis-url analysis reports are cached on local disk.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			st, err := c.newStore(ctx, mongoURI)
			if err != nil {
				return fmt.Errorf("connect store: %w", err)
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), connectTimeout)
				defer cancel()
				if err := st.Close(shutdownCtx); err != nil {
					c.Logger.Error("close store", "error", err)
				}
			}()

			cc, err := c.newServeCache(ctx, redisURL, noCache)
			if err != nil {
				return fmt.Errorf("connect cache: %w", err)
			}

			srv := server.New(server.Config{
				Addr:   addr,
				Store:  st,
				Cache:  cc,
				Logger: c.Logger,
			})
			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "MongoDB connection URI for persistent graph storage")
	cmd.Flags().StringVar(&redisURL, "redis-url", "", "Redis URL for shared report caching")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable report caching")

	return cmd
}

// newStore connects to MongoDB when a URI is given and falls back to an
// in-memory store otherwise.
func (c *CLI) newStore(ctx context.Context, mongoURI string) (store.Store, error) {
	if mongoURI == "" {
		c.Logger.Warn("no --mongo-uri given, graphs are held in memory only")
		return store.NewMemoryStore(), nil
	}
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	return store.NewMongoStore(connectCtx, store.MongoConfig{URI: mongoURI})
}

// newServeCache connects to Redis when a URL is given and falls back to the
// local file cache otherwise.
func (c *CLI) newServeCache(ctx context.Context, redisURL string, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisURL != "" {
		connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		return cache.NewRedisCache(connectCtx, redisURL)
	}
	return newCache(false)
}
