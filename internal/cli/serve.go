package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlindner/coursemap/internal/server"
	"github.com/mlindner/coursemap/pkg/cache"
	"github.com/mlindner/coursemap/pkg/config"
	"github.com/mlindner/coursemap/pkg/store"
)

// shutdownTimeout bounds graceful shutdown on interrupt.
const shutdownTimeout = 10 * time.Second

// newServeCmd creates the serve command for running the HTTP API.
func newServeCmd() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

The server exposes roadmaps, computed layouts, and transcripts as JSON.
Backends are selected in the config file: the memory store and null cache
need no infrastructure; MongoDB and Redis are available for deployments.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath, addr)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (TOML)")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}

func runServe(ctx context.Context, configPath, addr string) error {
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	st, err := newStore(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			logger.Warn("store close failed", "error", err)
		}
	}()

	ca, err := newCache(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer ca.Close()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.New(st, ca, cfg.Cache.TTL.Duration, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving", "addr", cfg.Server.Addr, "store", cfg.Store.Backend, "cache", cfg.Cache.Backend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newStore builds the configured persistence backend.
func newStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Backend {
	case config.StoreMongo:
		return store.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return store.NewMemoryStore(), nil
	}
}

// newCache builds the configured cache backend. The file cache falls back
// to the standard cache directory when no dir is configured.
func newCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case config.CacheFile:
		dir := cfg.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		return cache.NewFileCache(dir)
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	default:
		return cache.NewNullCache(), nil
	}
}
