package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/dagboard/dagboard/internal/config"
	"github.com/dagboard/dagboard/internal/server"
	"github.com/dagboard/dagboard/pkg/cache"
	"github.com/dagboard/dagboard/pkg/editor"
	"github.com/dagboard/dagboard/pkg/history"
	"github.com/dagboard/dagboard/pkg/store"
	mongostore "github.com/dagboard/dagboard/pkg/store/mongo"
	pgstore "github.com/dagboard/dagboard/pkg/store/postgres"
)

// newServeCmd creates the serve command, which runs the HTTP editing API.
func newServeCmd() *cobra.Command {
	var (
		configPath string
		listen     string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP editing API",
		Long: `Serve starts an HTTP server exposing the graph editing API.

The server holds a single edit session with undo/redo history. Graphs can
be saved to and loaded from the configured persistence backend (in-memory,
MongoDB, or PostgreSQL), and layout results are cached when a cache backend
is configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath, listen)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to TOML config file")
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (overrides config)")

	return cmd
}

func runServe(ctx context.Context, configPath, listen string) error {
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if listen != "" {
		cfg.Listen = listen
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(context.Background()); cerr != nil {
			logger.Warn("closing store", "error", cerr)
		}
	}()
	logger.Debug("store ready", "backend", cfg.Store.Backend)

	ca, err := openCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := ca.Close(); cerr != nil {
			logger.Warn("closing cache", "error", cerr)
		}
	}()
	logger.Debug("cache ready", "backend", cfg.Cache.Backend)

	srv := server.New(server.Options{
		Session:  editor.New("untitled"),
		History:  history.NewBuffer(cfg.History.Limit),
		Store:    st,
		Cache:    ca,
		CacheTTL: cfg.CacheTTL(),
		Logger:   logger,
	})

	httpSrv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Listen)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return ctx.Err()
	}
}

// openStore builds the persistence backend selected by cfg.
func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return store.NewMemoryStore(), nil
	case config.BackendMongo:
		return mongostore.New(ctx, mongostore.Config{
			URI:      cfg.Store.MongoURI,
			Database: cfg.Store.MongoDB,
		})
	case config.BackendPostgres:
		return pgstore.New(ctx, cfg.Store.PostgresURL)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// openCache builds the cache backend selected by cfg.
func openCache(ctx context.Context, cfg config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheFile:
		return cache.NewFileCache(cfg.Cache.Dir)
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr: cfg.Cache.Redis,
			DB:   cfg.Cache.RedisDB,
		})
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}
