package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/avmartell/stockroom-backend/api/controllers"
	"github.com/avmartell/stockroom-backend/api/routes"
	"github.com/avmartell/stockroom-backend/internal/groups"
	"github.com/avmartell/stockroom-backend/internal/inventory"
	"github.com/avmartell/stockroom-backend/internal/state"
	"github.com/avmartell/stockroom-backend/pkg/cache"
	"github.com/avmartell/stockroom-backend/pkg/config"
	"github.com/avmartell/stockroom-backend/pkg/db"
	"github.com/avmartell/stockroom-backend/pkg/logger"
	"github.com/avmartell/stockroom-backend/pkg/metrics"
	"github.com/avmartell/stockroom-backend/pkg/redis"
	"github.com/avmartell/stockroom-backend/pkg/syncbridge"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	localCache, pinger, closeBackend, err := buildCache(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap cache backend", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeBackend(); err != nil {
			logg.Error(context.Background(), "error closing cache backend", err)
		}
	}()

	store := state.New(localCache, cfg.Cache.ItemsKey, cfg.Cache.GroupsKey, logg)

	registry := prometheus.NewRegistry()

	var gateway *syncbridge.Gateway
	if cfg.Sync.Enabled() {
		gateway, err = syncbridge.NewGateway(cfg.Sync.Endpoint,
			syncbridge.WithTimeout(cfg.Sync.Timeout),
			syncbridge.WithMetrics(metrics.NewSyncMetrics(registry)),
		)
		if err != nil {
			logg.Error(ctx, "failed to build sync gateway", err)
			os.Exit(1)
		}

		dispatcher := syncbridge.NewDispatcher(gateway, cfg.Sync.QueueDepth, logg)
		store.OnChange(func(snap state.Snapshot) {
			dispatcher.Enqueue(syncbridge.Snapshot{Items: snap.Items, Groups: snap.Groups})
		})
		go dispatcher.Run(ctx)
	}

	if err := store.Load(ctx); err != nil {
		logg.Error(ctx, "failed to load inventory from cache", err)
		os.Exit(1)
	}

	// Cache state is serving already; the remote refresh lands whenever
	// it lands.
	if gateway != nil && cfg.Sync.PullOnStart {
		go pullFromRemote(ctx, store, gateway, logg)
	}

	itemService, err := inventory.NewService(store)
	if err != nil {
		logg.Error(ctx, "failed to create item service", err)
		os.Exit(1)
	}
	groupService, err := groups.NewService(store)
	if err != nil {
		logg.Error(ctx, "failed to create group service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	startCtx := logg.WithFields(ctx, map[string]any{
		"env":           cfg.App.Env,
		"addr":          addr,
		"cache_backend": cfg.Cache.Backend,
		"sync_enabled":  cfg.Sync.Enabled(),
	})
	logg.Info(startCtx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, pinger, itemService, groupService, registry),
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(startCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(startCtx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(startCtx, "server shutdown failed", err)
		}
	}
}

// buildCache selects the persistence backend. The returned close
// function tears the backend down; the Pinger may be nil (memory).
func buildCache(ctx context.Context, cfg *config.Config, logg *logger.Logger) (cache.Cache, controllers.Pinger, func() error, error) {
	noClose := func() error { return nil }

	switch cfg.Cache.Backend {
	case config.CacheBackendMemory:
		return cache.NewMemory(), nil, noClose, nil

	case config.CacheBackendRedis:
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, nil, noClose, err
		}
		store, err := cache.NewRedisStore(client)
		if err != nil {
			return nil, nil, noClose, multierr.Append(err, client.Close())
		}
		return store, client, client.Close, nil

	default:
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, nil, noClose, err
		}
		store, err := cache.NewKVStore(client.DB())
		if err != nil {
			return nil, nil, noClose, multierr.Append(err, client.Close())
		}
		return store, client, client.Close, nil
	}
}

// pullFromRemote seeds local state from the sheet once at startup.
// Failures only cost the refresh; the cached state stands.
func pullFromRemote(ctx context.Context, store *state.Store, gateway *syncbridge.Gateway, logg *logger.Logger) {
	items, itemsOK, itemsErr := gateway.PullItems(ctx)
	groupList, groupsOK, groupsErr := gateway.PullGroups(ctx)

	if err := multierr.Combine(itemsErr, groupsErr); err != nil {
		logg.Warn(logg.WithFields(ctx, map[string]any{"error": err.Error()}), "startup pull incomplete")
	}

	store.ReplaceFromRemote(ctx, items, groupList, itemsOK, groupsOK)

	pullCtx := logg.WithFields(ctx, map[string]any{
		"items_pulled":  itemsOK,
		"groups_pulled": groupsOK,
	})
	logg.Info(pullCtx, "startup pull finished")
}
