// Command usersd serves the cached user store over HTTP.
//
// Configuration is environment driven:
//
//	USERS_LISTEN_ADDR    listen address (default ":8080")
//	USERS_DB_DRIVER      "postgres" or "sqlite3" (default "sqlite3")
//	USERS_DB_DSN         driver connection string (default "users.db")
//	USERS_CACHE_BACKEND  "redis" or "memory" (default "memory")
//	USERS_REDIS_ADDR     redis address, required for the redis backend
//	USERS_CACHE_TTL      snapshot TTL in seconds (default 60)
//	USERS_CACHE_CODEC    "json" or "msgpack" (default "json")
//	USERS_BOOTSTRAP      "true" to create the schema at startup
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-user-store/cache"
	"github.com/goliatone/go-user-store/pkg/di"
	"github.com/goliatone/go-user-store/store"
)

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func configFromEnv() di.Config {
	ttl := 60
	if raw := os.Getenv("USERS_CACHE_TTL"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			ttl = parsed
		}
	}

	return di.Config{
		Store: store.Config{
			Driver: env("USERS_DB_DRIVER", store.DriverSQLite),
			DSN:    env("USERS_DB_DSN", "users.db"),
		},
		Cache: cache.Config{
			Backend:     env("USERS_CACHE_BACKEND", cache.BackendMemory),
			Addr:        os.Getenv("USERS_REDIS_ADDR"),
			SnapshotTTL: time.Duration(ttl) * time.Second,
			Codec:       env("USERS_CACHE_CODEC", "json"),
		},
	}
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := configFromEnv()
	container, err := di.NewContainer(cfg, logger)
	if err != nil {
		logger.Fatal("failed to build container", zap.Error(err))
	}
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if env("USERS_BOOTSTRAP", "false") == "true" {
		if err := container.Store().EnsureSchema(ctx); err != nil {
			logger.Fatal("schema bootstrap failed", zap.Error(err))
		}
		logger.Info("schema ensured")
	}

	srv := &http.Server{
		Addr:              env("USERS_LISTEN_ADDR", ":8080"),
		Handler:           container.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
		}
	}
}
