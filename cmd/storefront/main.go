package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jcmexdev/storefront/internal/pkg/cache"
	"github.com/jcmexdev/storefront/internal/pkg/telemetry"
	"github.com/jcmexdev/storefront/internal/storefront/adapters/auth"
	"github.com/jcmexdev/storefront/internal/storefront/adapters/sqlite"
	"github.com/jcmexdev/storefront/internal/storefront/app"
	"github.com/jcmexdev/storefront/internal/storefront/infra/httpx"
)

func main() {
	telemetry.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.Open(getEnv("STOREFRONT_DB", "./data/storefront.db"))
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// Tokens and idempotent replays go to Redis when available; otherwise a
	// process-local cache keeps single-instance deployments working.
	var kv cache.Cache
	if redisAddr := getEnv("REDIS_ADDR", ""); redisAddr != "" {
		kv = cache.NewRedisCache(redisAddr, "storefront")
	} else {
		kv = cache.NewMemoryCache("storefront")
	}

	authProvider := auth.NewProvider(kv)

	catalog := app.NewCatalogService(store)
	orders := app.NewOrderService(store)
	accounts := app.NewAccountService(store, authProvider)

	handler := httpx.NewHandler(catalog, orders, accounts, kv)
	router := httpx.NewRouter(handler, authProvider)

	addr := ":" + getEnv("PORT", "8080")
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("storefront HTTP server running", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
