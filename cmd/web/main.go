package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"pos-terminal/internal/backend"
	"pos-terminal/internal/catalog"
	"pos-terminal/internal/config"
	"pos-terminal/internal/session"
	"pos-terminal/internal/webui"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[web] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	var cache catalog.Cache = catalog.NewMemoryCache()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		ctx, cancel := context.WithTimeout(context.Background(), cfg.BackendTimeout)
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Printf("redis at %s unreachable, using in-memory catalog cache: %v", cfg.RedisAddr, err)
		} else {
			cache = catalog.NewRedisCache(rdb)
			logger.Printf("catalog cache on redis at %s", cfg.RedisAddr)
		}
		cancel()
	}

	sessions := session.NewStore(cfg.SessionTTL, func() (*backend.Client, error) {
		return backend.New(cfg.BackendURL, cfg.BackendTimeout)
	})

	probe, err := backend.New(cfg.BackendURL, cfg.BackendTimeout)
	if err != nil {
		logger.Fatalf("backend url: %v", err)
	}

	srv, err := webui.New(cfg.HTTPAddr, logger, webui.Deps{
		Sessions:       sessions,
		Catalog:        catalog.New(cache, cfg.CatalogTTL),
		Probe:          probe,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
