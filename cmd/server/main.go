package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stwalsh4118/akmovies/internal/anilist"
	"github.com/stwalsh4118/akmovies/internal/api"
	"github.com/stwalsh4118/akmovies/internal/cache"
	"github.com/stwalsh4118/akmovies/internal/config"
	"github.com/stwalsh4118/akmovies/internal/db"
	"github.com/stwalsh4118/akmovies/internal/events"
	"github.com/stwalsh4118/akmovies/internal/logger"
	"github.com/stwalsh4118/akmovies/internal/server"
	"github.com/stwalsh4118/akmovies/internal/tmdb"
	"github.com/stwalsh4118/akmovies/internal/upstream"
)

const shutdownTimeout = 10 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		// The logger is not configured yet
		logger.Init("info", true)
		logger.Log.Error().Err(err).Msg("Failed to load configuration")
		return 1
	}

	logger.InitWithFile(cfg.Logging.Level, cfg.Logging.Pretty, cfg.Logging.File)
	logger.Log.Info().Msg("Movie portal starting")

	database, err := db.NewWithOptions(cfg.Database.Path, db.Options{
		EnableWAL:   cfg.Database.EnableWAL,
		PingTimeout: cfg.Database.ConnectionTimeout,
	})
	if err != nil {
		logger.Log.Error().Err(err).Str("path", cfg.Database.Path).Msg("Failed to open database")
		return 1
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Log.Warn().Err(err).Msg("Failed to close database")
		}
	}()

	sqlDB, err := database.GetSQLDB()
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to get SQL DB")
		return 1
	}
	if err := db.RunMigrations(sqlDB, cfg.Database.MigrationsPath); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to run migrations")
		return 1
	}

	catalogCache, err := cache.Open(cfg.Cache.Path, cfg.Cache.TTL, cfg.Cache.MemoryEntries)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Failed to open cache file, using memory cache")
		catalogCache, _ = cache.Open("", cfg.Cache.TTL, cfg.Cache.MemoryEntries)
	}
	defer func() {
		if err := catalogCache.Close(); err != nil {
			logger.Log.Warn().Err(err).Msg("Failed to close cache")
		}
	}()

	tmdbHTTP := upstream.NewClient("tmdb", upstreamOptions(cfg, cfg.TMDB.Timeout))
	anilistHTTP := upstream.NewClient("anilist", upstreamOptions(cfg, cfg.AniList.Timeout))
	if cfg.TMDB.APIKey == "" {
		logger.Log.Warn().Msg("TMDB API key not set, catalog requests will fail")
	}

	var publisher *events.Publisher
	if cfg.Events.Enabled {
		conn, err := events.Connect(cfg.Events)
		if err != nil {
			logger.Log.Warn().Err(err).Str("url", cfg.Events.NATSURL).Msg("Event publishing disabled")
		} else {
			publisher = events.NewPublisher(conn)
			defer conn.Close()
		}
	}

	srv := server.New(cfg, database, server.Dependencies{
		TMDB:      tmdb.NewClient(cfg.TMDB, tmdbHTTP),
		AniList:   anilist.NewClient(cfg.AniList, anilistHTTP),
		Cache:     catalogCache,
		Events:    publisher,
		Upstreams: []api.UpstreamReporter{tmdbHTTP, anilistHTTP},
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Log.Info().Msg("Shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error().Err(err).Msg("Server exited with error")
			return 1
		}
		return 0
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error().Err(err).Msg("Graceful shutdown failed")
		return 1
	}
	return 0
}

func upstreamOptions(cfg *config.Config, timeout time.Duration) upstream.Options {
	return upstream.Options{
		Timeout:          timeout,
		RetryAttempts:    cfg.Upstream.RetryAttempts,
		BreakerThreshold: cfg.Upstream.BreakerThreshold,
		BreakerReset:     cfg.Upstream.BreakerReset,
	}
}
