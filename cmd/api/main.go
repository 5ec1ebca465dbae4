package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ecotrack/gamification/internal/cache"
	"github.com/ecotrack/gamification/internal/config"
	"github.com/ecotrack/gamification/internal/db"
	"github.com/ecotrack/gamification/internal/logger"
	"github.com/ecotrack/gamification/internal/repository"
	"github.com/ecotrack/gamification/internal/server"
	"github.com/ecotrack/gamification/internal/service"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := db.Connect(cfg)
	if err != nil {
		return err
	}
	if err := db.Migrate(conn); err != nil {
		return err
	}

	thresholds, err := service.NewBadgeThresholds(cfg.BadgeThresholds)
	if err != nil {
		return err
	}
	catalog := service.NewBadgeCatalogService(repository.NewBadgeRepository(conn), thresholds)
	if n, err := catalog.SeedDefaults(ctx); err != nil {
		return err
	} else if n > 0 {
		zl.Info("seeded badge catalog", zap.Int("inserted", n))
	}

	var lbCache service.LeaderboardCache
	rc, err := cache.NewRedisClient(ctx, cfg)
	if err != nil {
		zl.Warn("redis unavailable; leaderboard cache disabled", zap.Error(err))
	} else if rc != nil {
		defer func() { _ = rc.Close() }()
		lbCache = cache.NewLeaderboardCache(rc, cfg.LeaderboardCacheTTL, zl)
	}

	srv, err := server.New(conn, cfg, zl, lbCache)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		zl.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
