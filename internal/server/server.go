package server

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/ecotrack/gamification/internal/config"
	"github.com/ecotrack/gamification/internal/handler"
	"github.com/ecotrack/gamification/internal/repository"
	"github.com/ecotrack/gamification/internal/reqctx"
	"github.com/ecotrack/gamification/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	e   *echo.Echo
	log *zap.Logger
}

// New wires repositories, services and handlers onto a fresh echo instance.
// cache may be nil, in which case the leaderboard is always read from the
// database.
func New(db *gorm.DB, cfg *config.Config, log *zap.Logger, cache service.LeaderboardCache) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	thresholds, err := service.NewBadgeThresholds(cfg.BadgeThresholds)
	if err != nil {
		return nil, err
	}
	table := service.NewPointsTable(cfg.ActionPoints)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(withRequestContext)
	e.Use(requestLogger(log))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		AllowOriginFunc:  allowOrigin,
	}))

	txm := repository.NewTxManager(db)
	userRepo := repository.NewUserRepository(db)
	ledgerRepo := repository.NewPointLedgerRepository(db)
	badgeRepo := repository.NewBadgeRepository(db)
	rankRepo := repository.NewLeaderboardRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	ledger := service.NewPointsLedger(userRepo, ledgerRepo, txm)
	awarder := service.NewBadgeAwarder(userRepo, badgeRepo, thresholds, txm)
	leaderboard := service.NewLeaderboardService(rankRepo, badgeRepo, thresholds, cache, cfg.LeaderboardMaxLimit)
	notifSvc := service.NewNotificationService(notifRepo, log)
	gamification := service.NewGamificationService(txm, ledger, awarder, table, leaderboard, notifSvc, log)
	userSvc := service.NewUserService(userRepo, badgeRepo, thresholds)
	catalog := service.NewBadgeCatalogService(badgeRepo, thresholds)

	gamificationHandler := handler.NewGamificationHandler(gamification, leaderboard, cfg.LeaderboardDefaultLimit, log)
	userHandler := handler.NewUserHandler(userSvc, ledger, log)
	badgeHandler := handler.NewBadgeHandler(catalog, log)
	notifHandler := handler.NewNotificationHandler(notifSvc, userSvc, log)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"ok":         "true",
			"git_sha":    cfg.GitSHA,
			"build_time": cfg.BuildTime,
		})
	})

	api := e.Group("/api")
	api.POST("/users", userHandler.Register)
	api.GET("/users/:id", userHandler.Get)
	api.GET("/users/:id/points", userHandler.Points)
	api.GET("/users/:id/ledger", userHandler.Ledger)
	api.GET("/users/:id/badges", userHandler.Badges)
	api.GET("/users/:id/notifications", notifHandler.List)
	api.POST("/users/:id/notifications/read", notifHandler.MarkAllRead)
	api.POST("/gamification/points", gamificationHandler.AwardPoints)
	api.POST("/gamification/adjustments", gamificationHandler.AdjustPoints)
	api.GET("/gamification/leaderboard", gamificationHandler.Leaderboard)
	api.GET("/badges", badgeHandler.List)

	return &Server{e: e, log: log}, nil
}

func (s *Server) Handler() http.Handler {
	return s.e
}

func (s *Server) Start(addr string) error {
	s.log.Info("starting server", zap.String("addr", addr))
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

func requestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogError:     true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
				zap.String("rid", v.RequestID),
			}
			if actor := reqctx.ActorID(c.Request().Context()); actor != "" {
				fields = append(fields, zap.String("actor", actor))
			}
			if v.Error != nil {
				log.Warn("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			log.Info("request", fields...)
			return nil
		},
	})
}

// withRequestContext copies the request id and path actor into the request
// context so service logs can be correlated.
func withRequestContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		if rid := c.Response().Header().Get(echo.HeaderXRequestID); rid != "" {
			ctx = reqctx.WithRID(ctx, rid)
		}
		if id := c.Param("id"); id != "" {
			ctx = reqctx.WithActorID(ctx, id)
		}
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

func allowOrigin(origin string) (bool, error) {
	low := strings.ToLower(origin)
	if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
		strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
		return true, nil
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false, nil
	}
	if u.Scheme != "https" {
		return false, nil
	}
	return strings.HasSuffix(u.Hostname(), ".ecotrack.app"), nil
}
