package main // API server entry point

import (
	"log"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/foodshare-okc/foodshare/internal/config"
	"github.com/foodshare-okc/foodshare/internal/database"
	"github.com/foodshare-okc/foodshare/internal/handler"
	"github.com/foodshare-okc/foodshare/internal/logger"
	"github.com/foodshare-okc/foodshare/internal/middleware"
	"github.com/foodshare-okc/foodshare/internal/queue"
	"github.com/foodshare-okc/foodshare/internal/repository"
	"github.com/foodshare-okc/foodshare/internal/router"
	"github.com/foodshare-okc/foodshare/internal/service"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(cfg.LogLevel, cfg.Env); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.L().Sync() }()

	db, err := database.Open(cfg)
	if err != nil {
		logger.L().Fatal("open database", zap.Error(err))
	}
	defer db.Close()

	// Redis is optional: a nil client disables rate limiting and feed
	// caching, the API itself keeps working.
	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.L().Warn("redis unavailable; rate limiting and feed cache disabled")
	}

	users := repository.NewUserRepo(db)
	listings := repository.NewListingRepo(db)
	events := repository.NewEventRepo(db)

	h := router.Handlers{
		Health:  handler.NewHealthHandler(db),
		Auth:    handler.NewAuthHandler(cfg, users),
		Profile: handler.NewProfileHandler(users),
		Listing: handler.NewListingHandler(listings, events, service.NewQueuePublisher()),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestID())
	e.Use(logger.Middleware())
	e.Use(middleware.Metrics())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	router.Register(e, h, cfg.JWTSecret, cacheMW)

	// Background consumer appends claim events to logs/claims.log.  It runs
	// its own reconnect loop and never brings the server down.
	go func() {
		if err := queue.StartClaimConsumer(); err != nil {
			logger.L().Warn("claim consumer stopped", zap.Error(err))
		}
	}()

	addr := ":" + cfg.Port
	logger.L().Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		logger.L().Fatal("server exited", zap.Error(err))
	}
}
