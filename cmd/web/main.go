package main

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/foodshare-okc/foodshare/internal/config"
	"github.com/foodshare-okc/foodshare/internal/logger"
	"github.com/foodshare-okc/foodshare/internal/middleware"
	"github.com/foodshare-okc/foodshare/internal/web"
)

// The form frontend.  It renders HTML pages and proxies every action to the
// API server; run it next to cmd/server.
func main() {
	cfg := config.LoadWeb()

	if err := logger.Init("info", cfg.Env); err != nil {
		panic(err)
	}
	defer func() { _ = logger.L().Sync() }()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestID())
	e.Use(logger.Middleware())

	srv := web.NewServer(web.NewAPIClient(cfg.APIBase))
	srv.Register(e)

	logger.L().Info("web client listening",
		zap.String("port", cfg.Port),
		zap.String("api_base", cfg.APIBase),
	)
	if err := e.Start(":" + cfg.Port); err != nil {
		logger.L().Fatal("web client stopped", zap.Error(err))
	}
}
