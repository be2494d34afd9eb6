package logger

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log = zap.NewNop()

// Init builds the global zap logger.  Production environments get JSON
// output, everything else gets the human-friendly development encoder.
func Init(level, env string) error {
	var lv zapcore.Level
	switch level {
	case "debug":
		lv = zapcore.DebugLevel
	case "warn":
		lv = zapcore.WarnLevel
	case "error":
		lv = zapcore.ErrorLevel
	default:
		lv = zapcore.InfoLevel
	}

	var (
		l   *zap.Logger
		err error
	)
	if env == "prod" || env == "production" {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(lv)
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		l, err = cfg.Build(zap.Fields(zap.String("env", env)))
	} else {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(lv)
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		l, err = cfg.Build()
	}
	if err != nil {
		return err
	}
	log = l
	zap.ReplaceGlobals(log)
	return nil
}

// L returns the global logger instance.
func L() *zap.Logger {
	return log
}

// Middleware returns an Echo middleware that writes one access-log line per
// request.  A per-request logger carrying the request id is stored in the
// echo context under "logger" for handlers to pick up via FromEcho.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := c.Request().Header.Get(echo.HeaderXRequestID)
			if reqID == "" {
				reqID = c.Response().Header().Get(echo.HeaderXRequestID)
			}
			ctxLogger := log.With(zap.String("request_id", reqID))
			c.Set("logger", ctxLogger)

			err := next(c)

			ctxLogger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", c.RealIP()),
			)
			return err
		}
	}
}

// FromEcho retrieves the per-request logger from the Echo context, falling
// back to the global logger when middleware has not run.
func FromEcho(c echo.Context) *zap.Logger {
	if l, ok := c.Get("logger").(*zap.Logger); ok {
		return l
	}
	return log
}
