package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/foodshare-okc/foodshare/internal/apperr"
	"github.com/foodshare-okc/foodshare/internal/logger"
)

// respondError maps an application error to its HTTP status and writes the
// client-safe message.  The underlying cause of internal errors is logged
// server-side and never serialized.
func respondError(c echo.Context, err error) error {
	status := apperr.Status(err)
	if status >= 500 {
		logger.FromEcho(c).Error("request failed",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}
	return c.JSON(status, echo.Map{"error": apperr.ClientMessage(err)})
}
