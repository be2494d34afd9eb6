package handler // declare the package name; contains HTTP handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthHandler reports whether the service can reach its database.  Load
// balancers and monitoring systems poll it to verify the process is alive
// and wired up.
type HealthHandler struct {
	DB *sql.DB
}

func NewHealthHandler(db *sql.DB) *HealthHandler { return &HealthHandler{DB: db} }

// Health handles GET /api/health.  It pings the database and returns
// {ok, time} on success or a 500 with {ok:false} when the store is
// unreachable.
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := h.DB.PingContext(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"ok":    false,
			"error": "database error",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"ok":   true,
		"time": time.Now().UTC(),
	})
}
