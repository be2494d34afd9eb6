package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/foodshare-okc/foodshare/internal/handler"
	"github.com/foodshare-okc/foodshare/internal/middleware"
)

// Handlers bundles every handler the API mounts.
type Handlers struct {
	Health  *handler.HealthHandler
	Auth    *handler.AuthHandler
	Profile *handler.ProfileHandler
	Listing *handler.ListingHandler
}

// Register mounts all API routes on the provided Echo instance.  Browse
// endpoints (health, feed, listing detail, a user's own listings, profile
// read) are open; everything that mutates state requires a Bearer token.
// cacheMW fronts the public feed and may be a pass-through when Redis is
// not configured.
func Register(e *echo.Echo, h Handlers, jwtSecret string, cacheMW echo.MiddlewareFunc) {
	api := e.Group("/api")

	api.GET("/health", h.Health.Health)
	api.POST("/signup", h.Auth.Signup)
	api.POST("/login", h.Auth.Login)

	api.GET("/profile/:id", h.Profile.Get)
	api.GET("/listings", h.Listing.Feed, cacheMW)
	api.GET("/listings/my/:userId", h.Listing.Mine)
	api.GET("/listings/:id", h.Listing.Get)

	// Mutating routes live behind JWT auth.  Request bodies still carry the
	// acting user ids; the token gates access, it does not replace them.
	auth := api.Group("", middleware.JWTAuth(jwtSecret))
	auth.PUT("/profile/:id", h.Profile.Update)
	auth.POST("/listings", h.Listing.Create)
	auth.PATCH("/listings/:id/claim", h.Listing.Claim)
	auth.PATCH("/listings/:id/complete", h.Listing.Complete)

	e.GET("/metrics", echo.WrapHandler(middleware.PrometheusHandler()))
}
