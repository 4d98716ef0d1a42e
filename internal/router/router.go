package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/user-auth-service/internal/config"     // app configuration
	"github.com/iliyamo/user-auth-service/internal/handler"    // handlers that implement business logic
	"github.com/iliyamo/user-auth-service/internal/middleware" // guards and cross-cutting middleware
)

// apiKeyExempt is the explicit route-classification table consulted by
// the API-key guard. Logout stays reachable with a rotated or missing
// key because the goal there is cleanup, not protected-resource access;
// the health check must work for probes that know nothing about keys.
var apiKeyExempt = map[string]bool{
	"/auth/logout": true,
	"/healthz":     true,
}

// Register wires the full middleware chain and all routes onto the given
// Echo instance. The order is fixed: request logging runs first, then the
// API-key guard, then per-group token guards, then handlers.
func Register(e *echo.Echo, cfg config.Config, a *handler.AuthHandler, u *handler.UserHandler, users middleware.RefreshStore, rdb *redis.Client) {
	e.Use(middleware.RequestLog())
	e.Use(middleware.APIKey(cfg.APIKey, apiKeyExempt))

	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	// Auth endpoints. Login needs no token; refresh is guarded by the
	// refresh-token check; me and logout require a valid access token.
	bearer := middleware.JWTAuth(cfg.AccessSecret)
	g := e.Group("/auth")
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh, middleware.RefreshAuth(cfg.RefreshSecret, users))
	g.GET("/me", a.Me, bearer)
	g.POST("/logout", a.Logout, bearer)

	// Account CRUD. Creation is open (registration); everything else
	// requires an access token. Reads go through the Redis response cache
	// when a client is available.
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	e.POST("/users", u.Create)
	e.GET("/users", u.List, bearer, cache)
	e.GET("/users/:id", u.Get, bearer, cache)
	e.PUT("/users/:id", u.Update, bearer)
	e.DELETE("/users/:id", u.Delete, bearer)
}
