package router

import (
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/fricsignage/signage-api/internal/config"
    "github.com/fricsignage/signage-api/internal/handler"
    "github.com/fricsignage/signage-api/internal/middleware"
    "github.com/fricsignage/signage-api/internal/model"
)

// RegisterAuth registers the staff authentication routes.  The credential
// endpoints sit behind the Redis token bucket so password guessing burns a
// shared per-client budget; logout works without the JWT middleware so an
// expired session can still be terminated with its refresh token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
    limiter := middleware.NewTokenBucket(rlCfg, rdb)

    g := e.Group("/v1/auth")
    g.POST("/register", a.Register, limiter)
    g.POST("/login", a.Login, limiter)
    g.POST("/refresh", a.Refresh, limiter)
    g.POST("/logout", a.Logout)

    auth := e.Group("/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole(model.RoleStaff, model.RoleAdmin),
    )
    auth.GET("/me", a.Me)
}
