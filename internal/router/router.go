package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/fricsignage/signage-api/internal/config"
    "github.com/fricsignage/signage-api/internal/handler"
    "github.com/fricsignage/signage-api/internal/middleware"
)

// RegisterRoutes registers the unauthenticated routes: the health check, the
// booked-slot range query (cached) and the submission intake.  Intake does
// not require a session; a bearer token, when present, only personalizes the
// confirmation mail.
func RegisterRoutes(e *echo.Echo, b *handler.BookedHandler, s *handler.SubmissionHandler, cacheCfg config.CacheConfig, rlCfg config.RateLimitConfig, rdb *redis.Client) {
    e.GET("/healthz", handler.Health)

    e.GET("/v1/slots/booked", b.List, middleware.NewRedisCache(cacheCfg, rdb))
    e.POST("/v1/submissions", s.Create, middleware.NewTokenBucket(rlCfg, rdb))
}
