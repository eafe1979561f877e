package router

import (
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/fricsignage/signage-api/internal/config"
    "github.com/fricsignage/signage-api/internal/handler"
    "github.com/fricsignage/signage-api/internal/middleware"
)

// RegisterAdmin registers admin sign-in plus the review surface and admin
// self-service.  Every protected route re-checks the admin registry on each
// request via RequireAdmin, so deactivation takes effect immediately.
func RegisterAdmin(e *echo.Echo, aa *handler.AdminAuthHandler, rv *handler.ReviewHandler, admins middleware.AdminLookup, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
    e.POST("/v1/auth/admin-login", aa.Login, middleware.NewTokenBucket(rlCfg, rdb))

    g := e.Group("/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireAdmin(admins),
    )

    // ---- Self-service ----
    g.GET("/admin/me", aa.Me)
    g.POST("/admin/change-password", aa.ChangePassword)
    g.POST("/admin/rename", aa.Rename)

    // ---- Review queue ----
    g.GET("/review", rv.Queue)
    g.POST("/review/:id/approve", rv.Approve)
    g.POST("/review/:id/reject", rv.Reject)
}
