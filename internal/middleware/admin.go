package middleware

import (
    "context"
    "database/sql"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/fricsignage/signage-api/internal/model"
)

// AdminLookup resolves an admin account by id.  It is satisfied by
// repository.AdminRepo and kept narrow so tests can substitute a fake.
type AdminLookup interface {
    GetByID(ctx context.Context, id uint64) (model.AdminUser, error)
}

// RequireAdmin returns a middleware that gates administrator-only routes.
// It assumes JWTAuth already ran and distinguishes three refusals: a token
// whose role is not admin (403 "not allowed"), a subject absent from the
// admin_users registry (403 "not allowed"), and a registered admin that has
// been deactivated (403 "inactive user").  The registry lookup runs on
// every request so deactivating an admin takes effect before their token
// expires.
func RequireAdmin(admins AdminLookup) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            role, _ := c.Get("role").(string)
            if role != model.RoleAdmin {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "not allowed"})
            }
            uid, ok := ClaimUserID(c)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }
            a, err := admins.GetByID(c.Request().Context(), uid)
            if err != nil {
                if err == sql.ErrNoRows {
                    return c.JSON(http.StatusForbidden, echo.Map{"error": "not allowed"})
                }
                return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
            }
            if !a.IsActive {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "inactive user"})
            }
            c.Set("admin_id", a.ID)
            return next(c)
        }
    }
}

// ClaimUserID extracts the numeric subject stored by JWTAuth.  JWT numeric
// claims decode as float64; some clients encode the subject as a string.
func ClaimUserID(c echo.Context) (uint64, bool) {
    switch v := c.Get("user_id").(type) {
    case float64:
        return uint64(v), true
    case string:
        if parsed, err := strconv.ParseUint(v, 10, 64); err == nil {
            return parsed, true
        }
    }
    return 0, false
}
