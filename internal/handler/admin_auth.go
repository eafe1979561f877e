package handler

import (
    "context"
    "database/sql"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/fricsignage/signage-api/internal/config"
    "github.com/fricsignage/signage-api/internal/model"
    "github.com/fricsignage/signage-api/internal/repository"
    "github.com/fricsignage/signage-api/internal/utils"
)

// AdminAuthHandler serves administrator sign-in and self-service.  Admins
// live in their own registry table, separate from staff accounts, and the
// review middleware re-checks that registry on every request.
type AdminAuthHandler struct {
    Cfg    config.Config
    Admins *repository.AdminRepo
}

func NewAdminAuthHandler(cfg config.Config, a *repository.AdminRepo) *AdminAuthHandler {
    return &AdminAuthHandler{Cfg: cfg, Admins: a}
}

type adminPart struct {
    ID          uint64 `json:"id"`
    Username    string `json:"username"`
    DisplayName string `json:"display_name"`
}

// Login verifies admin credentials and issues a role=admin access token.
// Admin sessions are short-lived and not refreshable; re-login is the
// rotation policy for the review surface.
func (h *AdminAuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Username = strings.TrimSpace(req.Username)
    if req.Username == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    a, err := h.Admins.GetByUsername(ctx, req.Username)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if !utils.VerifyPassword(a.PasswordHash, req.Password) {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
    }
    if !a.IsActive {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "inactive user"})
    }

    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, a.ID, a.Username, model.RoleAdmin, h.Cfg.AccessTTLMin)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
    }

    return c.JSON(http.StatusOK, echo.Map{
        "user":   adminPart{ID: a.ID, Username: a.Username, DisplayName: a.DisplayName},
        "access": tokenPart{Token: access.Token, Expires: access.Exp},
    })
}

// Me returns the authenticated admin's profile.  RequireAdmin stores the
// verified registry id under "admin_id".
func (h *AdminAuthHandler) Me(c echo.Context) error {
    aid, ok := c.Get("admin_id").(uint64)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    a, err := h.Admins.GetByID(ctx, aid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, adminPart{ID: a.ID, Username: a.Username, DisplayName: a.DisplayName})
}

type changePasswordReq struct {
    CurrentPassword string `json:"current_password"`
    NewPassword     string `json:"new_password"`
}

// ChangePassword replaces the caller's password after re-verifying the
// current one.
func (h *AdminAuthHandler) ChangePassword(c echo.Context) error {
    aid, ok := c.Get("admin_id").(uint64)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req changePasswordReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if len(req.NewPassword) < 6 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 6 characters"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    a, err := h.Admins.GetByID(ctx, aid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if !utils.VerifyPassword(a.PasswordHash, req.CurrentPassword) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "wrong password"})
    }

    hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash failed"})
    }
    if err := h.Admins.UpdatePassword(ctx, aid, hash); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

type renameReq struct {
    Username string `json:"username"`
}

// Rename changes the caller's login name.  The new name takes effect for
// future logins; the current token keeps the old username claim until it
// expires.
func (h *AdminAuthHandler) Rename(c echo.Context) error {
    aid, ok := c.Get("admin_id").(uint64)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req renameReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Username = strings.TrimSpace(req.Username)
    if len(req.Username) < 3 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "username must be at least 3 characters"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Admins.Rename(ctx, aid, req.Username); err != nil {
        if err == repository.ErrUsernameExists {
            return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"username": req.Username})
}
