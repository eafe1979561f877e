package handler

import (
    "strconv"
    "strings"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"
)

// claimedUserID extracts the numeric subject stored in the context by the
// JWT middleware.  Numeric claims decode as float64; some clients encode the
// subject as a string.
func claimedUserID(c echo.Context) (uint64, bool) {
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

// bearerSubject parses an optional Authorization header directly, for
// endpoints that run without the JWT middleware (logout, anonymous intake
// with optional personalization).  It returns the subject claim and whether
// a valid bearer token was present.
func bearerSubject(c echo.Context, secret string) (uint64, bool) {
    authHeader := c.Request().Header.Get("Authorization")
    if !strings.HasPrefix(authHeader, "Bearer ") {
        return 0, false
    }
    rawToken := strings.TrimPrefix(authHeader, "Bearer ")
    tok, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, echo.ErrUnauthorized
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return 0, false
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return 0, false
    }
    switch sub := claims["sub"].(type) {
    case float64:
        return uint64(sub), true
    case string:
        if parsed, err := strconv.ParseUint(sub, 10, 64); err == nil {
            return parsed, true
        }
    }
    return 0, false
}
