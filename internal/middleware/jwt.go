package middleware

import (
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/iliyamo/user-auth-service/internal/utils"
)

// Context keys set by the token guards and read by handlers.
const (
    CtxUserID   = "user_id"
    CtxUsername = "username"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's subject and username claims into the request
// context. The provided secret must match the one used when issuing
// access tokens. This middleware should wrap protected routes so that
// handlers can read the authenticated identity via `c.Get(CtxUserID)`
// and `c.Get(CtxUsername)`.
//
// The guard only decides admit/reject; it never touches stored state.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // A valid header starts with "Bearer " followed by the JWT.
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            claims, err := utils.ParseToken(raw, secret)
            if err != nil {
                // Bad signature, malformed, expired, or missing claims all
                // collapse into the same response.
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }
            id, err := claims.UserID()
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            c.Set(CtxUserID, id)
            c.Set(CtxUsername, claims.Username)
            return next(c)
        }
    }
}
