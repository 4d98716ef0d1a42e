package middleware

import (
    "context"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/user-auth-service/internal/model"
    "github.com/iliyamo/user-auth-service/internal/utils"
)

// CtxRefreshToken is where the refresh guard stashes the raw presented
// token. The guard consumes the request body, so the handler must read
// the token from context rather than re-binding.
const CtxRefreshToken = "refresh_token"

// RefreshStore is the read-only slice of the user store the refresh
// guard needs to cross-check the presented token.
type RefreshStore interface {
    GetByID(ctx context.Context, id uint64) (model.User, error)
}

// refreshBody mirrors the refresh endpoint's request payload. Refresh
// tokens travel in the body, not the Authorization header; the header
// stays reserved for access tokens.
type refreshBody struct {
    RefreshToken string `json:"refreshToken"`
}

// RefreshAuth returns an Echo middleware that admits a request only when
// its body carries a refresh token that (a) verifies against the refresh
// secret, (b) identifies an existing user via its subject claim, and
// (c) matches that user's stored session hash with an expiry still in the
// future. On success the identity and the raw token are attached to the
// context for the handler. The guard is a pure decision point: rotation
// happens later, inside the auth service.
func RefreshAuth(secret string, users RefreshStore) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            var body refreshBody
            if err := c.Bind(&body); err != nil || strings.TrimSpace(body.RefreshToken) == "" {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
            }
            raw := strings.TrimSpace(body.RefreshToken)

            claims, err := utils.ParseToken(raw, secret)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
            }
            id, err := claims.UserID()
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
            }

            u, err := users.GetByID(c.Request().Context(), id)
            if err != nil {
                // Unknown user and store failure look identical to the client.
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
            }
            if !u.HasSession() ||
                *u.RefreshTokenHash != utils.HashRefreshRaw(raw) ||
                !time.Now().UTC().Before(*u.RefreshTokenExpiresAt) {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
            }

            c.Set(CtxUserID, id)
            c.Set(CtxUsername, u.Username)
            c.Set(CtxRefreshToken, raw)
            return next(c)
        }
    }
}
