package handler

import (
	"context"  // provides context with cancellation for service calls
	"errors"   // errors.Is for mapping domain errors
	"net/http" // HTTP status codes and primitives
	"strings"  // string manipulation utilities
	"time"     // timeouts for service calls

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/iliyamo/user-auth-service/internal/auth"
	"github.com/iliyamo/user-auth-service/internal/middleware"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{Svc: svc}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login: verify credentials and return a fresh token pair. Bad username
// and bad password produce the identical response.
func (h *AuthHandler) Login(c echo.Context) error {
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

	pair, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}
	return c.JSON(http.StatusOK, pair)
}

// Refresh: exchange the guard-validated refresh token for a new pair.
// The refresh guard already verified the token and attached the identity;
// the service performs the rotation, which is where a concurrent reuse of
// the same token loses.
func (h *AuthHandler) Refresh(c echo.Context) error {
	userID, ok := c.Get(middleware.CtxUserID).(uint64)
	raw, rok := c.Get(middleware.CtxRefreshToken).(string)
	if !ok || !rok || raw == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	pair, err := h.Svc.Refresh(ctx, userID, raw)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidRefreshToken) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not refresh tokens"})
	}
	return c.JSON(http.StatusOK, pair)
}

// Me: project the guard-verified claims back to the caller. No store
// access; the access token is the source of truth here.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, ok := c.Get(middleware.CtxUserID).(uint64)
	username, uok := c.Get(middleware.CtxUsername).(string)
	if !ok || !uok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, h.Svc.CurrentUser(userID, username))
}

// Logout: clear the stored refresh session for the authenticated user.
// Succeeds even when no session is active.
func (h *AuthHandler) Logout(c echo.Context) error {
	userID, ok := c.Get(middleware.CtxUserID).(uint64)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Svc.Logout(ctx, userID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "successfully logged out"})
}
