package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/user-auth-service/internal/utils"
)

func runJWT(t *testing.T, secret, authHeader string) (*httptest.ResponseRecorder, echo.Context, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	next := func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	}
	require.NoError(t, JWTAuth(secret)(next)(c))
	return rec, c, called
}

func TestJWTAuth_ValidToken(t *testing.T) {
	t.Parallel()

	tok, err := utils.NewToken("acc", 42, "alice", time.Hour)
	require.NoError(t, err)

	rec, c, called := runJWT(t, "acc", "Bearer "+tok.Raw)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
	assert.Equal(t, uint64(42), c.Get(CtxUserID))
	assert.Equal(t, "alice", c.Get(CtxUsername))
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	t.Parallel()

	rec, _, called := runJWT(t, "acc", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing bearer token")
	assert.False(t, called)
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	t.Parallel()

	// Token signed with the refresh secret must not pass the access guard.
	tok, err := utils.NewToken("refresh-secret", 42, "alice", time.Hour)
	require.NoError(t, err)

	rec, _, called := runJWT(t, "access-secret", "Bearer "+tok.Raw)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	t.Parallel()

	tok, err := utils.NewToken("acc", 42, "alice", -time.Minute)
	require.NoError(t, err)

	rec, _, called := runJWT(t, "acc", "Bearer "+tok.Raw)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestJWTAuth_GarbageToken(t *testing.T) {
	t.Parallel()

	rec, _, called := runJWT(t, "acc", "Bearer not.a.token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}
