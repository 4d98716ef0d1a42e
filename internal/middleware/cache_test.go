package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/user-auth-service/internal/config"
)

func cacheTestConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{"GET": true},
		TTL:          time.Minute,
		Prefix:       "cache",
		MaxBodyBytes: 1 << 20,
	}
}

func TestRedisCache_MissThenHit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	hits := 0
	handler := func(c echo.Context) error {
		hits++
		return c.JSON(http.StatusOK, echo.Map{"id": 1, "username": "alice"})
	}
	mw := NewRedisCache(cacheTestConfig(), rdb)

	e := echo.New()
	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/users/1", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/users/:id")
		require.NoError(t, mw(handler)(c))
		return rec
	}

	first := do()
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.Equal(t, 1, hits)

	second := do()
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, 1, hits, "handler must not run on a cache hit")
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestRedisCache_SkipsNonConfiguredMethods(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	hits := 0
	handler := func(c echo.Context) error {
		hits++
		return c.JSON(http.StatusOK, echo.Map{"ok": true})
	}
	mw := NewRedisCache(cacheTestConfig(), rdb)

	e := echo.New()
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/users", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		require.NoError(t, mw(handler)(c))
	}
	assert.Equal(t, 2, hits, "POST requests bypass the cache")
}

func TestRedisCache_DisabledOrNilClientPassesThrough(t *testing.T) {
	cfg := cacheTestConfig()
	cfg.Enabled = false

	hits := 0
	handler := func(c echo.Context) error {
		hits++
		return c.NoContent(http.StatusOK)
	}

	e := echo.New()
	for _, mw := range []echo.MiddlewareFunc{
		NewRedisCache(cfg, nil),
		NewRedisCache(cacheTestConfig(), nil),
	} {
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		require.NoError(t, mw(handler)(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 2, hits)
}
