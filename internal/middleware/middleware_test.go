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

	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/config"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/model"
	"github.com/ali-7097/Airline-Ticket-Purchasing-System---SkyLink/internal/utils"
)

const secret = "test-secret"

func serve(e *echo.Echo, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func token(t *testing.T, uid uint64, role model.Role) string {
	t.Helper()
	tok, err := utils.NewAccessToken(secret, uid, role, 5)
	require.NoError(t, err)
	return tok.Token
}

func TestJWTAuthSetsTypedIdentity(t *testing.T) {
	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		uid, ok := c.Get(CtxUserID).(uint64)
		require.True(t, ok)
		role, ok := c.Get(CtxRole).(model.Role)
		require.True(t, ok)
		return c.JSON(http.StatusOK, echo.Map{"uid": uid, "role": role})
	}, JWTAuth(secret))

	rec := serve(e, http.MethodGet, "/me", token(t, 9, model.RolePassenger))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"uid":9,"role":"passenger"}`, rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, serve(e, http.MethodGet, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(e, http.MethodGet, "/me", "garbage").Code)

	other, err := utils.NewAccessToken("other-secret", 9, model.RolePassenger, 5)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, serve(e, http.MethodGet, "/me", other.Token).Code)
}

func TestJWTAuthRejectsUnknownRole(t *testing.T) {
	tok, err := utils.NewAccessToken(secret, 9, model.Role("owner"), 5)
	require.NoError(t, err)
	_, _, err = ParseAccessToken(secret, tok.Token)
	assert.Error(t, err)
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
	e.GET("/admin", ok, JWTAuth(secret), RequireRole(model.RoleAdmin))

	assert.Equal(t, http.StatusNoContent, serve(e, http.MethodGet, "/admin", token(t, 1, model.RoleAdmin)).Code)
	assert.Equal(t, http.StatusForbidden, serve(e, http.MethodGet, "/admin", token(t, 2, model.RolePassenger)).Code)
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRedisCacheServesHitAndNormalizesQuery(t *testing.T) {
	_, rdb := newRedis(t)
	cfg := config.CacheConfig{
		Enabled:     true,
		Methods:     map[string]bool{http.MethodGet: true},
		TTL:         time.Minute,
		KeyStrategy: "route_query",
		Prefix:      "test:search",
	}
	calls := 0
	e := echo.New()
	e.GET("/search", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"n": calls})
	}, NewRedisCache(cfg, rdb))

	first := serve(e, http.MethodGet, "/search?a=1&b=2", "")
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := serve(e, http.MethodGet, "/search?b=2&a=1", "")
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, calls)

	serve(e, http.MethodGet, "/search?a=2", "")
	assert.Equal(t, 2, calls)
}

func TestRedisCacheSkipsErrors(t *testing.T) {
	_, rdb := newRedis(t)
	cfg := config.CacheConfig{Enabled: true, Methods: map[string]bool{http.MethodGet: true}, TTL: time.Minute, Prefix: "p"}
	calls := 0
	e := echo.New()
	e.GET("/search", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "bad"})
	}, NewRedisCache(cfg, rdb))

	serve(e, http.MethodGet, "/search", "")
	serve(e, http.MethodGet, "/search", "")
	assert.Equal(t, 2, calls)
}

func TestTokenBucketBlocksAfterCapacity(t *testing.T) {
	_, rdb := newRedis(t)
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            time.Hour,
		KeyStrategy:    "ip",
		Prefix:         "test:rl",
	}
	e := echo.New()
	e.GET("/search", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, NewTokenBucket(cfg, rdb))

	assert.Equal(t, http.StatusNoContent, serve(e, http.MethodGet, "/search", "").Code)
	rec := serve(e, http.MethodGet, "/search", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	blocked := serve(e, http.MethodGet, "/search", "")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.NotEmpty(t, blocked.Header().Get("Retry-After"))
}

func TestTokenBucketFailsOpenWithoutRedis(t *testing.T) {
	e := echo.New()
	e.GET("/search", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) },
		NewTokenBucket(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil))
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusNoContent, serve(e, http.MethodGet, "/search", "").Code)
	}
}

func TestCurrentUserID(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Equal(t, "anon", currentUserID(c))
	c.Set(CtxUserID, uint64(17))
	assert.Equal(t, "17", currentUserID(c))
}
