package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func limitedRouter(rdb *redis.Client, max int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ping", RateLimit(rdb, max, time.Minute, KeyByIPAndPath(), nil), func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "10.1.2.3:4567"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitBlocksAfterMax(t *testing.T) {
	r := limitedRouter(testRedis(t), 2)

	w := get(r, "/ping")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

	w = get(r, "/ping")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = get(r, "/ping")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "Too many requests")
}

func TestRateLimitWindowResets(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	r := limitedRouter(rdb, 1)

	require.Equal(t, http.StatusOK, get(r, "/ping").Code)
	require.Equal(t, http.StatusTooManyRequests, get(r, "/ping").Code)

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, get(r, "/ping").Code)
}

func TestRateLimitKeysAreIndependentPerIP(t *testing.T) {
	r := limitedRouter(testRedis(t), 1)

	require.Equal(t, http.StatusOK, get(r, "/ping").Code)
	require.Equal(t, http.StatusTooManyRequests, get(r, "/ping").Code)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.9.9.9:4567"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitNilClientPassesThrough(t *testing.T) {
	r := limitedRouter(nil, 1)
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, get(r, "/ping").Code)
	}
}

func TestRateLimitSkipsOptions(t *testing.T) {
	rdb := testRedis(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.OPTIONS("/ping", RateLimit(rdb, 1, time.Minute, KeyByIPAndPath(), nil), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
}

func TestRateLimitAllowBypass(t *testing.T) {
	rdb := testRedis(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	always := func(*gin.Context) bool { return true }
	r.GET("/ping", RateLimit(rdb, 1, time.Minute, KeyByIPAndPath(), always), func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, get(r, "/ping").Code)
	}
}
