package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"alumnet-backend/internal/delivery/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// Each test uses its own key prefix: the fallback counter store is shared
// package state keyed by prefix+IP.
func newLimitedRouter(config middleware.RateLimitConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RateLimitMiddleware(config))
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return r
}

func get(router *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimitExceeded(t *testing.T) {
	router := newLimitedRouter(middleware.RateLimitConfig{
		Limit:     1,
		Window:    time.Minute,
		KeyPrefix: "rl:test:exceeded:",
	})

	w := get(router)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = get(router)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Rate limit exceeded.")
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRateLimitWindowResets(t *testing.T) {
	router := newLimitedRouter(middleware.RateLimitConfig{
		Limit:     1,
		Window:    30 * time.Millisecond,
		KeyPrefix: "rl:test:window:",
	})

	assert.Equal(t, http.StatusOK, get(router).Code)
	assert.Equal(t, http.StatusTooManyRequests, get(router).Code)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, http.StatusOK, get(router).Code)
}

func TestAuthRateLimitConfigDefaults(t *testing.T) {
	cfg := middleware.AuthRateLimitConfig(0, 0)
	assert.Equal(t, 10, cfg.Limit)
	assert.Equal(t, time.Minute, cfg.Window)
	assert.False(t, cfg.FailClosed)
}
