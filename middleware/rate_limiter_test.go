package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRateLimiterWindow(t *testing.T) {
	limiter := NewMemoryRateLimiter()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res := limiter.Check(ctx, "tools:1.2.3.4", 3)
		assert.True(t, res.Allowed)
		assert.Equal(t, 3, res.Limit)
		assert.Equal(t, 3-(i+1), res.Remaining)
	}

	res := limiter.Check(ctx, "tools:1.2.3.4", 3)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
	assert.WithinDuration(t, time.Now().Add(rateWindow), res.ResetAt, 2*time.Second)

	// Other keys are unaffected.
	other := limiter.Check(ctx, "tools:5.6.7.8", 3)
	assert.True(t, other.Allowed)
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := NewMemoryRateLimiter()

	router := gin.New()
	router.GET("/ping", RateLimitMiddleware(limiter, "test", 2), func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	do := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "9.9.9.9:1234"
		router.ServeHTTP(w, req)
		return w
	}

	first := do()
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	do()
	third := do()
	assert.Equal(t, http.StatusTooManyRequests, third.Code)
	assert.Equal(t, "0", third.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, third.Header().Get("Retry-After"))
	assert.Contains(t, third.Body.String(), "RATE_LIMIT_EXCEEDED")
	assert.Contains(t, third.Body.String(), "Troppe richieste")
}

func TestGetClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	build := func(headers map[string]string, remote string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remote
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		c.Request = req
		return c
	}

	c := build(map[string]string{"X-Forwarded-For": "1.1.1.1, 2.2.2.2"}, "3.3.3.3:80")
	assert.Equal(t, "1.1.1.1", GetClientIP(c))

	c = build(map[string]string{"CF-Connecting-IP": "4.4.4.4"}, "3.3.3.3:80")
	assert.Equal(t, "4.4.4.4", GetClientIP(c))

	c = build(map[string]string{"X-Real-IP": "5.5.5.5"}, "3.3.3.3:80")
	assert.Equal(t, "5.5.5.5", GetClientIP(c))

	c = build(nil, "3.3.3.3:80")
	assert.Equal(t, "3.3.3.3", GetClientIP(c))
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/secure", AuthMiddleware(), func(c *gin.Context) {
		c.String(http.StatusOK, TenantID(c))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
