package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"txnsense/internal/config"
)

func TestMiddleware_LimitsPerClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := gin.New()
	r.Use(Middleware(ctx, Settings{RPS: 0.001, Burst: 2, CleanupInterval: time.Minute, MaxAge: time.Minute}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1"))
	assert.Equal(t, http.StatusOK, do("10.0.0.2"))
}

func TestFromConfig(t *testing.T) {
	s := FromConfig(config.RateLimitConfig{RPS: 50, CleanupInterval: 30})
	assert.Equal(t, 50.0, s.RPS)
	assert.Equal(t, DefaultSettings().Burst, s.Burst)
	assert.Equal(t, 30*time.Second, s.CleanupInterval)
	assert.Equal(t, DefaultSettings().MaxAge, s.MaxAge)
}
