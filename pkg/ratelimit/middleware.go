package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"txnsense/internal/config"
	apperrors "txnsense/pkg/errors"
	"txnsense/pkg/metrics"
)

var ErrRateLimited = apperrors.NewError("RATE_LIMIT_EXCEEDED", "rate limit exceeded", http.StatusTooManyRequests)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type Settings struct {
	RPS             float64
	Burst           int
	CleanupInterval time.Duration
	MaxAge          time.Duration
}

func DefaultSettings() Settings {
	return Settings{
		RPS:             10.0,
		Burst:           20,
		CleanupInterval: 5 * time.Minute,
		MaxAge:          10 * time.Minute,
	}
}

// FromConfig fills unset values from DefaultSettings. Intervals in cfg are seconds.
func FromConfig(cfg config.RateLimitConfig) Settings {
	s := DefaultSettings()
	if cfg.RPS > 0 {
		s.RPS = cfg.RPS
	}
	if cfg.Burst > 0 {
		s.Burst = cfg.Burst
	}
	if cfg.CleanupInterval > 0 {
		s.CleanupInterval = time.Duration(cfg.CleanupInterval) * time.Second
	}
	if cfg.MaxAge > 0 {
		s.MaxAge = time.Duration(cfg.MaxAge) * time.Second
	}
	return s
}

// Middleware limits requests per client IP. Idle clients are forgotten after MaxAge;
// the sweeper stops when ctx is done.
func Middleware(ctx context.Context, settings Settings) gin.HandlerFunc {
	var (
		mu      sync.Mutex
		clients = make(map[string]*client)
	)

	go func() {
		ticker := time.NewTicker(settings.CleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				mu.Lock()
				for ip, cl := range clients {
					if now.Sub(cl.lastSeen) > settings.MaxAge {
						delete(clients, ip)
					}
				}
				mu.Unlock()
			}
		}
	}()

	limit := strconv.Itoa(int(settings.RPS))

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = c.RemoteIP()
		}

		mu.Lock()
		cl, ok := clients[ip]
		if !ok {
			cl = &client{limiter: rate.NewLimiter(rate.Limit(settings.RPS), settings.Burst)}
			clients[ip] = cl
		}
		cl.lastSeen = time.Now()
		mu.Unlock()

		c.Header("X-RateLimit-Limit", limit)

		if !cl.limiter.Allow() {
			metrics.RateLimitRequestsTotal.WithLabelValues("limited").Inc()
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apperrors.ToErrorResponse(ErrRateLimited))
			return
		}

		metrics.RateLimitRequestsTotal.WithLabelValues("allowed").Inc()
		remaining := int(cl.limiter.Tokens())
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		c.Next()
	}
}
