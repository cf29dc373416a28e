package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"txnsense/internal/config"
	"txnsense/internal/logger"
	apperrors "txnsense/pkg/errors"
	"txnsense/pkg/health"
	"txnsense/pkg/middleware"
	"txnsense/pkg/ratelimit"
	"txnsense/pkg/tracing"
)

type RouterOptions struct {
	ServiceName string
	Tracing     bool
	RateLimit   config.RateLimitConfig
	Health      *health.CheckerRegistry
}

// NewRouter assembles the gin engine. ctx bounds background work such as the rate
// limiter's sweeper.
func NewRouter(ctx context.Context, handler *Handler, log logger.Logger, opts RouterOptions) *gin.Engine {
	router := gin.New()

	if opts.Tracing {
		router.Use(tracing.GinMiddleware(opts.ServiceName))
	}
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))

	if opts.RateLimit.Enabled {
		settings := ratelimit.FromConfig(opts.RateLimit)
		router.Use(ratelimit.Middleware(ctx, settings))
		log.Infow("Rate limiting enabled", "rps", settings.RPS, "burst", settings.Burst)
	}

	handler.RegisterRoutes(router)

	registry := opts.Health
	if registry == nil {
		registry = health.NewCheckerRegistry()
	}
	router.GET("/health", func(c *gin.Context) {
		h := registry.Check(c.Request.Context())
		statusCode := http.StatusOK
		if h.Status == health.StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}
		c.JSON(statusCode, h)
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, apperrors.ToErrorResponse(apperrors.ErrNotFound.WithDetail("path", c.Request.URL.Path)))
	})

	return router
}
