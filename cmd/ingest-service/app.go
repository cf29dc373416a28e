package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"txnsense/internal/api"
	"txnsense/internal/config"
	"txnsense/internal/constants"
	"txnsense/internal/logger"
	"txnsense/pkg/bootstrap"
	"txnsense/pkg/health"
	"txnsense/pkg/metrics"
	"txnsense/pkg/tracing"
)

const serviceName = "ingest-service"

type App struct {
	config      *config.Config
	logger      logger.Logger
	base        *bootstrap.Base
	dbConnector *bootstrap.DatabaseConnector
	conns       *bootstrap.Connections
	server      *http.Server
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	return &App{
		config:      cfg,
		logger:      log,
		base:        bootstrap.NewBase(cfg, log),
		dbConnector: bootstrap.NewDatabaseConnector(cfg, log),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	tp, err := tracing.Init(a.config.Tracing, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.base.OnShutdown("tracer", tp.Shutdown)

	metrics.Register()

	conns, err := a.dbConnector.Connect(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	a.conns = conns
	a.base.OnShutdown("databases", func(ctx context.Context) error {
		return errors.Join(a.dbConnector.ShutdownDatabases(ctx, conns)...)
	})

	a.base.InitBroker()

	service, err := buildPipeline(ctx, a.config, a.logger, a.conns, a.base.Producer)
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	handler := api.NewHandler(service, a.logger.Named("api"), time.Duration(a.config.Server.RequestTimeoutSeconds)*time.Second)
	router := api.NewRouter(ctx, handler, a.logger, api.RouterOptions{
		ServiceName: serviceName,
		Tracing:     a.config.Tracing.Enabled,
		RateLimit:   a.config.RateLimit,
		Health:      a.healthRegistry(),
	})

	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.config.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(a.config.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(a.config.Server.WriteTimeoutSeconds) * time.Second,
	}
	return nil
}

func (a *App) healthRegistry() *health.CheckerRegistry {
	registry := health.NewCheckerRegistry()
	if a.conns.Postgres != nil {
		registry.Register(health.NewPostgreSQLChecker(a.conns.Postgres))
	}
	if a.conns.MongoClient != nil {
		registry.Register(health.NewMongoDBChecker(a.conns.MongoClient))
	}
	if a.conns.Redis != nil {
		registry.RegisterOptional(health.NewRedisChecker(a.conns.Redis))
	}
	if a.config.Broker.Kafka.Enabled() {
		registry.RegisterOptional(health.NewKafkaChecker(a.config.Broker.Kafka.Brokers))
	}
	return registry
}

// Run serves until ctx is cancelled or the listener fails, then shuts down.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.InfowCtx(ctx, "Server listening", "port", a.config.Server.Port)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return a.Shutdown()
	})

	return g.Wait()
}

func (a *App) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	var errs []error

	if a.server != nil {
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
		}
	}

	if err := a.base.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
