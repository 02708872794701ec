package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/target/libris-ui/config"
	"github.com/target/libris-ui/internal/adapters/libraryapi"
	redisadapter "github.com/target/libris-ui/internal/adapters/redis"
	"github.com/target/libris-ui/internal/observability/statsd"
	"github.com/target/libris-ui/internal/ports"
	"github.com/target/libris-ui/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	// API is the library REST client; it is also the auth gateway.
	API       *libraryapi.Client
	Profiles  *service.ProfileService
	Catalog   *service.CatalogService
	Borrowing *service.BorrowingService
	Dashboard *service.DashboardService
	Metrics   *statsd.Client
	// Redis is nil when the shared profile cache is disabled.
	Redis redis.UniversalClient
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
	// Transport overrides the API client's round tripper (tests).
	Transport http.RoundTripper
}

// buildMetrics returns the StatsD sink. A failed dial is logged and leaves an
// inert client so the UI still serves.
func buildMetrics(cfg config.MetricsConfig, logger *slog.Logger) *statsd.Client {
	client, err := statsd.NewClient(statsd.Config{
		Enabled:    cfg.Enabled,
		Address:    cfg.StatsdAddr,
		Prefix:     cfg.Prefix,
		GlobalTags: cfg.GlobalTags(),
		Logger:     logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		client, _ = statsd.NewClient(statsd.Config{Prefix: cfg.Prefix, Logger: logger})
	}
	return client
}

//nolint:ireturn // nil interface when Redis is disabled
func buildProfileCache(client redis.UniversalClient) ports.ProfileCache {
	if client == nil {
		return nil
	}
	return redisadapter.NewProfileCache(client)
}

// NewServices wires the API client, profile cache and page services.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps with config are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	metricsSink := buildMetrics(cfg.Metrics, logger)

	api, err := libraryapi.New(libraryapi.Config{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		Transport: deps.Transport,
		Metrics:   metricsSink,
		Logger:    logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("library api client: %w", err)
	}

	profiles := service.NewProfileService(service.ProfileServiceOptions{
		Upstream:     api,
		Cache:        buildProfileCache(deps.RedisClient),
		CacheTTL:     cfg.Session.ProfileCacheTTL,
		FetchTimeout: cfg.API.Timeout,
		Logger:       logger,
	})

	return ServiceContainer{
		API:       api,
		Profiles:  profiles,
		Catalog:   service.NewCatalogService(service.CatalogServiceOptions{Gateway: api, Logger: logger}),
		Borrowing: service.NewBorrowingService(service.BorrowingServiceOptions{Gateway: api, Logger: logger}),
		Dashboard: service.NewDashboardService(service.DashboardServiceOptions{Gateway: api, Logger: logger}),
		Metrics:   metricsSink,
		Redis:     deps.RedisClient,
	}, nil
}

// ServiceOrchestrationConfig groups dependencies for RunServicesWithShutdown.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// shutdownWaitTimeout is the maximum time to wait for the server to stop gracefully.
const shutdownWaitTimeout = 15 * time.Second

// RunServicesWithShutdown starts the HTTP server and blocks until a shutdown
// signal is received or the server fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, errCh, err := StartHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	return waitForShutdown(shutdownConfig{
		ctx:        ctx,
		errCh:      errCh,
		httpServer: server,
		metrics:    cfg.Services.Metrics,
		logger:     logger,
	})
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	ctx        context.Context
	errCh      <-chan error
	httpServer *http.Server
	metrics    *statsd.Client
	logger     *slog.Logger
}

// waitForShutdown waits for shutdown signal or server error.
func waitForShutdown(cfg shutdownConfig) error {
	var runErr error
	select {
	case <-cfg.ctx.Done():
		cfg.logger.Info("shutting down services...")
	case runErr = <-cfg.errCh:
		cfg.logger.Error("service error", "error", runErr)
	}

	if stopErr := gracefulStop(cfg); stopErr != nil {
		if runErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
			return runErr
		}
		return stopErr
	}
	return runErr
}

// gracefulStop drains in-flight requests and releases the metrics socket.
func gracefulStop(cfg shutdownConfig) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWaitTimeout)
	defer cancel()

	err := ShutdownHTTPServer(ShutdownConfig{
		Context: shutdownCtx,
		Server:  cfg.httpServer,
		Logger:  cfg.logger,
	})
	if cfg.metrics != nil {
		if cerr := cfg.metrics.Close(); cerr != nil {
			cfg.logger.Warn("close statsd client failed", "error", cerr)
		}
	}
	return err
}
