// Package app provides the dependency injection container that assembles application components.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/allisson/formseal/internal/config"
	fieldcryptDomain "github.com/allisson/formseal/internal/fieldcrypt/domain"
	fieldcryptService "github.com/allisson/formseal/internal/fieldcrypt/service"
	fieldcryptUseCase "github.com/allisson/formseal/internal/fieldcrypt/usecase"
	"github.com/allisson/formseal/internal/http"
	"github.com/allisson/formseal/internal/metrics"
	submissionHTTP "github.com/allisson/formseal/internal/submission/http"
	submissionUseCase "github.com/allisson/formseal/internal/submission/usecase"
)

// Container holds all application dependencies. Components are created on first access.
type Container struct {
	config    *config.Config
	logWriter io.Writer

	// Infrastructure
	logger          *slog.Logger
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Field encryption
	policy            *fieldcryptDomain.Policy
	cipherService     *fieldcryptService.CipherService
	hashService       fieldcryptService.HashService
	kmsService        fieldcryptService.KMSService
	formCryptoUseCase fieldcryptUseCase.FormCryptoUseCase
	sessionUseCase    fieldcryptUseCase.SessionUseCase

	// Submission
	gateway           submissionUseCase.Gateway
	submissionUseCase submissionUseCase.SubmissionUseCase
	submissionHandler *submissionHTTP.SubmissionHandler

	// Servers
	rateLimiter   *http.RateLimiterStore
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	mu                  sync.Mutex
	loggerInit          sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	rateLimiterInit     sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	policyInit          sync.Once
	cipherServiceInit   sync.Once
	hashServiceInit     sync.Once
	kmsServiceInit      sync.Once
	formCryptoInit      sync.Once
	sessionInit         sync.Once
	gatewayInit         sync.Once
	submissionInit      sync.Once
	handlerInit         sync.Once
	initErrors          map[string]error
}

// Option customizes a Container.
type Option func(*Container)

// WithLogWriter sends log output to w instead of stdout. CLI commands that print results to
// stdout use it to keep logs out of their output.
func WithLogWriter(w io.Writer) Option {
	return func(c *Container) {
		c.logWriter = w
	}
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config, opts ...Option) *Container {
	c := &Container{
		config:     cfg,
		logWriter:  os.Stdout,
		initErrors: make(map[string]error),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the structured logger configured with the log level from configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = c.initMetricsProvider()
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. It is a no-op when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// RateLimiter returns the per-client submission rate limiter, or nil when rate limiting is disabled.
func (c *Container) RateLimiter() *http.RateLimiterStore {
	c.rateLimiterInit.Do(func() {
		if c.config.RateLimitEnabled {
			c.rateLimiter = http.NewRateLimiterStore(
				c.config.RateLimitRequestsPerSec,
				c.config.RateLimitBurst,
				c.config.RateLimitIdleTTL,
			)
		}
	})
	return c.rateLimiter
}

// HTTPServer returns the API server with its router configured.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown releases resources held by initialized components. Servers are stopped by their
// owner, which knows whether they were started.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	return errors.Join(shutdownErrors...)
}

func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(c.logWriter, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

func (c *Container) initMetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}

	provider, err := metrics.NewProvider(c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	return provider, nil
}

func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), provider.Namespace())
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return businessMetrics, nil
}

func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	submissionHandler, err := c.SubmissionHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get submission handler for http server: %w", err)
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	session, err := c.SessionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get session use case for http server: %w", err)
	}

	server := http.NewServer(c.config.ServerHost, c.config.ServerPort, logger)
	server.AddReadinessCheck("encryption", func(ctx context.Context) error {
		status := session.Status(ctx)
		if !status.Supported {
			return errors.New("encryption is not supported")
		}
		if !status.HasKey {
			return errors.New("session key is not available")
		}
		return nil
	})
	server.SetupRouter(c.config, submissionHandler, provider, c.RateLimiter())

	return server, nil
}

func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}
	if provider == nil {
		return nil, nil
	}

	return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
}
