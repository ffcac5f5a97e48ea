// Package http provides the API HTTP server, its middleware and the metrics server.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/formseal/internal/config"
	"github.com/allisson/formseal/internal/metrics"
	submissionHTTP "github.com/allisson/formseal/internal/submission/http"
)

// ReadinessCheck reports whether a component can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// Server is the API HTTP server.
type Server struct {
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
	checks map[string]ReadinessCheck
}

// NewServer creates a Server listening on host:port. SetupRouter must be called before Start.
func NewServer(host string, port int, logger *slog.Logger) *Server {
	return &Server{
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:       15 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger: logger,
		checks: map[string]ReadinessCheck{},
	}
}

// AddReadinessCheck registers a component reported by /ready.
func (s *Server) AddReadinessCheck(name string, check ReadinessCheck) {
	s.checks[name] = check
}

// SetupRouter builds the gin engine with middleware and routes. metricsProvider and rateLimiter
// may be nil when the corresponding feature is disabled.
func (s *Server) SetupRouter(
	cfg *config.Config,
	submissionHandler *submissionHTTP.SubmissionHandler,
	metricsProvider *metrics.Provider,
	rateLimiter *RateLimiterStore,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), metricsProvider.Namespace()))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	{
		applications := v1.Group("/applications")
		if rateLimiter != nil {
			applications.Use(RateLimitMiddleware(rateLimiter, s.logger))
		}
		applications.POST("", submissionHandler.SubmitHandler)
		applications.POST("/verify", submissionHandler.VerifyHandler)

		v1.GET("/encryption/status", submissionHandler.StatusHandler)
	}

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router is not configured")
	}
	s.server.Handler = s.router

	s.logger.InfoContext(ctx, "starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.InfoContext(ctx, "shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) readinessHandler(c *gin.Context) {
	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	ready := true
	components := make(map[string]string, len(names))
	for _, name := range names {
		if err := s.checks[name](c.Request.Context()); err != nil {
			s.logger.WarnContext(c.Request.Context(), "readiness check failed",
				slog.String("component", name),
				slog.Any("error", err))
			components[name] = "error"
			ready = false
			continue
		}
		components[name] = "ok"
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "components": components})
}
