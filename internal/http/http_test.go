package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/formseal/internal/config"
	fieldcryptDomain "github.com/allisson/formseal/internal/fieldcrypt/domain"
	"github.com/allisson/formseal/internal/metrics"
	"github.com/allisson/formseal/internal/submission/domain"
	submissionHTTP "github.com/allisson/formseal/internal/submission/http"
	"github.com/allisson/formseal/internal/submission/usecase/mocks"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func createTestServer() *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer("localhost", 8080, logger)
}

func createMinimalRouter(server *Server) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(server.logger))
	router.GET("/health", server.healthHandler)
	router.GET("/ready", server.readinessHandler)
	return router
}

func TestHealthHandler(t *testing.T) {
	server := createTestServer()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	server.healthHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response["status"])
}

func TestReadinessHandler(t *testing.T) {
	t.Run("Success_NoChecks", func(t *testing.T) {
		server := createTestServer()

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

		server.readinessHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Success_AllChecksPass", func(t *testing.T) {
		server := createTestServer()
		server.AddReadinessCheck("encryption", func(ctx context.Context) error { return nil })

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

		server.readinessHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "ready", response["status"])
		components, ok := response["components"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "ok", components["encryption"])
	})

	t.Run("Error_OneCheckFails", func(t *testing.T) {
		server := createTestServer()
		server.AddReadinessCheck("encryption", func(ctx context.Context) error {
			return errors.New("no session key")
		})
		server.AddReadinessCheck("gateway", func(ctx context.Context) error { return nil })

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

		server.readinessHandler(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "not_ready", response["status"])
		components, ok := response["components"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "error", components["encryption"])
		assert.Equal(t, "ok", components["gateway"])
	})
}

func TestCustomLoggerMiddleware(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	router := gin.New()
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(logger))
	router.POST("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "test"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"ssn":"123-45-6789"}`))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(buf.String()), &entry))
	assert.Equal(t, "http request", entry["msg"])
	assert.Equal(t, "POST", entry["method"])
	assert.Equal(t, "/test", entry["path"])
	assert.EqualValues(t, 200, entry["status"])
	assert.Equal(t, w.Header().Get("X-Request-Id"), entry["request_id"])
	assert.NotContains(t, buf.String(), "123-45-6789")
}

func TestRecoveryMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CustomLoggerMiddleware(logger))
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRouter_NotFoundEndpoint(t *testing.T) {
	server := createTestServer()
	router := createMinimalRouter(server)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/nonexistent", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRequestIDMiddleware_HeaderPresent(t *testing.T) {
	router := gin.New()
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "test"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(w, req)

	requestID := w.Header().Get("X-Request-Id")
	require.NotEmpty(t, requestID)
	parsed, err := uuid.Parse(requestID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func setupFullRouter(
	t *testing.T,
	provider *metrics.Provider,
	store *RateLimiterStore,
) (*Server, *mocks.MockSubmissionUseCase) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockUseCase := &mocks.MockSubmissionUseCase{}
	handler := submissionHTTP.NewSubmissionHandler(mockUseCase, logger)

	server := NewServer("localhost", 8080, logger)
	server.SetupRouter(&config.Config{CORSEnabled: false}, handler, provider, store)
	return server, mockUseCase
}

func TestServer_SetupRouter(t *testing.T) {
	t.Run("Success_EncryptionStatus", func(t *testing.T) {
		server, mockUseCase := setupFullRouter(t, nil, nil)
		mockUseCase.On("Status", mock.Anything).Return(domain.EncryptionStatus{
			Supported:          true,
			HasKey:             true,
			KeyID:              "key-1",
			Algorithm:          fieldcryptDomain.AESGCM,
			SensitiveFields:    []string{"ssn"},
			MaxSensitiveFields: 50,
			MaxInputLength:     10000,
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/encryption/status", nil)
		server.GetHandler().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"key_id":"key-1"`)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Success_SubmitRoute", func(t *testing.T) {
		server, mockUseCase := setupFullRouter(t, nil, nil)
		mockUseCase.On("Submit", mock.Anything, mock.Anything).Return(&domain.Receipt{
			ID:          uuid.Must(uuid.NewV7()),
			Success:     true,
			Message:     "Form submitted successfully!",
			SubmittedAt: time.Now().UTC(),
		}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/applications", strings.NewReader(`{"form":{"name":"Ada"}}`))
		req.Header.Set("Content-Type", "application/json")
		server.GetHandler().ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_RateLimitedSubmissions", func(t *testing.T) {
		store := NewRateLimiterStore(0.001, 1, time.Minute)
		server, mockUseCase := setupFullRouter(t, nil, store)
		mockUseCase.On("Submit", mock.Anything, mock.Anything).Return(&domain.Receipt{
			ID:      uuid.Must(uuid.NewV7()),
			Success: true,
		}, nil).Once()

		send := func() *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/v1/applications", strings.NewReader(`{"form":{"name":"Ada"}}`))
			req.Header.Set("Content-Type", "application/json")
			server.GetHandler().ServeHTTP(w, req)
			return w
		}

		assert.Equal(t, http.StatusCreated, send().Code)

		w := send()
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.NotEmpty(t, w.Header().Get("Retry-After"))
		assert.Contains(t, w.Body.String(), "rate_limit_exceeded")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Success_StatusNotRateLimited", func(t *testing.T) {
		store := NewRateLimiterStore(0.001, 1, time.Minute)
		server, mockUseCase := setupFullRouter(t, nil, store)
		mockUseCase.On("Status", mock.Anything).Return(domain.EncryptionStatus{})

		for i := 0; i < 3; i++ {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/v1/encryption/status", nil)
			server.GetHandler().ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		}
		assert.Equal(t, 0, store.Len())
	})

	t.Run("Success_NoMetricsEndpointOnAPI", func(t *testing.T) {
		provider, err := metrics.NewProvider("test_app")
		require.NoError(t, err)
		defer func() {
			assert.NoError(t, provider.Shutdown(context.Background()))
		}()

		server, _ := setupFullRouter(t, provider, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		server.GetHandler().ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestServer_StartWithoutRouter(t *testing.T) {
	server := createTestServer()
	err := server.Start(context.Background())
	assert.Error(t, err)
}

func TestServer_ShutdownGracefully(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := NewServer("127.0.0.1", 0, logger)
	server.router = createMinimalRouter(server)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(context.Background())
	}()

	time.Sleep(100 * time.Millisecond)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	require.NoError(t, server.Shutdown(shutdownCtx))
	assert.NoError(t, <-errChan)
}

func TestMetricsServer_Endpoints(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	provider, err := metrics.NewProvider("test_app")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	metricsServer := NewMetricsServer("localhost", 8081, logger, provider)
	require.NotNil(t, metricsServer)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	metricsServer.GetHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}
