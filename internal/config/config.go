// Package config provides application configuration through environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/allisson/go-env"
	validation "github.com/jellydator/validation"
	"github.com/joho/godotenv"

	"github.com/allisson/formseal/internal/fieldcrypt/domain"
	customValidation "github.com/allisson/formseal/internal/validation"
)

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the server will bind to.
	ServerHost string
	// ServerPort is the port number the server will listen on.
	ServerPort int
	// ShutdownTimeout bounds graceful shutdown of the HTTP servers.
	ShutdownTimeout time.Duration

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// EncryptionAlgorithm is the AEAD used for field encryption ("aes-gcm" or "chacha20-poly1305").
	EncryptionAlgorithm string
	// EncryptionMaxInputLength is the largest plaintext, in UTF-16 code units, a field may hold.
	EncryptionMaxInputLength int
	// EncryptionMaxSensitiveFields is the most fields encrypted in one form.
	EncryptionMaxSensitiveFields int
	// EncryptionSensitiveFields overrides the default sensitive field names when not empty.
	EncryptionSensitiveFields []string

	// SubmissionDelay is the latency of the simulated submission gateway.
	SubmissionDelay time.Duration

	// RateLimitEnabled indicates whether per-client rate limiting of submissions is enabled.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the sustained request rate allowed per client.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the burst size allowed per client.
	RateLimitBurst int
	// RateLimitIdleTTL is how long an idle client's limiter is kept.
	RateLimitIdleTTL time.Duration

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	loadDotEnv()

	return &Config{
		// Server configuration
		ServerHost:      env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort:      env.GetInt("SERVER_PORT", 8080),
		ShutdownTimeout: env.GetDuration("SHUTDOWN_TIMEOUT_SECONDS", 10, time.Second),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Field encryption
		EncryptionAlgorithm:          env.GetString("ENCRYPTION_ALGORITHM", string(domain.AESGCM)),
		EncryptionMaxInputLength:     env.GetInt("ENCRYPTION_MAX_INPUT_LENGTH", domain.DefaultMaxInputLength),
		EncryptionMaxSensitiveFields: env.GetInt("ENCRYPTION_MAX_SENSITIVE_FIELDS", domain.DefaultMaxSensitiveFields),
		EncryptionSensitiveFields:    splitList(env.GetString("ENCRYPTION_SENSITIVE_FIELDS", "")),

		// Submission
		SubmissionDelay: env.GetDuration("SUBMISSION_DELAY_MILLISECONDS", 1000, time.Millisecond),

		// Rate limiting, 10 requests per minute per client by default
		RateLimitEnabled:        env.GetBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequestsPerSec: env.GetFloat64("RATE_LIMIT_REQUESTS_PER_SEC", 10.0/60.0),
		RateLimitBurst:          env.GetInt("RATE_LIMIT_BURST", 10),
		RateLimitIdleTTL:        env.GetDuration("RATE_LIMIT_IDLE_TTL_MINUTES", 10, time.Minute),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "formseal"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),
	}
}

// Validate checks that the configuration can start the application.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.ServerPort, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.EncryptionAlgorithm,
			validation.Required,
			validation.In(string(domain.AESGCM), string(domain.ChaCha20)),
		),
		validation.Field(&c.EncryptionMaxInputLength, validation.Required, validation.Min(1)),
		validation.Field(&c.EncryptionMaxSensitiveFields, validation.Required, validation.Min(1)),
		validation.Field(&c.EncryptionSensitiveFields, validation.Each(customValidation.FieldName)),
		validation.Field(&c.SubmissionDelay, validation.Min(time.Duration(0))),
		validation.Field(&c.RateLimitRequestsPerSec,
			validation.When(c.RateLimitEnabled, validation.Required, validation.Min(0.0)),
		),
		validation.Field(&c.RateLimitBurst, validation.When(c.RateLimitEnabled, validation.Required, validation.Min(1))),
		validation.Field(&c.MetricsPort,
			validation.When(c.MetricsEnabled, validation.Required, validation.Min(1), validation.Max(65535)),
		),
		validation.Field(&c.MetricsNamespace, validation.When(c.MetricsEnabled, validation.Required)),
	)
	if err != nil {
		return customValidation.WrapValidationError(err)
	}
	return nil
}

// Policy builds the field encryption policy described by the configuration.
func (c *Config) Policy() (domain.Policy, error) {
	alg, err := domain.ParseAlgorithm(c.EncryptionAlgorithm)
	if err != nil {
		return domain.Policy{}, err
	}

	names := domain.DefaultSensitiveFields
	if len(c.EncryptionSensitiveFields) > 0 {
		names = c.EncryptionSensitiveFields
	}

	policy := domain.Policy{
		Algorithm: alg,
		Registry:  domain.NewRegistry(names...),
		Limits: domain.Limits{
			MaxInputLength:     c.EncryptionMaxInputLength,
			MaxSensitiveFields: c.EncryptionMaxSensitiveFields,
		},
	}
	if err := policy.Validate(); err != nil {
		return domain.Policy{}, fmt.Errorf("invalid encryption configuration: %w", err)
	}
	return policy, nil
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	if c.LogLevel == "debug" {
		return "debug"
	}
	return "release"
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadDotEnv searches for a .env file from the current directory up to the root directory and
// loads the first one found.
func loadDotEnv() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}

	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
