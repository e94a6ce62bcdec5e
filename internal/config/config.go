// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	validation "github.com/jellydator/validation"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the server will bind to.
	ServerHost string
	// ServerPort is the port number the server will listen on.
	ServerPort int

	// DBDriver is one of "postgres", "mysql", "sqlite3" or "memory".
	DBDriver string
	// DBConnectionString is the connection string for the database. Ignored by "memory".
	DBConnectionString string
	// DBMaxOpenConnections is the maximum number of open connections to the database.
	DBMaxOpenConnections int
	// DBMaxIdleConnections is the maximum number of idle connections in the database pool.
	DBMaxIdleConnections int
	// DBConnMaxLifetime is the maximum amount of time a connection may be reused.
	DBConnMaxLifetime time.Duration

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// KeystoreKDFIterations is the PBKDF2 iteration count for newly configured passphrases.
	KeystoreKDFIterations int
	// KeystoreSaltSize is the salt length in bytes for newly configured passphrases.
	KeystoreSaltSize int

	// RateLimitUnlockEnabled indicates whether unlock and passphrase attempts are rate limited.
	RateLimitUnlockEnabled bool
	// RateLimitUnlockRequestsPerSec is the number of unlock attempts allowed per second per IP.
	RateLimitUnlockRequestsPerSec float64
	// RateLimitUnlockBurst is the burst size for unlock rate limiting.
	RateLimitUnlockBurst int

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

	// ServerEncryptionSecret seals provider keys stored in cookies when no KMS key is set.
	ServerEncryptionSecret string
	// KMSKeyURI is the gocloud.dev secrets URL of the cookie sealing key.
	KMSKeyURI string
	// SealAlgorithm is the AEAD used with ServerEncryptionSecret.
	SealAlgorithm string
	// SealedCookieMaxAge is the lifetime of sealed key cookies.
	SealedCookieMaxAge time.Duration
	// SealedCookieSecure sets the Secure attribute on sealed key cookies.
	SealedCookieSecure bool

	// ProviderOpenAIBaseURL is the OpenAI API base URL used for key verification.
	ProviderOpenAIBaseURL string
	// ProviderGroqBaseURL is the Groq API base URL used for key verification.
	ProviderGroqBaseURL string
	// ProviderGeminiBaseURL is the Gemini API base URL used for key verification.
	ProviderGeminiBaseURL string
	// ProviderClaudeBaseURL is the Anthropic API base URL used for key verification.
	ProviderClaudeBaseURL string
	// ProviderVerifyTimeout bounds each verification request.
	ProviderVerifyTimeout time.Duration
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Server configuration
		ServerHost: env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort: env.GetInt("SERVER_PORT", 8080),

		// Database configuration
		DBDriver:             env.GetString("DB_DRIVER", "sqlite3"),
		DBConnectionString:   env.GetString("DB_CONNECTION_STRING", "omnichat.db"),
		DBMaxOpenConnections: env.GetInt("DB_MAX_OPEN_CONNECTIONS", 25),
		DBMaxIdleConnections: env.GetInt("DB_MAX_IDLE_CONNECTIONS", 5),
		DBConnMaxLifetime:    env.GetDuration("DB_CONN_MAX_LIFETIME", 5, time.Minute),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Keystore
		KeystoreKDFIterations: env.GetInt("KEYSTORE_KDF_ITERATIONS", 210000),
		KeystoreSaltSize:      env.GetInt("KEYSTORE_SALT_SIZE", 16),

		// Rate Limiting for unlock (IP-based, unauthenticated)
		RateLimitUnlockEnabled:        env.GetBool("RATE_LIMIT_UNLOCK_ENABLED", true),
		RateLimitUnlockRequestsPerSec: env.GetFloat64("RATE_LIMIT_UNLOCK_REQUESTS_PER_SEC", 1.0),
		RateLimitUnlockBurst:          env.GetInt("RATE_LIMIT_UNLOCK_BURST", 5),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "omnichat"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),

		// Sealed cookies
		ServerEncryptionSecret: env.GetString("SERVER_ENCRYPTION_SECRET", ""),
		KMSKeyURI:              env.GetString("KMS_KEY_URI", ""),
		SealAlgorithm:          env.GetString("SEAL_ALGORITHM", "aes-gcm"),
		SealedCookieMaxAge:     env.GetDuration("SEALED_COOKIE_MAX_AGE_DAYS", 365, 24*time.Hour),
		SealedCookieSecure:     env.GetBool("SEALED_COOKIE_SECURE", true),

		// Provider key verification
		ProviderOpenAIBaseURL: env.GetString("PROVIDER_OPENAI_BASE_URL", "https://api.openai.com/v1"),
		ProviderGroqBaseURL:   env.GetString("PROVIDER_GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		ProviderGeminiBaseURL: env.GetString(
			"PROVIDER_GEMINI_BASE_URL",
			"https://generativelanguage.googleapis.com/v1",
		),
		ProviderClaudeBaseURL: env.GetString("PROVIDER_CLAUDE_BASE_URL", "https://api.anthropic.com/v1"),
		ProviderVerifyTimeout: env.GetDuration("PROVIDER_VERIFY_TIMEOUT_SECONDS", 10, time.Second),
	}
}

// Validate checks values that would otherwise fail late, at first use.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ServerPort, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.DBDriver,
			validation.Required,
			validation.In("postgres", "mysql", "sqlite3", "memory"),
		),
		validation.Field(&c.DBConnectionString,
			validation.When(c.DBDriver != "memory", validation.Required),
		),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.KeystoreKDFIterations, validation.Min(100000)),
		validation.Field(&c.KeystoreSaltSize, validation.Min(16)),
		validation.Field(&c.SealAlgorithm, validation.In("aes-gcm", "chacha20-poly1305")),
		validation.Field(&c.MetricsPort,
			validation.When(c.MetricsEnabled, validation.Required, validation.Min(1), validation.Max(65535)),
		),
	)
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	switch c.LogLevel {
	case "debug":
		return "debug"
	default:
		return "release"
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}
