package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name:    "load default configuration",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "0.0.0.0", cfg.ServerHost)
				assert.Equal(t, 8080, cfg.ServerPort)
				assert.Equal(t, "sqlite3", cfg.DBDriver)
				assert.Equal(t, "omnichat.db", cfg.DBConnectionString)
				assert.Equal(t, 25, cfg.DBMaxOpenConnections)
				assert.Equal(t, 5, cfg.DBMaxIdleConnections)
				assert.Equal(t, 5*time.Minute, cfg.DBConnMaxLifetime)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Equal(t, 210000, cfg.KeystoreKDFIterations)
				assert.Equal(t, 16, cfg.KeystoreSaltSize)
				assert.True(t, cfg.RateLimitUnlockEnabled)
				assert.Equal(t, 1.0, cfg.RateLimitUnlockRequestsPerSec)
				assert.Equal(t, 5, cfg.RateLimitUnlockBurst)
				assert.Equal(t, "omnichat", cfg.MetricsNamespace)
				assert.Equal(t, "aes-gcm", cfg.SealAlgorithm)
				assert.Equal(t, 365*24*time.Hour, cfg.SealedCookieMaxAge)
				assert.True(t, cfg.SealedCookieSecure)
				assert.Empty(t, cfg.ServerEncryptionSecret)
				assert.Equal(t, "https://api.openai.com/v1", cfg.ProviderOpenAIBaseURL)
				assert.Equal(t, 10*time.Second, cfg.ProviderVerifyTimeout)
			},
		},
		{
			name: "load custom server configuration",
			envVars: map[string]string{
				"SERVER_HOST": "localhost",
				"SERVER_PORT": "9090",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "localhost", cfg.ServerHost)
				assert.Equal(t, 9090, cfg.ServerPort)
			},
		},
		{
			name: "load custom database configuration",
			envVars: map[string]string{
				"DB_DRIVER":               "mysql",
				"DB_CONNECTION_STRING":    "user:password@tcp(localhost:3306)/testdb",
				"DB_MAX_OPEN_CONNECTIONS": "50",
				"DB_MAX_IDLE_CONNECTIONS": "10",
				"DB_CONN_MAX_LIFETIME":    "10",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "mysql", cfg.DBDriver)
				assert.Equal(t, "user:password@tcp(localhost:3306)/testdb", cfg.DBConnectionString)
				assert.Equal(t, 50, cfg.DBMaxOpenConnections)
				assert.Equal(t, 10, cfg.DBMaxIdleConnections)
				assert.Equal(t, 10*time.Minute, cfg.DBConnMaxLifetime)
			},
		},
		{
			name: "load custom keystore configuration",
			envVars: map[string]string{
				"KEYSTORE_KDF_ITERATIONS": "600000",
				"KEYSTORE_SALT_SIZE":      "32",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 600000, cfg.KeystoreKDFIterations)
				assert.Equal(t, 32, cfg.KeystoreSaltSize)
			},
		},
		{
			name: "load custom sealing configuration",
			envVars: map[string]string{
				"SERVER_ENCRYPTION_SECRET":   "server-secret",
				"KMS_KEY_URI":                "base64key://smGbjm71Nxd1Ig5FS0wj9SlbzAIrnolCz9bQQ6uAhl4=",
				"SEAL_ALGORITHM":             "chacha20-poly1305",
				"SEALED_COOKIE_MAX_AGE_DAYS": "30",
				"SEALED_COOKIE_SECURE":       "false",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "server-secret", cfg.ServerEncryptionSecret)
				assert.Equal(t, "base64key://smGbjm71Nxd1Ig5FS0wj9SlbzAIrnolCz9bQQ6uAhl4=", cfg.KMSKeyURI)
				assert.Equal(t, "chacha20-poly1305", cfg.SealAlgorithm)
				assert.Equal(t, 30*24*time.Hour, cfg.SealedCookieMaxAge)
				assert.False(t, cfg.SealedCookieSecure)
			},
		},
		{
			name: "load custom provider configuration",
			envVars: map[string]string{
				"PROVIDER_GROQ_BASE_URL":          "http://localhost:9999/v1",
				"PROVIDER_VERIFY_TIMEOUT_SECONDS": "3",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "http://localhost:9999/v1", cfg.ProviderGroqBaseURL)
				assert.Equal(t, 3*time.Second, cfg.ProviderVerifyTimeout)
			},
		},
		{
			name: "load custom log level",
			envVars: map[string]string{
				"LOG_LEVEL": "debug",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.LogLevel)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear environment
			os.Clearenv()

			for key, value := range tt.envVars {
				err := os.Setenv(key, value)
				require.NoError(t, err)
			}

			cfg := Load()

			tt.validate(t, cfg)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		os.Clearenv()
		return Load()
	}

	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("memory driver needs no connection string", func(t *testing.T) {
		cfg := valid()
		cfg.DBDriver = "memory"
		cfg.DBConnectionString = ""
		assert.NoError(t, cfg.Validate())
	})

	tests := []struct {
		name   string
		mutate func(cfg *Config)
		field  string
	}{
		{name: "unknown driver", mutate: func(cfg *Config) { cfg.DBDriver = "oracle" }, field: "DBDriver"},
		{
			name:   "missing connection string",
			mutate: func(cfg *Config) { cfg.DBConnectionString = "" },
			field:  "DBConnectionString",
		},
		{name: "invalid port", mutate: func(cfg *Config) { cfg.ServerPort = 70000 }, field: "ServerPort"},
		{name: "unknown log level", mutate: func(cfg *Config) { cfg.LogLevel = "trace" }, field: "LogLevel"},
		{
			name:   "weak kdf iterations",
			mutate: func(cfg *Config) { cfg.KeystoreKDFIterations = 1000 },
			field:  "KeystoreKDFIterations",
		},
		{name: "short salt", mutate: func(cfg *Config) { cfg.KeystoreSaltSize = 8 }, field: "KeystoreSaltSize"},
		{name: "unknown seal algorithm", mutate: func(cfg *Config) { cfg.SealAlgorithm = "rot13" }, field: "SealAlgorithm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestGetGinMode(t *testing.T) {
	tests := []struct {
		logLevel string
		expected string
	}{
		{logLevel: "debug", expected: "debug"},
		{logLevel: "info", expected: "release"},
		{logLevel: "warn", expected: "release"},
		{logLevel: "error", expected: "release"},
		{logLevel: "unknown", expected: "release"},
	}

	for _, tt := range tests {
		t.Run(tt.logLevel, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.logLevel}
			assert.Equal(t, tt.expected, cfg.GetGinMode())
		})
	}
}
