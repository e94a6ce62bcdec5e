// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/allisson/omnichat/internal/config"
	"github.com/allisson/omnichat/internal/database"
	"github.com/allisson/omnichat/internal/http"
	keystoreHTTP "github.com/allisson/omnichat/internal/keystore/http"
	keystoreService "github.com/allisson/omnichat/internal/keystore/service"
	keystoreUseCase "github.com/allisson/omnichat/internal/keystore/usecase"
	"github.com/allisson/omnichat/internal/metrics"
	"github.com/allisson/omnichat/internal/provider"
	"github.com/allisson/omnichat/internal/sealer"
	sealerHTTP "github.com/allisson/omnichat/internal/sealer/http"
)

// ErrNoSQLDatabase is returned by DB when the configured driver keeps entries in memory.
var ErrNoSQLDatabase = errors.New("the memory driver has no sql database")

// Container holds all application dependencies and provides methods to access them.
// Components are created on first access.
type Container struct {
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Managers and services
	txManager   database.TxManager
	aeadManager keystoreService.AEADManager
	kmsService  sealer.KMSService

	// Repositories
	entryRepository keystoreUseCase.EntryRepository

	// Use cases and services
	keystoreUseCase keystoreUseCase.KeystoreUseCase
	verifier        provider.Verifier
	sealer          sealer.Sealer

	// Handlers
	keystoreHandler    *keystoreHTTP.KeystoreHandler
	providerKeyHandler *keystoreHTTP.ProviderKeyHandler
	serverKeyHandler   *sealerHTTP.ServerKeyHandler

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	mu                     sync.Mutex
	loggerInit             sync.Once
	dbInit                 sync.Once
	metricsProviderInit    sync.Once
	businessMetricsInit    sync.Once
	txManagerInit          sync.Once
	aeadManagerInit        sync.Once
	kmsServiceInit         sync.Once
	entryRepositoryInit    sync.Once
	keystoreUseCaseInit    sync.Once
	verifierInit           sync.Once
	sealerInit             sync.Once
	keystoreHandlerInit    sync.Once
	providerKeyHandlerInit sync.Once
	serverKeyHandlerInit   sync.Once
	httpServerInit         sync.Once
	metricsServerInit      sync.Once
	initErrors             map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

func (c *Container) setInitError(name string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initErrors[name] = err
}

func (c *Container) initError(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initErrors[name]
}

// Logger returns the configured logger instance.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection. It returns ErrNoSQLDatabase for the memory driver.
func (c *Container) DB() (*sql.DB, error) {
	c.dbInit.Do(func() {
		db, err := c.initDB()
		if err != nil {
			c.setInitError("db", err)
			return
		}
		c.db = db
	})
	if err := c.initError("db"); err != nil {
		return nil, err
	}
	return c.db, nil
}

// TxManager returns the transaction manager. With the memory driver the entry repository
// doubles as the transaction manager.
func (c *Container) TxManager() (database.TxManager, error) {
	c.txManagerInit.Do(func() {
		txManager, err := c.initTxManager()
		if err != nil {
			c.setInitError("txManager", err)
			return
		}
		c.txManager = txManager
	})
	if err := c.initError("txManager"); err != nil {
		return nil, err
	}
	return c.txManager, nil
}

// MetricsProvider returns the OpenTelemetry metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.setInitError("metricsProvider", fmt.Errorf("failed to create metrics provider: %w", err))
			return
		}
		c.metricsProvider = provider
	})
	if err := c.initError("metricsProvider"); err != nil {
		return nil, err
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. It is a no-op when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		businessMetrics, err := c.initBusinessMetrics()
		if err != nil {
			c.setInitError("businessMetrics", err)
			return
		}
		c.businessMetrics = businessMetrics
	})
	if err := c.initError("businessMetrics"); err != nil {
		return nil, err
	}
	return c.businessMetrics, nil
}

// HTTPServer returns the API server with its router set up.
func (c *Container) HTTPServer() (*http.Server, error) {
	c.httpServerInit.Do(func() {
		server, err := c.initHTTPServer()
		if err != nil {
			c.setInitError("httpServer", err)
			return
		}
		c.httpServer = server
	})
	if err := c.initError("httpServer"); err != nil {
		return nil, err
	}
	return c.httpServer, nil
}

// MetricsServer returns the Prometheus metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		server, err := c.initMetricsServer()
		if err != nil {
			c.setInitError("metricsServer", err)
			return
		}
		c.metricsServer = server
	})
	if err := c.initError("metricsServer"); err != nil {
		return nil, err
	}
	return c.metricsServer, nil
}

// Shutdown releases every initialized resource. The keystore is locked first so derived
// keys and cached plaintexts are wiped before connections close.
func (c *Container) Shutdown(ctx context.Context) error {
	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.keystoreUseCase != nil {
		if err := c.keystoreUseCase.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("keystore close: %w", err))
		}
	}

	if c.sealer != nil {
		if err := c.sealer.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("sealer close: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %w", errors.Join(shutdownErrors...))
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
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

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	if c.config.DBDriver == database.DriverMemory {
		return nil, ErrNoSQLDatabase
	}

	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager for the configured driver.
func (c *Container) initTxManager() (database.TxManager, error) {
	if c.config.DBDriver == database.DriverMemory {
		entryRepository, err := c.EntryRepository()
		if err != nil {
			return nil, fmt.Errorf("failed to get entry repository for tx manager: %w", err)
		}
		txManager, ok := entryRepository.(database.TxManager)
		if !ok {
			return nil, fmt.Errorf("entry repository %T is not a tx manager", entryRepository)
		}
		return txManager, nil
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initBusinessMetrics creates business metrics backed by the provider, or a no-op recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return businessMetrics, nil
}

// initHTTPServer creates the API server and sets up its router.
func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	keystoreHandler, err := c.KeystoreHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get keystore handler for http server: %w", err)
	}

	providerKeyHandler, err := c.ProviderKeyHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get provider key handler for http server: %w", err)
	}

	serverKeyHandler, err := c.ServerKeyHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get server key handler for http server: %w", err)
	}

	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	var db *sql.DB
	if c.config.DBDriver != database.DriverMemory {
		if db, err = c.DB(); err != nil {
			return nil, fmt.Errorf("failed to get database for http server: %w", err)
		}
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, logger)
	if db == nil {
		server.AddReadinessCheck("database", func(ctx context.Context) error { return nil })
	}

	server.SetupRouter(c.config, keystoreHandler, providerKeyHandler, serverKeyHandler, metricsProvider)

	return server, nil
}

// initMetricsServer creates the metrics server when metrics are enabled.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}
	if provider == nil {
		return nil, nil
	}

	if c.config.DBDriver != database.DriverMemory {
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for metrics server: %w", err)
		}
		if err := provider.RegisterDBStats(db, c.config.DBDriver); err != nil {
			return nil, err
		}
	}

	return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
}
