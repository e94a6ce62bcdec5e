// Package http provides the HTTP server, its router and shared middleware.
package http

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/omnichat/internal/config"
	keystoreHTTP "github.com/allisson/omnichat/internal/keystore/http"
	"github.com/allisson/omnichat/internal/metrics"
	sealerHTTP "github.com/allisson/omnichat/internal/sealer/http"
)

// ReadinessCheck reports whether a dependency can serve requests.
type ReadinessCheck func(ctx context.Context) error

var errDatabaseUnavailable = errors.New("database not configured")

// Server is the API HTTP server.
type Server struct {
	db     *sql.DB
	server *http.Server
	logger *slog.Logger
	router *gin.Engine

	checksMu sync.RWMutex
	checks   map[string]ReadinessCheck
}

// NewServer creates a new HTTP server. The database readiness check pings db.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	s := &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		checks: make(map[string]ReadinessCheck),
	}
	s.checks["database"] = s.pingDatabase
	return s
}

// AddReadinessCheck registers or replaces a named readiness check.
func (s *Server) AddReadinessCheck(name string, check ReadinessCheck) {
	s.checksMu.Lock()
	defer s.checksMu.Unlock()
	s.checks[name] = check
}

func (s *Server) pingDatabase(ctx context.Context) error {
	if s.db == nil {
		return errDatabaseUnavailable
	}
	return s.db.PingContext(ctx)
}

// SetupRouter builds the API router. serverKeyHandler is nil when no sealing key is
// configured, in which case the server-keys routes are not registered.
func (s *Server) SetupRouter(
	cfg *config.Config,
	keystoreHandler *keystoreHTTP.KeystoreHandler,
	providerKeyHandler *keystoreHTTP.ProviderKeyHandler,
	serverKeyHandler *sealerHTTP.ServerKeyHandler,
	metricsProvider *metrics.Provider,
) {
	gin.SetMode(cfg.GetGinMode())

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
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")

	unlockGuards := []gin.HandlerFunc{}
	if cfg.RateLimitUnlockEnabled {
		unlockGuards = append(unlockGuards, keystoreHTTP.UnlockRateLimitMiddleware(
			cfg.RateLimitUnlockRequestsPerSec,
			cfg.RateLimitUnlockBurst,
			s.logger,
		))
	}

	keystore := v1.Group("/keystore")
	{
		keystore.GET("", keystoreHandler.StatusHandler)
		keystore.POST("/passphrase", append(unlockGuards, keystoreHandler.SetPassphraseHandler)...)
		keystore.POST("/unlock", append(unlockGuards, keystoreHandler.UnlockHandler)...)
		keystore.POST("/lock", keystoreHandler.LockHandler)
		keystore.GET("/export", keystoreHandler.ExportHandler)
		keystore.POST("/import", keystoreHandler.ImportHandler)
	}

	keys := v1.Group("/keys/:provider")
	{
		keys.GET("", providerKeyHandler.GetHandler)
		keys.GET("/value", providerKeyHandler.GetValueHandler)
		keys.PUT("", providerKeyHandler.PutHandler)
		keys.DELETE("", providerKeyHandler.DeleteHandler)
		keys.POST("/test", providerKeyHandler.TestHandler)
	}

	if serverKeyHandler != nil {
		serverKeys := v1.Group("/server-keys/:provider")
		{
			serverKeys.GET("", serverKeyHandler.GetHandler)
			serverKeys.POST("", serverKeyHandler.PostHandler)
			serverKeys.DELETE("", serverKeyHandler.DeleteHandler)
		}
	}

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server. SetupRouter must be called first.
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler runs every readiness check with a short timeout.
func (s *Server) readinessHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	s.checksMu.RLock()
	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	components := make(map[string]string, len(names))
	ready := true
	for _, name := range names {
		if err := s.checks[name](ctx); err != nil {
			s.logger.Warn("readiness check failed", slog.String("component", name), slog.Any("error", err))
			components[name] = "error"
			ready = false
			continue
		}
		components[name] = "ok"
	}
	s.checksMu.RUnlock()

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "components": components})
}
