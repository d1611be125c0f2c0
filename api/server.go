package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cosmossdk.io/log"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/paw-chain/router/app"
)

// Server is the public HTTP API in front of an App.
type Server struct {
	router  *gin.Engine
	handler http.Handler
	app     *app.App
	config  Config
	logger  log.Logger
	audit   *AuditLogger
}

// Config holds server configuration
type Config struct {
	ListenAddr        string
	CORSOrigins       []string
	RequestsPerSecond float64
	Burst             int
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	ShutdownTimeout   time.Duration
	// JWTSecret enables the /v1/swap and /v1/admin routes when set.
	JWTSecret string
	// AuditLogDir receives the admin audit trail. Empty disables it.
	AuditLogDir string
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		ListenAddr:        ":8080",
		CORSOrigins:       []string{"*"},
		RequestsPerSecond: 100,
		Burst:             200,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		ShutdownTimeout:   10 * time.Second,
	}
}

// ConfigFromApp derives the server configuration from the application config.
func ConfigFromApp(cfg app.APIConfig) Config {
	c := DefaultConfig()
	c.ListenAddr = cfg.ListenAddr
	c.CORSOrigins = cfg.CORSOrigins
	c.RequestsPerSecond = cfg.RequestsPerSecond
	c.Burst = cfg.Burst
	c.ReadTimeout = cfg.ReadTimeout
	c.WriteTimeout = cfg.WriteTimeout
	c.JWTSecret = cfg.JWTSecret
	c.AuditLogDir = cfg.AuditLogDir
	return c
}

// NewServer creates a new API server instance. It fails only when the
// audit trail cannot be opened.
func NewServer(a *app.App, config Config) (*Server, error) {
	audit, err := NewAuditLogger(config.AuditLogDir)
	if err != nil {
		return nil, err
	}
	s := &Server{
		app:    a,
		config: config,
		logger: a.Logger().With("server", "api"),
		audit:  audit,
	}
	s.setupRouter()
	return s, nil
}

// Close releases the audit trail.
func (s *Server) Close() error { return s.audit.Close() }

func (s *Server) setupRouter() {
	if gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	// Recovery must be first to catch panics.
	s.router.Use(gin.Recovery())
	s.router.Use(SecurityHeadersMiddleware())
	s.router.Use(RequestIDMiddleware())
	s.router.Use(LoggerMiddleware(s.logger))
	s.router.Use(TracingMiddleware())
	s.router.Use(RateLimitMiddleware(s.config.RequestsPerSecond, s.config.Burst))

	s.registerRoutes()

	s.handler = cors.New(cors.Options{
		AllowedOrigins: s.config.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID"},
		MaxAge:         600,
	}).Handler(s.router)
}

// Handler returns the CORS-wrapped router.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"height":    s.app.Height(),
	})
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:           s.config.ListenAddr,
		Handler:        s.handler,
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
	return serve(ctx, srv, s.config.ShutdownTimeout, s.logger)
}

func serve(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, logger log.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve %s: %w", srv.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("HTTP server stopped", "addr", srv.Addr)
	return nil
}
