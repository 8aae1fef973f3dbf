// Package api wires the gin router, standard middleware, and server
// lifecycle for the related-videos service.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/labmedia/related-videos/internal/config"
	"github.com/labmedia/related-videos/pkg/logger"
)

// Server timeouts.
const (
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 10 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 30 * time.Second
)

// Server is the HTTP server with lifecycle management.
type Server struct {
	router *gin.Engine
	server *http.Server
	logger logger.Logger
}

// Handlers bundles the route handlers the server exposes.
type Handlers struct {
	Click   ClickRouteHandler
	Related RelatedRouteHandler
}

// ClickRouteHandler handles the click-record route.
type ClickRouteHandler interface {
	HandleClick(c *gin.Context)
}

// RelatedRouteHandler handles the related-videos route.
type RelatedRouteHandler interface {
	HandleRelated(c *gin.Context)
}

// NewServer creates the HTTP server with standard middleware, health
// routes, and the service routes. The done channel signals background
// goroutines (rate limiter cleanup) on shutdown.
func NewServer(
	cfg *config.Config,
	log logger.Logger,
	handlers Handlers,
	dbPing func() error,
	done <-chan struct{},
) *Server {
	if cfg.Service.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Recovery first to catch panics, then request logging.
	router.Use(RecoveryMiddleware(log))
	router.Use(LoggerMiddleware(log))
	router.Use(CORSMiddleware())

	RegisterHealthRoutes(router, cfg.Service.Name, cfg.Service.Version, map[string]HealthChecker{
		"database": DatabaseHealthChecker(dbPing),
	})
	SetupRoutes(router, handlers, cfg.RateLimit, done)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Service.Port),
		Handler:      router,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
	}

	return &Server{
		router: router,
		server: httpServer,
		logger: log,
	}
}

// Router returns the underlying gin engine.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the server and blocks until a shutdown signal arrives or the
// server fails, then shuts down gracefully.
func (s *Server) Run() error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server",
			logger.String("address", s.server.Addr),
		)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
		close(errCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		s.logger.Info("Shutdown signal received",
			logger.String("signal", sig.String()),
		)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("HTTP server stopped gracefully")
	return nil
}
