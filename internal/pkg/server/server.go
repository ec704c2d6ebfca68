package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/scynett/momopay/internal/pkg/logger"
)

const defaultShutdownTimeout = 30 * time.Second

// GracefulServer runs an Echo server until its context is cancelled, then
// drains HTTP traffic and runs the registered shutdown hooks in order
type GracefulServer struct {
	echo     *echo.Echo
	addr     string
	timeout  time.Duration
	shutdown *ShutdownManager
}

// NewGracefulServer creates a server listening on addr
func NewGracefulServer(e *echo.Echo, addr string, shutdownTimeout time.Duration) *GracefulServer {
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}
	return &GracefulServer{
		echo:     e,
		addr:     addr,
		timeout:  shutdownTimeout,
		shutdown: NewShutdownManager(),
	}
}

// OnShutdown registers a hook run after the HTTP server has stopped
func (s *GracefulServer) OnShutdown(name string, fn func(context.Context) error) {
	s.shutdown.Register(name, fn)
}

// Run serves until ctx is done or the listener fails. Shutdown hooks run in both cases.
func (s *GracefulServer) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", logger.String("address", s.addr))
		if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown requested")
	case serveErr = <-errCh:
		logger.Error("HTTP server failed", logger.Err(serveErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	logger.Info("Shutting down HTTP server...")
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", logger.Err(err))
	}

	s.shutdown.Shutdown(shutdownCtx)
	return serveErr
}

type shutdownHook struct {
	name string
	fn   func(context.Context) error
}

// ShutdownManager runs cleanup functions in registration order
type ShutdownManager struct {
	hooks []shutdownHook
}

// NewShutdownManager creates a new shutdown manager
func NewShutdownManager() *ShutdownManager {
	return &ShutdownManager{}
}

// Register adds a cleanup function to be called during shutdown
func (sm *ShutdownManager) Register(name string, fn func(context.Context) error) {
	sm.hooks = append(sm.hooks, shutdownHook{name: name, fn: fn})
}

// Shutdown executes every hook; a failing hook does not stop the rest
func (sm *ShutdownManager) Shutdown(ctx context.Context) {
	logger.Info("Shutting down components", logger.Int("components", len(sm.hooks)))

	for _, hook := range sm.hooks {
		if err := hook.fn(ctx); err != nil {
			logger.Error("Error during component shutdown",
				logger.String("component", hook.name),
				logger.Err(err))
			continue
		}
		logger.Info("Component stopped", logger.String("component", hook.name))
	}
}
