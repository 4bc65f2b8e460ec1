// Package server runs the HTTP listener for the token endpoint.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/brizzai/headless-auth/internal/auth"
	"github.com/brizzai/headless-auth/internal/config"
	"github.com/brizzai/headless-auth/internal/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	// shutdownTimeout is the maximum time to wait for server shutdown
	shutdownTimeout = 5 * time.Second

	readHeaderTimeout = 10 * time.Second
)

// Server wraps the HTTP server that exposes the auth service
type Server struct {
	config   *config.Config
	http     *http.Server
	listener net.Listener
	errChan  chan error
	done     chan struct{}
}

// NewServer creates a new server for the given auth service
func NewServer(cfg *config.Config, authService *auth.Service) *Server {
	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	return &Server{
		config: cfg,
		http: &http.Server{
			Addr:              addr,
			Handler:           authService.HTTPHandler(),
			ReadHeaderTimeout: readHeaderTimeout,
		},
		errChan: make(chan error, 1),
		done:    make(chan struct{}),
	}
}

// Addr returns the bound address once the server is listening
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.http.Addr
}

// Errors reports serve failures after Start returned
func (s *Server) Errors() <-chan error {
	return s.errChan
}

// Start binds the listener and serves in the background
func (s *Server) Start(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.http.Addr, err)
	}
	s.listener = ln

	logger.Info("Starting server",
		zap.String("address", ln.Addr().String()),
		zap.String("authorize_path", s.config.Server.AuthorizePath),
		zap.String("provider", string(s.config.OAuth.Provider)),
	)

	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errChan <- fmt.Errorf("server error: %w", err)
		}
	}()
	return nil
}

// Stop gracefully shuts the server down
func (s *Server) Stop(ctx context.Context) error {
	logger.Info("Shutting down server", zap.Duration("timeout", shutdownTimeout))
	close(s.done)

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	return nil
}

func registerHooks(lc fx.Lifecycle, s *Server, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := s.Start(ctx); err != nil {
				return err
			}
			go func() {
				select {
				case err := <-s.Errors():
					logger.Error("Stopping after server failure", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				case <-s.done:
				}
			}()
			return nil
		},
		OnStop: s.Stop,
	})
}

// Module provides the HTTP server and ties it to the fx lifecycle
var Module = fx.Module("server",
	fx.Provide(NewServer),
	fx.Invoke(registerHooks),
)
