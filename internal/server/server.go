// Package server serves an annotated chart over HTTP.
//
// The dataset is re-read on every request so edits show up on reload:
//
//	srv, err := server.New(deps)
//	srv.Start(ctx)
//	defer srv.Close()
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/huangsam/anomalyplot/internal/contract"
	"github.com/huangsam/anomalyplot/internal/logging"
)

// gracefulShutdownTimeout bounds how long Close waits for in-flight requests.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the server.
type Deps struct {
	Config  *contract.Config
	Logger  *logging.Logger
	History contract.HistoryManager // optional
	Version string
}

// Server is the chart dashboard HTTP server.
type Server struct {
	cfg     *contract.Config
	logger  *logging.Logger
	history contract.HistoryManager
	version string

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// New creates a server. It does not listen until Start is called.
func New(deps Deps) (*Server, error) {
	if deps.Config == nil {
		return nil, errors.New("config is required")
	}
	if deps.Logger == nil {
		return nil, errors.New("logger is required")
	}
	return &Server{
		cfg:     deps.Config,
		logger:  deps.Logger,
		history: deps.History,
		version: deps.Version,
	}, nil
}

// Handler returns the routed handler without starting a listener.
func (s *Server) Handler() http.Handler {
	return s.buildRouter()
}

// Start binds the listener and serves in the background. The server shuts
// down when ctx is cancelled or Close is called.
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           s.buildRouter(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.mu.Lock()
	s.server, s.listener = srv, ln
	s.mu.Unlock()

	s.logger.Info("dashboard listening", "address", ln.Addr().String(), "dataset", s.cfg.DatasetPath)

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("dashboard server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		if err := s.Close(); err != nil {
			s.logger.Error("dashboard shutdown failed", "error", err)
		}
	}()

	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Close gracefully shuts the server down.
func (s *Server) Close() error {
	s.mu.Lock()
	srv := s.server
	s.server = nil
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("dashboard shutting down")
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down dashboard: %w", err)
	}
	return nil
}
