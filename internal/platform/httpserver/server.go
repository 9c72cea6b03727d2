// Package httpserver wraps net/http's server lifecycle the way the
// teacher's internal/platform/httpserver does: a thin Server holding a mux,
// a logger, and the listen address, with Start blocking until Shutdown (or
// a listener error) and Shutdown draining in place.
package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
)

// Server is the process-level HTTP listener shared by every cmd entrypoint.
type Server struct {
	mux        *http.ServeMux
	logger     *slog.Logger
	addr       string
	httpServer *http.Server
}

// New builds a Server. Route registration already happened on mux by the
// caller's module wiring; Server only owns the listen/shutdown lifecycle.
func New(mux *http.ServeMux, addr string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}
	return &Server{
		mux:    mux,
		logger: logger,
		addr:   addr,
		httpServer: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}
}

// Start blocks serving HTTP until the server is shut down or fails.
func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops accepting new ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server stopping",
		"event", "http_server_stopping",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return s.httpServer.Shutdown(ctx)
}
