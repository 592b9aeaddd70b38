// Package serve hosts the build output over HTTP for browser mode, with
// an SSE channel that tells connected browsers to reload after a rebuild.
package serve

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.trai.ch/jig/internal/core/domain"
	"go.trai.ch/jig/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownGrace     = 3 * time.Second
)

var _ ports.Server = (*Server)(nil)

// Server implements ports.Server on net/http with a static file handler
// rooted at the build directory.
type Server struct {
	logger ports.Logger

	mu   sync.Mutex
	addr string
	hub  *reloadHub
}

// NewServer creates a new Server.
func NewServer(logger ports.Logger) *Server {
	return &Server{
		logger: logger,
		hub:    newReloadHub(),
	}
}

// Start binds the configured port and begins serving the build root in
// the background. A bind failure is returned synchronously; once Start
// returns nil the server runs until ctx is cancelled. Port 0 asks the
// kernel for a free port, which Addr reports.
func (s *Server) Start(ctx context.Context, cfg domain.PipelineConfig) error {
	listener, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(cfg.Server.Port)))
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to bind dev server port"), "port", cfg.Server.Port)
	}

	s.mu.Lock()
	s.addr = listener.Addr().String()
	s.mu.Unlock()

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(cfg.ServerRoot())))
	if cfg.Server.LiveReload {
		mux.Handle(domain.LiveReloadEventsPath, s.hub)
		mux.HandleFunc(domain.LiveReloadScriptPath, serveReloadScript)
	}

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error(zerr.Wrap(err, "dev server stopped unexpectedly"))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
		}
	}()

	s.logger.Info("serving " + cfg.ServerRoot() + " on http://localhost:" + strconv.Itoa(s.port()))
	return nil
}

// NotifyReload tells every connected browser to reload.
func (s *Server) NotifyReload() {
	s.hub.broadcast()
}

// Addr returns the bound listen address, or the empty string before
// Start succeeded.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

func (s *Server) port() int {
	_, portStr, err := net.SplitHostPort(s.Addr())
	if err != nil {
		return 0
	}
	port, _ := strconv.Atoi(portStr)
	return port
}
