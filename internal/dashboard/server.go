// Package dashboard serves the admin endpoints of a running proxy: audit
// statistics, an offline body check and a health probe.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tkingovr/body-guard/internal/audit"
	"github.com/tkingovr/body-guard/internal/host"
)

// DefaultMaxCheckBody bounds the body accepted by the check endpoint.
const DefaultMaxCheckBody = 1 << 20

// Server is the admin HTTP server.
type Server struct {
	mux        *http.ServeMux
	logger     *slog.Logger
	auditStore audit.Store
	pipeline   *host.Pipeline
	arenaLimit int
	addr       string
}

// NewServer creates a new admin server. pipeline must be started; the
// check endpoint runs bodies through it with a fresh arena of arenaLimit
// bytes per request.
func NewServer(addr string, store audit.Store, pipeline *host.Pipeline, arenaLimit int, logger *slog.Logger) *Server {
	s := &Server{
		mux:        http.NewServeMux(),
		logger:     logger,
		auditStore: store,
		pipeline:   pipeline,
		arenaLimit: arenaLimit,
		addr:       addr,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /", s.handleOverview)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /api/v1/stats", s.handleAPIStats)
	s.mux.HandleFunc("POST /api/v1/check", s.handleAPICheck)
}

// ListenAndServe starts the admin HTTP server.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.mux,
	}

	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	s.logger.Info("starting dashboard", "addr", s.addr)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Handler returns the HTTP handler for embedding in other servers.
func (s *Server) Handler() http.Handler {
	return s.mux
}
