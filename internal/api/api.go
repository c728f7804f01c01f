// Package api provides HTTP handlers and the main API server for sitebot.
//
// It exposes the chat endpoint, per-session history endpoints, and the lead
// administration endpoints, all returning the shared APIResponse envelope
// except the chat endpoint, which returns the chat-specific shape consumed by
// the website widget.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/instalogic/sitebot/internal/models"
	"github.com/instalogic/sitebot/internal/store"
)

// DefaultAddr is the default listen address for the API server.
const DefaultAddr = ":8080"

// Server shutdown timeout.
const shutdownTimeout = 5 * time.Second

// ChatRouter resolves one chat turn. Satisfied by router.Router.
type ChatRouter interface {
	Route(ctx context.Context, sessionID, message string) models.RoutedResult
}

// Opts holds configuration options for the API server.
type Opts struct {
	Addr string
}

// Option defines a functional option for API server configuration.
type Option func(*Opts)

// WithAddr overrides the listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) { o.Addr = addr }
}

// Server wires the chat router and lead store behind the HTTP surface.
type Server struct {
	router  ChatRouter
	st      store.Store
	history *historyStore
	addr    string
}

// NewServer builds the API server.
func NewServer(router ChatRouter, st store.Store, opts ...Option) *Server {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	addr := cfg.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	return &Server{
		router:  router,
		st:      st,
		history: newHistoryStore(),
		addr:    addr,
	}
}

// routes registers all endpoints on a fresh mux.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", s.chatHandler)
	mux.HandleFunc("GET /api/chat/history/{sessionID}", s.historyHandler)
	mux.HandleFunc("GET /api/chat/sessions", s.sessionsHandler)
	mux.HandleFunc("DELETE /api/chat/session/{sessionID}", s.deleteSessionHandler)
	mux.HandleFunc("GET /api/leads", s.listLeadsHandler)
	mux.HandleFunc("GET /api/leads/statistics", s.leadStatsHandler)
	mux.HandleFunc("GET /api/leads/{leadID}", s.getLeadHandler)
	mux.HandleFunc("PUT /api/leads/{leadID}/status", s.updateLeadStatusHandler)
	mux.HandleFunc("PUT /api/leads/{leadID}/notes", s.updateLeadNotesHandler)
	mux.HandleFunc("DELETE /api/leads/{leadID}", s.deleteLeadHandler)
	mux.HandleFunc("GET /api/health", s.healthHandler)
	return mux
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Sitebot API running", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		slog.Error("Sitebot API server failed", "error", err)
		return err
	case <-ctx.Done():
		slog.Info("Sitebot API shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
