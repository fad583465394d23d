// Package server exposes the ticket, checklist, and chat lifecycle over
// REST.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/datapigeon/fixity/internal/checklist"
	"github.com/datapigeon/fixity/internal/copilot"
	"github.com/datapigeon/fixity/internal/metrics"
	"github.com/datapigeon/fixity/internal/store"
)

// Server wires the HTTP surface to the lifecycle engine.
type Server struct {
	store        *store.Store
	engine       *checklist.Engine
	orchestrator *copilot.Orchestrator
	collector    *metrics.Collector
	adminKey     string
	logger       *slog.Logger
	router       chi.Router
}

// New creates the HTTP server. An empty adminKey disables the reset
// endpoint entirely.
func New(
	st *store.Store,
	engine *checklist.Engine,
	orchestrator *copilot.Orchestrator,
	collector *metrics.Collector,
	adminKey string,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		store:        st,
		engine:       engine,
		orchestrator: orchestrator,
		collector:    collector,
		adminKey:     adminKey,
		logger:       logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/tickets", s.handleListTickets)
		r.Get("/tickets/{id}", s.handleGetTicket)
		r.Patch("/tickets/{id}/status", s.handleSetStatus)
		r.Get("/tickets/{id}/checklist", s.handleGetChecklist)
		r.Patch("/tickets/{id}/checklist/{index}", s.handleSetChecklistItem)
		r.Get("/tickets/{id}/chat/history", s.handleChatHistory)
		r.Post("/chat", s.handleChat)
		r.Post("/admin/reset", s.handleReset)
		r.Get("/admin/stats", s.handleStats)
	})
	return r
}

// Handler returns the HTTP handler for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down http server")
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
