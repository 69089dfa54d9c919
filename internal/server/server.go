package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ternarybob/fundalyst/internal/app"
	"github.com/ternarybob/fundalyst/internal/handlers"
)

// analysisWriteTimeout covers a full routed analysis: several LLM calls plus fetches
const analysisWriteTimeout = 10 * time.Minute

// Server manages the HTTP server and routes
type Server struct {
	app    *app.App
	router *http.ServeMux
	server *http.Server

	analysisHandler *handlers.AnalysisHandler
	documentHandler *handlers.DocumentHandler
	statusHandler   *handlers.StatusHandler
}

// New creates a new HTTP server with the given app
func New(application *app.App) *Server {
	s := &Server{
		app:             application,
		analysisHandler: handlers.NewAnalysisHandler(application, application.Router, application.Reports, application.Logger),
		documentHandler: handlers.NewDocumentHandler(func() (handlers.DocumentSession, error) {
			session, err := application.NewSession()
			if err != nil {
				return nil, err
			}
			return session, nil
		}, application.Logger),
		statusHandler: handlers.NewStatusHandler(application.Logger),
	}

	// Setup routes
	s.router = s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", application.Config.Server.Host, application.Config.Server.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      analysisWriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Handler returns the routes wrapped in the middleware chain
func (s *Server) Handler() http.Handler {
	return s.withMiddleware(s.router)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.app.Logger.Info().
		Str("address", s.server.Addr).
		Msg("HTTP server starting")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.app.Logger.Info().Msg("Shutting down HTTP server...")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.app.Logger.Info().Msg("HTTP server stopped")
	return nil
}
