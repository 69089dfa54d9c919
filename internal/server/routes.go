package server

import (
	"net/http"

	"github.com/ternarybob/fundalyst/internal/handlers"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// GET - liveness and version
	mux.HandleFunc("/api/health", s.statusHandler.HealthHandler)

	// POST {query} - routing decision only
	mux.HandleFunc("/api/route", s.analysisHandler.RouteHandler)

	// POST {query, ticker, agents} - full analysis; ?format=pdf|markdown
	mux.HandleFunc("/api/analyze", s.analysisHandler.AnalyzeHandler)

	// POST multipart {file, question} - document Q&A
	mux.HandleFunc("/api/documents/ask", s.documentHandler.AskHandler)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, http.StatusNotFound, "Not found: "+r.URL.Path)
	})

	return mux
}
