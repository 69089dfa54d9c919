package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/fundalyst/internal/models"
)

// AnalyzeRequest is the body of POST /api/analyze
type AnalyzeRequest struct {
	Query  string   `json:"query"`
	Ticker string   `json:"ticker" validate:"required"`
	Agents []string `json:"agents,omitempty" validate:"max=3"`
}

// RouteRequest is the body of POST /api/route
type RouteRequest struct {
	Query string `json:"query" validate:"required"`
}

// AnalysisHandler serves the analysis and routing endpoints
type AnalysisHandler struct {
	analyzer Analyzer
	router   QueryRouter
	reports  ReportRenderer
	logger   arbor.ILogger
}

// NewAnalysisHandler creates a new AnalysisHandler
func NewAnalysisHandler(analyzer Analyzer, router QueryRouter, reports ReportRenderer, logger arbor.ILogger) *AnalysisHandler {
	return &AnalysisHandler{
		analyzer: analyzer,
		router:   router,
		reports:  reports,
		logger:   logger,
	}
}

// AnalyzeHandler handles POST /api/analyze.
// ?format=pdf returns the PDF report, ?format=markdown the markdown report, otherwise JSON.
func (h *AnalysisHandler) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req AnalyzeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	kinds := make([]models.AgentKind, 0, len(req.Agents))
	for _, name := range req.Agents {
		kind, err := models.ParseAgentKind(name)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		kinds = append(kinds, kind)
	}

	format := strings.ToLower(r.URL.Query().Get("format"))
	switch format {
	case "", "json", "pdf", "markdown":
	default:
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("unsupported format %q", format))
		return
	}

	query := req.Query
	if strings.TrimSpace(query) == "" {
		query = "Give me a full score"
	}

	analysis, err := h.analyzer.AnalyzeWithAgents(r.Context(), query, req.Ticker, kinds)
	if err != nil {
		h.logger.Error().Err(err).Str("ticker", req.Ticker).Msg("Analysis failed")
		WriteError(w, StatusForError(err), err.Error())
		return
	}

	switch format {
	case "pdf":
		data, err := h.reports.PDF(analysis)
		if err != nil {
			h.logger.Error().Err(err).Str("ticker", req.Ticker).Msg("Failed to render PDF report")
			WriteError(w, http.StatusInternalServerError, "Failed to render PDF report")
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", reportFilename(analysis.Ticker)))
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	case "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(h.reports.Markdown(analysis)))
	default:
		WriteJSON(w, http.StatusOK, analysis)
	}
}

// RouteHandler handles POST /api/route
func (h *AnalysisHandler) RouteHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req RouteRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	WriteJSON(w, http.StatusOK, h.router.Route(r.Context(), req.Query))
}

func reportFilename(ticker string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, ticker)
	return "fundalyst-" + clean + ".pdf"
}
