package handlers

import (
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/fundalyst/internal/common"
)

// StatusHandler handles HTTP requests for application health
type StatusHandler struct {
	started time.Time
	logger  arbor.ILogger
}

// NewStatusHandler creates a new StatusHandler
func NewStatusHandler(logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{
		started: time.Now(),
		logger:  logger,
	}
}

// HealthHandler handles GET /api/health
func (h *StatusHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": common.GetVersion(),
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	})
}
