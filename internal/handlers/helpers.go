package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/ternarybob/fundalyst/internal/common"
	"github.com/ternarybob/fundalyst/internal/services/agents"
	"github.com/ternarybob/fundalyst/internal/services/documents"
)

// maxRequestBytes caps JSON request bodies
const maxRequestBytes = 1 << 20

var validate = validator.New()

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// DecodeJSON reads a size-limited JSON body into dst and validates it.
// A failure has already been written to w when false is returned.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			WriteError(w, http.StatusBadRequest, "Field '"+verrs[0].Field()+"' failed '"+verrs[0].Tag()+"' validation")
			return false
		}
		WriteError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// StatusForError maps pipeline errors onto HTTP status codes
func StatusForError(err error) int {
	var cfgErr *common.ConfigError
	var marketErr *agents.MarketDataError
	switch {
	case errors.As(err, &cfgErr):
		return http.StatusBadRequest
	case errors.Is(err, documents.ErrUnsupportedFile), errors.Is(err, documents.ErrEmptyIndex):
		return http.StatusBadRequest
	case errors.As(err, &marketErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}
