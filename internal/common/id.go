package common

import (
	"github.com/google/uuid"
)

// NewRequestID generates a unique analysis request ID with the "req_" prefix
// Format: req_<uuid>
func NewRequestID() string {
	return "req_" + uuid.New().String()
}

// NewSessionID generates a unique document session ID with the "doc_" prefix
func NewSessionID() string {
	return "doc_" + uuid.New().String()
}
