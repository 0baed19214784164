package server

import (
	"encoding/json"
	"net/http"
)

// Error represents a structured error response.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Common error codes.
const (
	ErrCodeBadRequest     = "bad_request"
	ErrCodeNotFound       = "not_found"
	ErrCodeInternal       = "internal_error"
	ErrCodeInvalidDataset = "invalid_dataset"
	ErrCodeMethodNotAllow = "method_not_allowed"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{Status: status, Code: code, Message: message})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}
