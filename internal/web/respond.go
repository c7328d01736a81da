// Package web holds the shared JSON response helpers.
package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// MessageResponse is the uniform error/info body: a human-readable message.
type MessageResponse struct {
	Message string `json:"message"`
}

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// Error writes a JSON error response carrying only a message field.
func Error(w http.ResponseWriter, statusCode int, message string) {
	JSON(w, statusCode, MessageResponse{Message: message})
}
