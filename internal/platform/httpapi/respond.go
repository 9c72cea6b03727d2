// Package httpapi holds the small set of HTTP response helpers shared by
// every context's adapters/http package, keeping the error envelope shape
// consistent across the gateway, projector receivers and the admin surface.
package httpapi

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the shared error response shape: {code, message, correlation_id}.
type ErrorBody struct {
	Code          string `json:"code"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlation_id"`
}

// WriteJSON encodes v as the response body with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the shared error envelope.
func WriteError(w http.ResponseWriter, status int, code, message, correlationID string) {
	WriteJSON(w, status, ErrorBody{Code: code, Message: message, CorrelationID: correlationID})
}
