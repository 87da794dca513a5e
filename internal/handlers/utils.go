package handlers

import (
	"encoding/json"
	"net/http"

	"movie-catalog/internal/logging"
)

// writeJSON encodes v as JSON and writes it to the response writer.
// Encoding errors are logged since the response is already in flight.
func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes an error response as JSON with the given status code.
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	writeJSON(w, map[string]string{"error": message})
}
