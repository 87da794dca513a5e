package handlers

import (
	"net/http"

	"movie-catalog/internal/logging"
)

// ListGenres handles GET /api/genres, returning every genre referenced
// by at least one movie, sorted case-insensitively.
func (h *Handlers) ListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.store.DistinctGenres(r.Context())
	if err != nil {
		logging.Error("Error listing genres: %v", err)
		writeJSONError(w, "Failed to list genres", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string][]string{"genres": genres})
}

// ListActors handles GET /api/actors.
func (h *Handlers) ListActors(w http.ResponseWriter, r *http.Request) {
	actors, err := h.store.DistinctActors(r.Context())
	if err != nil {
		logging.Error("Error listing actors: %v", err)
		writeJSONError(w, "Failed to list actors", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string][]string{"actors": actors})
}
