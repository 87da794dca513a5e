package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"movie-catalog/internal/catalog"
	"movie-catalog/internal/logging"
)

// ListMovies handles GET /api/movies. Query parameters: search, genre,
// actor, sort (newest|oldest|az|za), page (1-based).
func (h *Handlers) ListMovies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page := 1
	if raw := q.Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page = n
		}
	}

	opts := catalog.ListOptions{
		Search:   q.Get("search"),
		Genre:    q.Get("genre"),
		Actor:    q.Get("actor"),
		Sort:     catalog.ParseSort(q.Get("sort")),
		Page:     page,
		PageSize: h.pageSize,
	}

	listing, err := h.store.ListMovies(r.Context(), opts)
	if err != nil {
		logging.Error("Error listing movies: %v", err)
		writeJSONError(w, "Failed to list movies", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, listing)
}

// GetMovie handles GET /api/movies/{key}.
func (h *Handlers) GetMovie(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	movie, err := h.store.GetMovie(r.Context(), key)
	if errors.Is(err, catalog.ErrNotFound) {
		writeJSONError(w, "Movie not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.Error("Error fetching movie %s: %v", key, err)
		writeJSONError(w, "Failed to fetch movie", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, movie)
}
