package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/gorilla/mux"

	// Poster format decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp" // WebP format support

	"movie-catalog/internal/artwork"
	"movie-catalog/internal/catalog"
	"movie-catalog/internal/logging"
)

// maxPosterWidth caps the w parameter so a bad client can't request an
// upscale of arbitrary size.
const maxPosterWidth = 2000

// GetPoster handles GET /api/poster/{key}. The stored artwork path is
// re-verified against the folder before serving; when the file is gone
// the request redirects to the fallback poster. An optional w parameter
// downscales to the given width, preserving aspect ratio.
func (h *Handlers) GetPoster(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	movie, err := h.store.GetMovie(r.Context(), key)
	if errors.Is(err, catalog.ErrNotFound) {
		writeJSONError(w, "Movie not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.Error("Error fetching movie %s for poster: %v", key, err)
		writeJSONError(w, "Failed to fetch movie", http.StatusInternalServerError)
		return
	}

	resolved := artwork.ResolveStored(movie.Poster, movie.FolderPath, h.artworkNames, h.fallbackPoster)
	if resolved == h.fallbackPoster {
		http.Redirect(w, r, h.fallbackPoster, http.StatusFound)
		return
	}

	width := 0
	if raw := r.URL.Query().Get("w"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeJSONError(w, "Invalid width", http.StatusBadRequest)
			return
		}
		if n > maxPosterWidth {
			n = maxPosterWidth
		}
		width = n
	}

	w.Header().Set("Cache-Control", "public, max-age=86400")

	if width == 0 {
		http.ServeFile(w, r, resolved)
		return
	}

	img, err := imaging.Open(resolved, imaging.AutoOrientation(true))
	if err != nil {
		logging.Warn("Failed to decode poster %s: %v", resolved, err)
		http.ServeFile(w, r, resolved)
		return
	}

	if img.Bounds().Dx() > width {
		img = imaging.Resize(img, width, 0, imaging.Lanczos)
	}

	w.Header().Set("Content-Type", "image/jpeg")
	if err := imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		logging.Error("Failed to encode poster for %s: %v", key, err)
	}
}
