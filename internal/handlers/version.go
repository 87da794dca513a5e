package handlers

import (
	"net/http"

	"movie-catalog/internal/startup"
)

// versionResponse is the /version payload: the service name alongside
// the build metadata baked in at link time.
type versionResponse struct {
	Service string `json:"service"`
	startup.BuildInfo
}

// GetVersion handles GET /version.
func (h *Handlers) GetVersion(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	writeJSON(w, versionResponse{
		Service:   "movie-catalog",
		BuildInfo: startup.GetBuildInfo(),
	})
}
