package handlers

import (
	"net/http"
	"runtime"

	"movie-catalog/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusStarting = "starting"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status          string `json:"status"`
	Ready           bool   `json:"ready"`
	Version         string `json:"version"`
	Uptime          string `json:"uptime"`
	Reconciling     bool   `json:"reconciling"`
	LastReconciled  string `json:"lastReconciled,omitempty"`
	InitialRunError string `json:"initialRunError,omitempty"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`

	// Stats summary
	TotalMovies int `json:"totalMovies,omitempty"`
	TotalGenres int `json:"totalGenres,omitempty"`
	TotalActors int `json:"totalActors,omitempty"`
}

// HealthCheck returns the health status of the service
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	healthStatus := h.reconciler.GetHealthStatus()
	stats := h.store.GetStats()

	response := HealthResponse{
		Ready:        healthStatus.Ready,
		Version:      startup.Version,
		Uptime:       healthStatus.Uptime,
		Reconciling:  healthStatus.Reconciling,
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
		TotalMovies:  stats.TotalMovies,
		TotalGenres:  stats.TotalGenres,
		TotalActors:  stats.TotalActors,
	}

	if healthStatus.Ready {
		response.Status = statusHealthy
	} else {
		response.Status = statusStarting
	}

	if !healthStatus.LastReconciled.IsZero() {
		response.LastReconciled = healthStatus.LastReconciled.Format("2006-01-02T15:04:05Z07:00")
	}

	if healthStatus.InitialRunError != "" {
		response.InitialRunError = healthStatus.InitialRunError
		response.Status = statusDegraded
	}

	w.Header().Set("Content-Type", "application/json")

	if !healthStatus.Ready {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	writeJSON(w, response)
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{
			"status": "alive",
		})
	}
}

// ReadinessCheck returns 200 only after the initial reconciliation completes
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if h.reconciler.IsReady() {
		w.WriteHeader(http.StatusOK)
		writeJSON(w, map[string]string{
			"status": "ready",
		})
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
		writeJSON(w, map[string]string{
			"status": "not_ready",
		})
	}
}

// GetStats handles GET /api/stats.
func (h *Handlers) GetStats(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, h.store.GetStats())
}
