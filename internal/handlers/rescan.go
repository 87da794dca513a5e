package handlers

import (
	"errors"
	"net/http"

	"movie-catalog/internal/logging"
	"movie-catalog/internal/reconciler"
	"movie-catalog/internal/scanner"
)

// Rescan handles POST /api/rescan. The reconciliation runs synchronously
// and the resulting report is returned. A run already in progress yields
// 409 Conflict rather than queuing a second one.
func (h *Handlers) Rescan(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconciler.Reconcile(r.Context())
	if errors.Is(err, reconciler.ErrInProgress) {
		writeJSONError(w, "Rescan already in progress", http.StatusConflict)
		return
	}
	if errors.Is(err, scanner.ErrRootNotFound) {
		writeJSONError(w, "Library root not accessible", http.StatusServiceUnavailable)
		return
	}
	if err != nil {
		logging.Error("Rescan failed: %v", err)
		writeJSONError(w, "Rescan failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, report)
}
