package handlers

import (
	"net/http"
)

// Health reports liveness. X-Quote-Store tells whether quotations are persisted.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	store := "none"
	if h.store != nil {
		store = "postgres"
	}
	w.Header().Set("X-Quote-Store", store)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
