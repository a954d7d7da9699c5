package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handlers) GetQuote(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeProblem(w, http.StatusNotFound, "quotation storage is not configured")
		return
	}
	q, err := h.store.Get(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.writeQuotation(w, r, q, formatJSON, http.StatusOK)
}
