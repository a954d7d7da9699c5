package handlers

import (
	"net/http"

	"labquote/go_backend/internal/domain/quote"
)

// PreviewQuote serves the fixed sample quotation shown on the pricing page.
func (h *Handlers) PreviewQuote(w http.ResponseWriter, r *http.Request) {
	q, err := h.builder.Build(quote.SampleRequest())
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.writeQuotation(w, r, q, formatHTML, http.StatusOK)
}
