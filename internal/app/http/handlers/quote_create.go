package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"labquote/go_backend/internal/domain/quote"
)

const maxRequestBody = 1 << 20

func (h *Handlers) CreateQuote(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	var req quote.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "malformed JSON: "+err.Error())
		return
	}

	q, err := h.builder.Build(req)
	if err != nil {
		logger.Info().Err(err).Msg("quote: rejected request")
		writeError(w, r, err)
		return
	}
	if q.HintMismatch() {
		logger.Warn().
			Str("number", q.Number).
			Int64("hint_grand_total", int64(q.SummaryHint.GrandTotal)).
			Int64("grand_total", int64(q.Summary.GrandTotal)).
			Msg("quote: caller summary ignored, totals recomputed")
	}

	doc, ok := h.renderQuotation(w, r, q, formatPDF)
	if !ok {
		return
	}
	if h.store != nil {
		if err := h.store.Save(r.Context(), q); err != nil {
			writeError(w, r, err)
			return
		}
	}

	logger.Info().
		Str("number", q.Number).
		Int("products", len(q.Products)).
		Int64("grand_total", int64(q.Summary.GrandTotal)).
		Msg("quote: created")
	writeDocument(w, q, doc, http.StatusOK)
}
