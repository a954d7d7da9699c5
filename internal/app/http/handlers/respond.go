package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"labquote/go_backend/internal/domain/i18n"
	"labquote/go_backend/internal/domain/quote"
	"labquote/go_backend/internal/domain/quote/render"
	"labquote/go_backend/internal/infra/db/postgres"
)

type problem struct {
	Title  string             `json:"title"`
	Status int                `json:"status"`
	Detail string             `json:"detail,omitempty"`
	Fields []quote.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, problem{Title: http.StatusText(status), Status: status, Detail: detail})
}

// writeError maps domain and storage errors to problem responses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *quote.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, problem{
			Title:  http.StatusText(http.StatusUnprocessableEntity),
			Status: http.StatusUnprocessableEntity,
			Detail: "quotation request is invalid",
			Fields: verr.Fields,
		})
	case errors.Is(err, postgres.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "quotation not found")
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("quote: request failed")
		writeProblem(w, http.StatusInternalServerError, "")
	}
}

const (
	formatPDF  = "pdf"
	formatHTML = "html"
	formatJSON = "json"
)

func (h *Handlers) options(r *http.Request) render.Options {
	return render.Options{
		Locale:      i18n.Match(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language")),
		Currency:    h.currency,
		LabName:     h.labName,
		GeneratedAt: h.clock.Now(),
	}
}

type document struct {
	format      string
	contentType string
	body        []byte
}

// writeQuotation renders q in the requested format, falling back to def.
func (h *Handlers) writeQuotation(w http.ResponseWriter, r *http.Request, q quote.Quotation, def string, status int) {
	doc, ok := h.renderQuotation(w, r, q, def)
	if !ok {
		return
	}
	writeDocument(w, q, doc, status)
}

// renderQuotation produces the response body without writing it. On failure
// it has already written the problem response and reports false.
func (h *Handlers) renderQuotation(w http.ResponseWriter, r *http.Request, q quote.Quotation, def string) (document, bool) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = def
	}

	var renderer render.Renderer
	switch format {
	case formatJSON:
		body, err := json.Marshal(q)
		if err != nil {
			writeError(w, r, err)
			return document{}, false
		}
		return document{format: format, contentType: "application/json", body: body}, true
	case formatPDF:
		renderer = h.pdf
	case formatHTML:
		renderer = h.html
	default:
		writeProblem(w, http.StatusBadRequest, fmt.Sprintf("unsupported format %q", format))
		return document{}, false
	}

	body, err := renderer.Render(q, h.options(r))
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("number", q.Number).Str("format", format).Msg("quote: render failed")
		writeProblem(w, http.StatusInternalServerError, format+" generation failed")
		return document{}, false
	}
	return document{format: format, contentType: renderer.ContentType(), body: body}, true
}

func writeDocument(w http.ResponseWriter, q quote.Quotation, doc document, status int) {
	w.Header().Set("Content-Type", doc.contentType)
	if doc.format == formatPDF {
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="Quotation-%s.pdf"`, safeFilename(q.Number)))
	}
	w.WriteHeader(status)
	w.Write(doc.body)
}

func safeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, s)
}
