package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"

	"labquote/go_backend/internal/domain/quote"
	"labquote/go_backend/internal/domain/quote/render"
	"labquote/go_backend/internal/domain/quote/render/gofpdf"
	"labquote/go_backend/internal/domain/quote/render/html"
	"labquote/go_backend/internal/infra/db/postgres"
)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Date(2026, time.March, 5, 9, 0, 0, 0, time.UTC) }

type memStore struct {
	mu      sync.Mutex
	items   map[string]quote.Quotation
	saveErr error
}

func newMemStore() *memStore { return &memStore{items: map[string]quote.Quotation{}} }

func (s *memStore) Save(_ context.Context, q quote.Quotation) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[q.Number] = q
	return nil
}

func (s *memStore) Get(_ context.Context, number string) (quote.Quotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.items[number]
	if !ok {
		return quote.Quotation{}, postgres.ErrNotFound
	}
	return q, nil
}

func newTestHandlers(store Store) *Handlers {
	return New(Deps{
		Builder:  quote.NewBuilder(quote.StandardDefaults(), fixedClock{}),
		Store:    store,
		PDF:      gofpdf.New(""),
		HTML:     html.New(),
		Clock:    fixedClock{},
		Currency: currency.INR,
		LabName:  "Sample Research Laboratory",
	})
}

func testRouter(h *Handlers) http.Handler {
	r := chi.NewRouter()
	r.Get("/v1/quotations/preview", h.PreviewQuote)
	r.Post("/v1/quotations", h.CreateQuote)
	r.Get("/v1/quotations/{number}", h.GetQuote)
	return r
}

const toxicityPayload = `{
	"quotationNumber": "QT-2026-001",
	"customerName": "Dr. Mehta",
	"customerCompany": "Acme Pharma",
	"customerEmail": "mehta@acme.example",
	"customerPhone": "+91 90000 00000",
	"products": [
		{"title": "Toxicity Study", "details": ["GLP"], "guidelines": [{"name": "OECD 423", "qty": 1, "unitPrice": 60000}]}
	]
}`

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) problem {
	t.Helper()
	var p problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}

func TestCreateQuoteJSON(t *testing.T) {
	store := newMemStore()
	rec := do(t, testRouter(newTestHandlers(store)), http.MethodPost, "/v1/quotations?format=json", toxicityPayload)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var q quote.Quotation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
	assert.Equal(t, "QT-2026-001", q.Number)
	assert.Equal(t, quote.Money(60000), q.Summary.SubTotal)
	assert.Equal(t, quote.Money(10800), q.Summary.GSTAmount)
	assert.Equal(t, quote.Money(70800), q.Summary.GrandTotal)

	stored, err := store.Get(context.Background(), "QT-2026-001")
	require.NoError(t, err)
	assert.Equal(t, quote.Money(70800), stored.Summary.GrandTotal)
}

func TestCreateQuotePDF(t *testing.T) {
	rec := do(t, testRouter(newTestHandlers(nil)), http.MethodPost, "/v1/quotations", toxicityPayload)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Quotation-QT-2026-001.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
}

func TestCreateQuoteEmptyPayload(t *testing.T) {
	rec := do(t, testRouter(newTestHandlers(nil)), http.MethodPost, "/v1/quotations?format=json", `{}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var q quote.Quotation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
	assert.Equal(t, quote.StandardDefaults().Customer, q.Customer)
	assert.Equal(t, quote.StandardDefaults().Terms, q.Terms)
	assert.Equal(t, 30*24*time.Hour, q.ExpiryDate.Sub(q.CreatedDate))
}

func TestCreateQuoteIgnoresCallerSummary(t *testing.T) {
	body := `{"products":[{"title":"T","guidelines":[{"name":"g","qty":8,"unitPrice":7500}]}],
		"summary":{"subTotal":1,"gstPercent":18,"gstAmount":1,"grandTotal":2}}`
	rec := do(t, testRouter(newTestHandlers(nil)), http.MethodPost, "/v1/quotations?format=json", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var q quote.Quotation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
	assert.Equal(t, quote.Money(70800), q.Summary.GrandTotal)
	require.NotNil(t, q.SummaryHint)
	assert.Equal(t, quote.Money(2), q.SummaryHint.GrandTotal)
}

func TestCreateQuoteRejectsBadInput(t *testing.T) {
	h := testRouter(newTestHandlers(nil))

	tests := []struct {
		name   string
		body   string
		status int
		field  string
	}{
		{"malformed json", `{"products": [`, http.StatusBadRequest, ""},
		{"non numeric price", `{"products":[{"title":"T","guidelines":[{"name":"g","qty":1,"unitPrice":"abc"}]}]}`, http.StatusBadRequest, ""},
		{"zero quantity", `{"products":[{"title":"T","guidelines":[{"name":"g","qty":0,"unitPrice":10}]}]}`, http.StatusUnprocessableEntity, "products[0].guidelines[0].qty"},
		{"negative price", `{"products":[{"title":"T","guidelines":[{"name":"g","qty":1,"unitPrice":-5}]}]}`, http.StatusUnprocessableEntity, "products[0].guidelines[0].unitPrice"},
		{"dates out of order", `{"createdDate":"2026-06-01","expiryDate":"2026-05-01"}`, http.StatusUnprocessableEntity, "expiryDate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/v1/quotations", tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())

			p := decodeProblem(t, rec)
			assert.Equal(t, tt.status, p.Status)
			if tt.field != "" {
				require.NotEmpty(t, p.Fields)
				assert.Equal(t, tt.field, p.Fields[0].Field)
			}
		})
	}
}

func TestCreateQuoteStoreFailure(t *testing.T) {
	store := newMemStore()
	store.saveErr = errors.New("connection reset")

	rec := do(t, testRouter(newTestHandlers(store)), http.MethodPost, "/v1/quotations", toxicityPayload)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection reset")
}

type failingRenderer struct{}

func (failingRenderer) Render(quote.Quotation, render.Options) ([]byte, error) {
	return nil, errors.New("font missing")
}

func (failingRenderer) ContentType() string { return "application/pdf" }

func TestCreateQuoteRenderFailureIsNotStored(t *testing.T) {
	store := newMemStore()
	h := newTestHandlers(store)
	h.pdf = failingRenderer{}

	rec := do(t, testRouter(h), http.MethodPost, "/v1/quotations", toxicityPayload)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	_, err := store.Get(context.Background(), "QT-2026-001")
	assert.ErrorIs(t, err, postgres.ErrNotFound)
}

func TestCreateQuoteUnsupportedFormatIsNotStored(t *testing.T) {
	store := newMemStore()
	rec := do(t, testRouter(newTestHandlers(store)), http.MethodPost, "/v1/quotations?format=docx", toxicityPayload)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	_, err := store.Get(context.Background(), "QT-2026-001")
	assert.ErrorIs(t, err, postgres.ErrNotFound)
}

func TestCreateQuoteRejectsOverflowingAmounts(t *testing.T) {
	store := newMemStore()
	body := `{"quotationNumber":"QT-BIG","products":[{"title":"T","guidelines":[{"name":"g","qty":2,"unitPrice":9223372036854775807}]}]}`

	rec := do(t, testRouter(newTestHandlers(store)), http.MethodPost, "/v1/quotations?format=json", body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	p := decodeProblem(t, rec)
	require.NotEmpty(t, p.Fields)
	assert.Equal(t, "products[0].guidelines[0].unitPrice", p.Fields[0].Field)

	_, err := store.Get(context.Background(), "QT-BIG")
	assert.ErrorIs(t, err, postgres.ErrNotFound)
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestHandlers(newMemStore()).Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.Equal(t, "postgres", rec.Header().Get("X-Quote-Store"))

	rec = httptest.NewRecorder()
	newTestHandlers(nil).Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, "none", rec.Header().Get("X-Quote-Store"))
}

func TestPreviewQuote(t *testing.T) {
	h := testRouter(newTestHandlers(nil))

	rec := do(t, h, http.MethodGet, "/v1/quotations/preview", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "QT-PREVIEW")
	assert.Contains(t, rec.Body.String(), "Sample Research Laboratory")

	rec = do(t, h, http.MethodGet, "/v1/quotations/preview?format=pdf", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))

	rec = do(t, h, http.MethodGet, "/v1/quotations/preview?format=xml", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPreviewQuoteKorean(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/quotations/preview", nil)
	req.Header.Set("Accept-Language", "ko-KR,ko;q=0.9")
	rec := httptest.NewRecorder()
	testRouter(newTestHandlers(nil)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "견적서")

	rec = do(t, testRouter(newTestHandlers(nil)), http.MethodGet, "/v1/quotations/preview?lang=ko&format=pdf", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetQuote(t *testing.T) {
	store := newMemStore()
	h := testRouter(newTestHandlers(store))

	rec := do(t, h, http.MethodPost, "/v1/quotations?format=json", toxicityPayload)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/quotations/QT-2026-001", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var q quote.Quotation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
	assert.Equal(t, "Dr. Mehta", q.Customer.Name)

	rec = do(t, h, http.MethodGet, "/v1/quotations/QT-2026-001?format=pdf", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/quotations/QT-404", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetQuoteWithoutStore(t *testing.T) {
	rec := do(t, testRouter(newTestHandlers(nil)), http.MethodGet, "/v1/quotations/QT-1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSafeFilename(t *testing.T) {
	assert.Equal(t, "QT-2026_01", safeFilename("QT-2026/01"))
	assert.Equal(t, "a_b_", safeFilename(`a"b;`))
}
