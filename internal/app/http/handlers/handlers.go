package handlers

import (
	"context"

	"golang.org/x/text/currency"

	"labquote/go_backend/internal/domain/quote"
	"labquote/go_backend/internal/domain/quote/render"
)

// Store persists resolved quotations. A nil Store runs the service stateless.
type Store interface {
	Save(ctx context.Context, q quote.Quotation) error
	Get(ctx context.Context, number string) (quote.Quotation, error)
}

type Deps struct {
	Builder  *quote.Builder
	Store    Store
	PDF      render.Renderer
	HTML     render.Renderer
	Clock    quote.Clock
	Currency currency.Unit
	LabName  string
}

type Handlers struct {
	builder  *quote.Builder
	store    Store
	pdf      render.Renderer
	html     render.Renderer
	clock    quote.Clock
	currency currency.Unit
	labName  string
}

func New(d Deps) *Handlers {
	if d.Clock == nil {
		d.Clock = quote.SystemClock{}
	}
	return &Handlers{
		builder:  d.Builder,
		store:    d.Store,
		pdf:      d.PDF,
		html:     d.HTML,
		clock:    d.Clock,
		currency: d.Currency,
		labName:  d.LabName,
	}
}
