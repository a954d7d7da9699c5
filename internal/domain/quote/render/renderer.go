package render

import (
	"time"

	"golang.org/x/text/currency"

	"labquote/go_backend/internal/domain/i18n"
	"labquote/go_backend/internal/domain/quote"
)

type Options struct {
	Locale      i18n.Locale
	Currency    currency.Unit
	LabName     string
	GeneratedAt time.Time
}

// Renderer turns a resolved quotation into a document.
type Renderer interface {
	Render(q quote.Quotation, opts Options) ([]byte, error)
	ContentType() string
}

// Unit is the currency to print, INR when unset.
func (o Options) Unit() currency.Unit {
	if o.Currency == (currency.Unit{}) {
		return currency.INR
	}
	return o.Currency
}
