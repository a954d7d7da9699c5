package quote

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Money is an amount in whole currency units.
type Money int64

// Upper bounds on line item values and on the subtotal. They keep every
// product and sum well inside int64, including GST at 100%.
const (
	MaxQty       = 1_000_000
	MaxUnitPrice = Money(1_000_000_000_000)
	MaxSubTotal  = Money(1_000_000_000_000_000)
)

type Quotation struct {
	Number      string         `json:"quotationNumber"`
	CreatedDate time.Time      `json:"createdDate"`
	ExpiryDate  time.Time      `json:"expiryDate"`
	Customer    Customer       `json:"customer"`
	Products    []ProductGroup `json:"products"`
	Terms       []string       `json:"terms"`
	Summary     Summary        `json:"summary"`

	// SummaryHint is the summary the caller sent, if any. It is never used for totals.
	SummaryHint *Summary `json:"summaryHint,omitempty"`
}

type Customer struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

// ProductGroup is one study or test category on a quotation.
type ProductGroup struct {
	Title   string     `json:"title"`
	Details []string   `json:"details"`
	Items   []LineItem `json:"guidelines"`
}

type LineItem struct {
	Name      string `json:"name"`
	Qty       int    `json:"qty"`
	UnitPrice Money  `json:"unitPrice"`
}

func (it LineItem) LineTotal() Money {
	return Money(it.Qty) * it.UnitPrice
}

type Summary struct {
	SubTotal   Money           `json:"subTotal"`
	GSTPercent decimal.Decimal `json:"gstPercent"`
	GSTAmount  Money           `json:"gstAmount"`
	GrandTotal Money           `json:"grandTotal"`
}

// HintMismatch reports whether the caller-supplied summary disagrees with the computed one.
func (q Quotation) HintMismatch() bool {
	if q.SummaryHint == nil {
		return false
	}
	return !q.SummaryHint.Equal(q.Summary)
}

func (s Summary) Equal(o Summary) bool {
	return s.SubTotal == o.SubTotal &&
		s.GSTAmount == o.GSTAmount &&
		s.GrandTotal == o.GrandTotal &&
		s.GSTPercent.Equal(o.GSTPercent)
}

// Validate checks that q is fully resolved and its totals are consistent.
func (q Quotation) Validate() error {
	verr := &ValidationError{}
	if q.Number == "" {
		verr.add("quotationNumber", "is required")
	}
	if q.CreatedDate.IsZero() {
		verr.add("createdDate", "is required")
	}
	if !q.ExpiryDate.After(q.CreatedDate) {
		verr.add("expiryDate", "must be after createdDate")
	}
	for _, f := range []struct{ field, value string }{
		{"customerName", q.Customer.Name},
		{"customerCompany", q.Customer.Company},
		{"customerEmail", q.Customer.Email},
		{"customerPhone", q.Customer.Phone},
	} {
		if f.value == "" {
			verr.add(f.field, "is required")
		}
	}
	for i, g := range q.Products {
		if strings.TrimSpace(g.Title) == "" {
			verr.add(fmt.Sprintf("products[%d].title", i), "is required")
		}
		for j, it := range g.Items {
			path := fmt.Sprintf("products[%d].guidelines[%d]", i, j)
			if strings.TrimSpace(it.Name) == "" {
				verr.add(path+".name", "is required")
			}
			switch {
			case it.Qty < 1:
				verr.add(path+".qty", "must be at least 1")
			case it.Qty > MaxQty:
				verr.add(path+".qty", fmt.Sprintf("must be at most %d", MaxQty))
			}
			switch {
			case it.UnitPrice < 0:
				verr.add(path+".unitPrice", "must not be negative")
			case it.UnitPrice > MaxUnitPrice:
				verr.add(path+".unitPrice", fmt.Sprintf("must be at most %d", MaxUnitPrice))
			}
		}
	}
	switch {
	case !withinSubTotal(q.Products):
		verr.add("products", fmt.Sprintf("subtotal must be at most %d", MaxSubTotal))
	case q.Summary.GSTPercent.IsNegative() || q.Summary.GSTPercent.GreaterThan(hundred):
		verr.add("summary.gstPercent", "must be between 0 and 100")
	case !Calculate(q.Products, q.Summary.GSTPercent).Equal(q.Summary):
		verr.add("summary", "does not match line items")
	}
	return verr.orNil()
}
