package quote

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Request is the inbound quotation payload. Every field is optional.
type Request struct {
	QuotationNumber string           `json:"quotationNumber" validate:"omitempty,max=64"`
	CreatedDate     string           `json:"createdDate"`
	ExpiryDate      string           `json:"expiryDate"`
	CustomerName    string           `json:"customerName" validate:"omitempty,max=200"`
	CustomerCompany string           `json:"customerCompany" validate:"omitempty,max=200"`
	CustomerEmail   string           `json:"customerEmail" validate:"omitempty,email"`
	CustomerPhone   string           `json:"customerPhone" validate:"omitempty,max=40"`
	Products        []ProductRequest `json:"products" validate:"dive"`
	Terms           []string         `json:"terms" validate:"dive,notblank"`
	Summary         *SummaryRequest  `json:"summary"`
}

type ProductRequest struct {
	Title      string             `json:"title" validate:"notblank"`
	Details    []string           `json:"details"`
	Guidelines []GuidelineRequest `json:"guidelines" validate:"dive"`
}

type GuidelineRequest struct {
	Name      string      `json:"name" validate:"notblank"`
	Qty       json.Number `json:"qty" validate:"required"`
	UnitPrice json.Number `json:"unitPrice" validate:"required"`
}

type SummaryRequest struct {
	SubTotal   json.Number `json:"subTotal"`
	GSTPercent json.Number `json:"gstPercent"`
	GSTAmount  json.Number `json:"gstAmount"`
	GrandTotal json.Number `json:"grandTotal"`
}

// Defaults are the fallback values the Builder substitutes for missing fields.
type Defaults struct {
	Number       string
	Customer     Customer
	Terms        []string
	GSTPercent   decimal.Decimal
	ValidityDays int

	// NewNumber, when set, generates a number instead of using Number.
	NewNumber func() string
}

func StandardDefaults() Defaults {
	return Defaults{
		Number: "QT-0001",
		Customer: Customer{
			Name:    "Customer Name",
			Company: "Company Name",
			Email:   "customer@email.com",
			Phone:   "+00 0000000000",
		},
		Terms: []string{
			"This quotation is valid for 30 days from the date of issue.",
			"Prices are subject to revision in case of changes in study design, guidelines or statutory taxes.",
		},
		GSTPercent:   decimal.NewFromInt(18),
		ValidityDays: 30,
	}
}

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

var maxInt64 = decimal.NewFromInt(math.MaxInt64)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"02/01/2006",
	"January 2, 2006",
}

type Builder struct {
	defaults Defaults
	clock    Clock
	validate *validator.Validate
}

func NewBuilder(defaults Defaults, clock Clock) *Builder {
	if clock == nil {
		clock = SystemClock{}
	}
	if defaults.ValidityDays <= 0 {
		defaults.ValidityDays = 30
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return &Builder{defaults: defaults, clock: clock, validate: v}
}

// Build resolves req into a complete Quotation. Missing fields take defaults;
// malformed fields are reported together in a *ValidationError.
func (b *Builder) Build(req Request) (Quotation, error) {
	verr := &ValidationError{}
	if err := b.validate.Struct(req); err != nil {
		var ves validator.ValidationErrors
		if !errors.As(err, &ves) {
			return Quotation{}, fmt.Errorf("quote: validate request: %w", err)
		}
		for _, fe := range ves {
			verr.add(fieldPath(fe.Namespace()), ruleMessage(fe))
		}
	}

	q := Quotation{
		Number: req.QuotationNumber,
		Customer: Customer{
			Name:    or(req.CustomerName, b.defaults.Customer.Name),
			Company: or(req.CustomerCompany, b.defaults.Customer.Company),
			Email:   or(req.CustomerEmail, b.defaults.Customer.Email),
			Phone:   or(req.CustomerPhone, b.defaults.Customer.Phone),
		},
	}
	if q.Number == "" {
		q.Number = b.defaults.Number
		if b.defaults.NewNumber != nil {
			q.Number = b.defaults.NewNumber()
		}
	}

	loc := b.clock.Now().Location()
	if req.CreatedDate != "" {
		d, err := parseDate(req.CreatedDate, loc)
		if err != nil {
			verr.add("createdDate", err.Error())
		}
		q.CreatedDate = d
	} else {
		q.CreatedDate = truncateDay(b.clock.Now())
	}
	if req.ExpiryDate != "" {
		d, err := parseDate(req.ExpiryDate, loc)
		if err != nil {
			verr.add("expiryDate", err.Error())
		}
		q.ExpiryDate = d
	} else {
		q.ExpiryDate = q.CreatedDate.AddDate(0, 0, b.defaults.ValidityDays)
	}
	if !q.CreatedDate.IsZero() && !q.ExpiryDate.IsZero() && !q.ExpiryDate.After(q.CreatedDate) {
		verr.add("expiryDate", "must be after createdDate")
	}

	q.Products = make([]ProductGroup, 0, len(req.Products))
	for i, p := range req.Products {
		g := ProductGroup{
			Title:   p.Title,
			Details: append([]string(nil), p.Details...),
			Items:   make([]LineItem, 0, len(p.Guidelines)),
		}
		for j, gl := range p.Guidelines {
			path := fmt.Sprintf("products[%d].guidelines[%d]", i, j)
			it := LineItem{Name: gl.Name}
			if gl.Qty != "" {
				n, err := wholeNumber(gl.Qty)
				switch {
				case err != nil:
					verr.add(path+".qty", err.Error())
				case n < 1:
					verr.add(path+".qty", "must be at least 1")
				case n > MaxQty:
					verr.add(path+".qty", fmt.Sprintf("must be at most %d", MaxQty))
				default:
					it.Qty = int(n)
				}
			}
			if gl.UnitPrice != "" {
				n, err := wholeNumber(gl.UnitPrice)
				switch {
				case err != nil:
					verr.add(path+".unitPrice", err.Error())
				case n < 0:
					verr.add(path+".unitPrice", "must not be negative")
				case n > int64(MaxUnitPrice):
					verr.add(path+".unitPrice", fmt.Sprintf("must be at most %d", MaxUnitPrice))
				default:
					it.UnitPrice = Money(n)
				}
			}
			g.Items = append(g.Items, it)
		}
		q.Products = append(q.Products, g)
	}
	if !withinSubTotal(q.Products) {
		verr.add("products", fmt.Sprintf("subtotal must be at most %d", MaxSubTotal))
	}

	if len(req.Terms) > 0 {
		q.Terms = append([]string(nil), req.Terms...)
	} else {
		q.Terms = append([]string(nil), b.defaults.Terms...)
	}

	gstPercent := b.defaults.GSTPercent
	if req.Summary != nil {
		hint, err := parseSummary(*req.Summary)
		if err != nil {
			verr.add("summary", err.Error())
		} else {
			if req.Summary.GSTPercent != "" {
				gstPercent = hint.GSTPercent
			} else {
				hint.GSTPercent = gstPercent
			}
			q.SummaryHint = &hint
		}
	}
	if gstPercent.IsNegative() || gstPercent.GreaterThan(hundred) {
		verr.add("summary.gstPercent", "must be between 0 and 100")
	}

	if err := verr.orNil(); err != nil {
		return Quotation{}, err
	}
	q.Summary = Calculate(q.Products, gstPercent)
	return q, nil
}

func parseSummary(s SummaryRequest) (Summary, error) {
	var out Summary
	for _, f := range []struct {
		name string
		raw  json.Number
		dst  *Money
	}{
		{"subTotal", s.SubTotal, &out.SubTotal},
		{"gstAmount", s.GSTAmount, &out.GSTAmount},
		{"grandTotal", s.GrandTotal, &out.GrandTotal},
	} {
		if f.raw == "" {
			continue
		}
		n, err := wholeNumber(f.raw)
		if err != nil {
			return Summary{}, fmt.Errorf("%s %w", f.name, err)
		}
		*f.dst = Money(n)
	}
	out.GSTPercent = decimal.Zero
	if s.GSTPercent != "" {
		d, err := decimal.NewFromString(s.GSTPercent.String())
		if err != nil {
			return Summary{}, errors.New("gstPercent must be a number")
		}
		out.GSTPercent = d
	}
	return out, nil
}

func wholeNumber(n json.Number) (int64, error) {
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return 0, errors.New("must be a number")
	}
	if !d.IsInteger() {
		return 0, errors.New("must be a whole number")
	}
	if d.Abs().GreaterThan(maxInt64) {
		return 0, errors.New("is out of range")
	}
	return d.IntPart(), nil
}

func parseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return truncateDay(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "failed " + fe.Tag() + " check"
	}
}

func or(v, def string) string {
	if strings.TrimSpace(v) != "" {
		return v
	}
	return def
}
