package html

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"labquote/go_backend/internal/domain/i18n"
	"labquote/go_backend/internal/domain/quote"
	"labquote/go_backend/internal/domain/quote/render"
)

const page = `<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<title>{{.L.Title}} {{.Q.Number}}</title>
</head>
<body>
{{if .LabName}}<header><h2>{{.LabName}}</h2></header>{{end}}
<h1>{{.L.Title}}</h1>
<p>{{.L.Number}}: <strong>{{.Q.Number}}</strong></p>
<p>{{.L.Date}}: {{date .Q.CreatedDate}} &middot; {{.L.ValidUntil}}: {{date .Q.ExpiryDate}}</p>
<table class="customer">
<tr><th>{{.L.Customer}}</th><td>{{.Q.Customer.Name}}</td></tr>
<tr><th>{{.L.Company}}</th><td>{{.Q.Customer.Company}}</td></tr>
<tr><th>{{.L.Email}}</th><td>{{.Q.Customer.Email}}</td></tr>
<tr><th>{{.L.Phone}}</th><td>{{.Q.Customer.Phone}}</td></tr>
</table>
{{range .Q.Products}}
<section class="product">
<h3>{{.Title}}</h3>
{{if .Details}}<ul>{{range .Details}}<li>{{.}}</li>{{end}}</ul>{{end}}
<table class="items">
<tr><th>{{$.L.Guideline}}</th><th>{{$.L.Qty}}</th><th>{{$.L.UnitPrice}}</th><th>{{$.L.Amount}}</th></tr>
{{range .Items}}<tr><td>{{.Name}}</td><td>{{.Qty}}</td><td>{{money .UnitPrice}}</td><td>{{money .LineTotal}}</td></tr>
{{end}}</table>
</section>
{{end}}
<table class="summary">
<tr><th>{{.L.SubTotal}}</th><td>{{money .Q.Summary.SubTotal}}</td></tr>
<tr><th>{{.L.GST}} ({{.Q.Summary.GSTPercent}}%)</th><td>{{money .Q.Summary.GSTAmount}}</td></tr>
<tr><th>{{.L.GrandTotal}}</th><td>{{money .Q.Summary.GrandTotal}}</td></tr>
</table>
{{if .Q.Terms}}<h4>{{.L.Terms}}</h4>
<ol>{{range .Q.Terms}}<li>{{.}}</li>{{end}}</ol>{{end}}
<footer><small>{{.L.Generated}}: {{.Generated}}</small></footer>
</body>
</html>
`

type pageData struct {
	Lang      string
	L         i18n.Labels
	Q         quote.Quotation
	LabName   string
	Generated string
}

// Renderer writes the quotation as a standalone HTML page.
type Renderer struct{}

func New() *Renderer { return &Renderer{} }

func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }

func (r *Renderer) Render(q quote.Quotation, opts render.Options) ([]byte, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("quote html: %w", err)
	}

	money := i18n.NewFormatter(opts.Locale, opts.Unit())
	tmpl, err := template.New("quotation").Funcs(template.FuncMap{
		"money": func(v quote.Money) string { return money.Amount(int64(v)) },
		"date":  opts.Locale.FormatDate,
	}).Parse(page)
	if err != nil {
		return nil, fmt.Errorf("quote html: parse: %w", err)
	}

	generated := opts.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, pageData{
		Lang:      opts.Locale.String(),
		L:         opts.Locale.Labels(),
		Q:         q,
		LabName:   opts.LabName,
		Generated: generated.Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("quote html: execute: %w", err)
	}
	return buf.Bytes(), nil
}
