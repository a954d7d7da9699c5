package gofpdf

import (
	"bytes"
	"fmt"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"labquote/go_backend/internal/domain/i18n"
	"labquote/go_backend/internal/domain/quote"
	"labquote/go_backend/internal/domain/quote/render"
)

const (
	utf8Family = "DejaVu"
	coreFamily = "Helvetica"
)

// Generator renders A4 quotations. With a font directory it embeds DejaVu
// TTF fonts and can print any locale; otherwise it uses core fonts and
// falls back to English labels.
type Generator struct {
	fontDir string
}

func New(fontDir string) *Generator { return &Generator{fontDir: fontDir} }

func (g *Generator) ContentType() string { return "application/pdf" }

func (g *Generator) Render(q quote.Quotation, opts render.Options) ([]byte, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("quote pdf: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	family := coreFamily
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	locale := opts.Locale
	if g.fontDir != "" {
		pdf.AddUTF8Font(utf8Family, "", filepath.Join(g.fontDir, "DejaVuSans.ttf"))
		pdf.AddUTF8Font(utf8Family, "B", filepath.Join(g.fontDir, "DejaVuSans-Bold.ttf"))
		family = utf8Family
		tr = func(s string) string { return s }
	} else if !locale.IsLatin() {
		locale = i18n.English
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("quote pdf: fonts: %w", err)
	}

	l := locale.Labels()
	money := i18n.NewFormatter(locale, opts.Unit())
	pdf.SetTitle(tr(l.Title+" "+q.Number), family == utf8Family)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	if opts.LabName != "" {
		pdf.SetFont(family, "B", 12)
		pdf.Cell(0, 7, tr(opts.LabName))
		pdf.Ln(8)
	}

	pdf.SetFont(family, "B", 16)
	pdf.Cell(0, 10, tr(l.Title))
	pdf.Ln(11)

	pdf.SetFont(family, "", 10)
	pdf.Cell(0, 5, tr(fmt.Sprintf("%s: %s", l.Number, q.Number)))
	pdf.Ln(5)
	pdf.Cell(0, 5, tr(fmt.Sprintf("%s: %s   %s: %s", l.Date, locale.FormatDate(q.CreatedDate), l.ValidUntil, locale.FormatDate(q.ExpiryDate))))
	pdf.Ln(8)

	for _, row := range [][2]string{
		{l.Customer, q.Customer.Name},
		{l.Company, q.Customer.Company},
		{l.Email, q.Customer.Email},
		{l.Phone, q.Customer.Phone},
	} {
		pdf.SetFont(family, "B", 10)
		pdf.Cell(30, 5, tr(row[0]))
		pdf.SetFont(family, "", 10)
		pdf.Cell(0, 5, tr(row[1]))
		pdf.Ln(5)
	}
	pdf.Ln(4)

	for _, p := range q.Products {
		pdf.SetFont(family, "B", 11)
		pdf.MultiCell(0, 6, tr(p.Title), "", "L", false)
		pdf.SetFont(family, "", 9)
		for _, d := range p.Details {
			pdf.MultiCell(0, 5, tr("- "+d), "", "L", false)
		}
		pdf.Ln(1)

		pdf.SetFont(family, "B", 10)
		pdf.CellFormat(95, 7, tr(l.Guideline), "1", 0, "L", false, 0, "")
		pdf.CellFormat(15, 7, tr(l.Qty), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, tr(l.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, tr(l.Amount), "1", 1, "R", false, 0, "")

		pdf.SetFont(family, "", 10)
		for _, it := range p.Items {
			pdf.CellFormat(95, 6, tr(trim(it.Name, 55)), "1", 0, "L", false, 0, "")
			pdf.CellFormat(15, 6, fmt.Sprintf("%d", it.Qty), "1", 0, "R", false, 0, "")
			pdf.CellFormat(40, 6, money.Amount(int64(it.UnitPrice)), "1", 0, "R", false, 0, "")
			pdf.CellFormat(40, 6, money.Amount(int64(it.LineTotal())), "1", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}

	s := q.Summary
	for _, row := range [][2]string{
		{l.SubTotal, money.Amount(int64(s.SubTotal))},
		{fmt.Sprintf("%s (%s%%)", l.GST, s.GSTPercent.String()), money.Amount(int64(s.GSTAmount))},
		{l.GrandTotal, money.Amount(int64(s.GrandTotal))},
	} {
		pdf.SetFont(family, "B", 10)
		pdf.CellFormat(150, 6, tr(row[0]), "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, row[1], "", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	if len(q.Terms) > 0 {
		pdf.SetFont(family, "B", 10)
		pdf.Cell(0, 6, tr(l.Terms))
		pdf.Ln(6)
		pdf.SetFont(family, "", 9)
		for i, term := range q.Terms {
			pdf.MultiCell(0, 5, tr(fmt.Sprintf("%d. %s", i+1, term)), "", "L", false)
		}
	}

	generated := opts.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	pdf.Ln(4)
	pdf.SetFont(family, "", 8)
	pdf.Cell(0, 5, tr(fmt.Sprintf("%s: %s", l.Generated, generated.Format(time.RFC3339))))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("quote pdf: output: %w", err)
	}
	return buf.Bytes(), nil
}

func trim(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
