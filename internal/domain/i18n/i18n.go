// Package i18n holds the document labels of the English and Korean site.
package i18n

import (
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Labels struct {
	Title      string
	Number     string
	Date       string
	ValidUntil string
	Customer   string
	Company    string
	Email      string
	Phone      string
	Guideline  string
	Qty        string
	UnitPrice  string
	Amount     string
	SubTotal   string
	GST        string
	GrandTotal string
	Terms      string
	Generated  string
}

var supported = []language.Tag{language.English, language.Korean}

var matcher = language.NewMatcher(supported)

var labels = map[language.Tag]Labels{
	language.English: {
		Title:      "Quotation",
		Number:     "Quotation No.",
		Date:       "Date",
		ValidUntil: "Valid until",
		Customer:   "Customer",
		Company:    "Company",
		Email:      "Email",
		Phone:      "Phone",
		Guideline:  "Guideline / Test",
		Qty:        "Qty",
		UnitPrice:  "Unit price",
		Amount:     "Amount",
		SubTotal:   "Sub total",
		GST:        "GST",
		GrandTotal: "Grand total",
		Terms:      "Terms & Conditions",
		Generated:  "Generated",
	},
	language.Korean: {
		Title:      "견적서",
		Number:     "견적 번호",
		Date:       "작성일",
		ValidUntil: "유효기간",
		Customer:   "고객명",
		Company:    "회사",
		Email:      "이메일",
		Phone:      "전화",
		Guideline:  "가이드라인 / 시험",
		Qty:        "수량",
		UnitPrice:  "단가",
		Amount:     "금액",
		SubTotal:   "소계",
		GST:        "부가세",
		GrandTotal: "합계",
		Terms:      "거래 조건",
		Generated:  "생성일시",
	},
}

// Locale is a supported display language.
type Locale struct {
	tag language.Tag
}

var English = Locale{tag: language.English}

var Korean = Locale{tag: language.Korean}

// Match picks the locale for explicit (a "lang" value) or, failing that,
// the Accept-Language header. English is the fallback.
func Match(explicit, acceptLanguage string) Locale {
	for _, in := range []string{explicit, acceptLanguage} {
		if in == "" {
			continue
		}
		tags, _, err := language.ParseAcceptLanguage(in)
		if err != nil || len(tags) == 0 {
			continue
		}
		_, idx, conf := matcher.Match(tags...)
		if conf == language.No {
			continue
		}
		return Locale{tag: supported[idx]}
	}
	return English
}

func (l Locale) tagOrDefault() language.Tag {
	if l.tag == language.Und {
		return language.English
	}
	return l.tag
}

func (l Locale) String() string { return l.tagOrDefault().String() }

// IsLatin reports whether the labels render with a core PDF font.
func (l Locale) IsLatin() bool { return l.tagOrDefault() == language.English }

func (l Locale) Labels() Labels { return labels[l.tagOrDefault()] }

func (l Locale) FormatDate(t time.Time) string {
	if l.tagOrDefault() == language.Korean {
		return t.Format("2006년 01월 02일")
	}
	return t.Format("02 Jan 2006")
}

// Formatter prints amounts with the locale's digit grouping and an ISO currency code.
type Formatter struct {
	printer *message.Printer
	unit    currency.Unit
}

func NewFormatter(l Locale, unit currency.Unit) Formatter {
	return Formatter{printer: message.NewPrinter(l.tagOrDefault()), unit: unit}
}

func (f Formatter) Amount(v int64) string {
	return f.printer.Sprintf("%s %d", f.unit.String(), v)
}

// ParseCurrency validates an ISO 4217 code.
func ParseCurrency(code string) (currency.Unit, error) {
	return currency.ParseISO(code)
}
