package quote

import "encoding/json"

// SampleRequest is the fixed payload behind the preview quotation.
func SampleRequest() Request {
	return Request{
		QuotationNumber: "QT-PREVIEW",
		CustomerName:    "Dr. A. Sharma",
		CustomerCompany: "Sample Pharma Pvt. Ltd.",
		CustomerEmail:   "a.sharma@samplepharma.example",
		CustomerPhone:   "+91 98765 43210",
		Products: []ProductRequest{
			{
				Title: "Acute Oral Toxicity Study",
				Details: []string{
					"Test system: Wistar rats",
					"Route: oral gavage",
					"GLP compliant report",
				},
				Guidelines: []GuidelineRequest{
					{Name: "OECD 423", Qty: json.Number("1"), UnitPrice: json.Number("60000")},
				},
			},
			{
				Title: "Repeated Dose 28-Day Oral Toxicity Study",
				Details: []string{
					"Test system: Sprague Dawley rats",
					"Includes histopathology",
				},
				Guidelines: []GuidelineRequest{
					{Name: "OECD 407", Qty: json.Number("1"), UnitPrice: json.Number("1350000")},
					{Name: "Dose formulation analysis", Qty: json.Number("8"), UnitPrice: json.Number("7500")},
				},
			},
		},
	}
}
