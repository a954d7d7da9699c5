package quote

import "github.com/shopspring/decimal"

var (
	hundred        = decimal.NewFromInt(100)
	maxSubTotalDec = decimal.NewFromInt(int64(MaxSubTotal))
)

// Calculate derives the summary of groups at the given GST rate.
// GST is rounded half up to a whole unit. Callers keep groups within
// withinSubTotal; Build and Validate both enforce it.
func Calculate(groups []ProductGroup, gstPercent decimal.Decimal) Summary {
	var sub Money
	for _, g := range groups {
		for _, it := range g.Items {
			sub += it.LineTotal()
		}
	}

	gst := decimal.NewFromInt(int64(sub)).Mul(gstPercent).Div(hundred).Round(0)

	return Summary{
		SubTotal:   sub,
		GSTPercent: gstPercent,
		GSTAmount:  Money(gst.IntPart()),
		GrandTotal: sub + Money(gst.IntPart()),
	}
}

// withinSubTotal sums the line totals in decimal so the check itself cannot wrap.
func withinSubTotal(groups []ProductGroup) bool {
	sub := decimal.Zero
	for _, g := range groups {
		for _, it := range g.Items {
			sub = sub.Add(decimal.NewFromInt(int64(it.Qty)).Mul(decimal.NewFromInt(int64(it.UnitPrice))))
		}
	}
	return !sub.GreaterThan(maxSubTotalDec)
}
