package services

// Tax and service charge rates applied at the venue. Amounts are
// truncated toward zero, matching how the front desk rounds bills.
const (
	TaxRatePercent           = 5
	ServiceChargeRatePercent = 10
)

// OrderLine is the minimal shape needed to price a draft or a checkout.
type OrderLine struct {
	Quantity  int
	UnitPrice int64
}

// OrderTotals holds the priced breakdown of an order.
type OrderTotals struct {
	Subtotal      int64 `json:"subtotal"`
	Tax           int64 `json:"tax"`
	ServiceCharge int64 `json:"service_charge"`
	Total         int64 `json:"total"`
}

// CalculateOrderTotals prices a set of lines. Tax and service charge
// are each computed on the subtotal, not compounded on one another.
func CalculateOrderTotals(lines []OrderLine, applyTax, applyServiceCharge bool) OrderTotals {
	var totals OrderTotals
	for _, line := range lines {
		totals.Subtotal += int64(line.Quantity) * line.UnitPrice
	}
	if applyTax {
		totals.Tax = totals.Subtotal * TaxRatePercent / 100
	}
	if applyServiceCharge {
		totals.ServiceCharge = totals.Subtotal * ServiceChargeRatePercent / 100
	}
	totals.Total = totals.Subtotal + totals.Tax + totals.ServiceCharge
	return totals
}
