package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateOrderTotals(t *testing.T) {
	tests := []struct {
		name         string
		lines        []OrderLine
		applyTax     bool
		applyService bool
		want         OrderTotals
	}{
		{
			name:         "both charges applied",
			lines:        []OrderLine{{Quantity: 2, UnitPrice: 3000}, {Quantity: 4, UnitPrice: 1000}},
			applyTax:     true,
			applyService: true,
			want:         OrderTotals{Subtotal: 10000, Tax: 500, ServiceCharge: 1000, Total: 11500},
		},
		{
			name:  "no charges",
			lines: []OrderLine{{Quantity: 3, UnitPrice: 500}},
			want:  OrderTotals{Subtotal: 1500, Tax: 0, ServiceCharge: 0, Total: 1500},
		},
		{
			name:     "tax only",
			lines:    []OrderLine{{Quantity: 1, UnitPrice: 8000}},
			applyTax: true,
			want:     OrderTotals{Subtotal: 8000, Tax: 400, ServiceCharge: 0, Total: 8400},
		},
		{
			name:         "service charge only",
			lines:        []OrderLine{{Quantity: 1, UnitPrice: 8000}},
			applyService: true,
			want:         OrderTotals{Subtotal: 8000, Tax: 0, ServiceCharge: 800, Total: 8800},
		},
		{
			name:         "fractional amounts truncate toward zero",
			lines:        []OrderLine{{Quantity: 1, UnitPrice: 999}},
			applyTax:     true,
			applyService: true,
			// 5% of 999 = 49.95 -> 49, 10% of 999 = 99.9 -> 99
			want: OrderTotals{Subtotal: 999, Tax: 49, ServiceCharge: 99, Total: 1147},
		},
		{
			name:         "empty order",
			lines:        nil,
			applyTax:     true,
			applyService: true,
			want:         OrderTotals{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateOrderTotals(tt.lines, tt.applyTax, tt.applyService)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculateOrderTotalsNotCompounded(t *testing.T) {
	// Service charge is computed on the subtotal, not on subtotal+tax.
	got := CalculateOrderTotals([]OrderLine{{Quantity: 1, UnitPrice: 10000}}, true, true)
	assert.Equal(t, int64(1000), got.ServiceCharge)
	assert.Equal(t, int64(500), got.Tax)
}
