package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tillpoint/internal/domain"
	"tillpoint/internal/pricing"
)

func line(price float64, qty int) domain.CartLine {
	return domain.CartLine{Price: price, Quantity: qty, Total: price * float64(qty)}
}

func TestCalculate(t *testing.T) {
	cases := []struct {
		name     string
		lines    []domain.CartLine
		discount domain.Discount
		want     domain.Totals
	}{
		{
			name:     "fixed discount",
			lines:    []domain.CartLine{line(100, 2)},
			discount: domain.Discount{Type: domain.DiscountFixed, Value: 50},
			want:     domain.Totals{Subtotal: 200, DiscountAmount: 50, Total: 150},
		},
		{
			name:     "percent discount clamps at subtotal",
			lines:    []domain.CartLine{line(100, 1)},
			discount: domain.Discount{Type: domain.DiscountPercent, Value: 150},
			want:     domain.Totals{Subtotal: 100, DiscountAmount: 100, Total: 0},
		},
		{
			name:     "fixed discount larger than subtotal clamps",
			lines:    []domain.CartLine{line(30, 1)},
			discount: domain.Discount{Type: domain.DiscountFixed, Value: 80},
			want:     domain.Totals{Subtotal: 30, DiscountAmount: 30, Total: 0},
		},
		{
			name:     "negative discount clamps to zero",
			lines:    []domain.CartLine{line(10, 3)},
			discount: domain.Discount{Type: domain.DiscountFixed, Value: -5},
			want:     domain.Totals{Subtotal: 30, DiscountAmount: 0, Total: 30},
		},
		{
			name:     "percent of multiple lines",
			lines:    []domain.CartLine{line(50, 2), line(25, 4)},
			discount: domain.Discount{Type: domain.DiscountPercent, Value: 10},
			want:     domain.Totals{Subtotal: 200, DiscountAmount: 20, Total: 180},
		},
		{
			name:     "empty cart",
			lines:    nil,
			discount: domain.Discount{Type: domain.DiscountFixed, Value: 50},
			want:     domain.Totals{Subtotal: 0, DiscountAmount: 0, Total: 0},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := pricing.Calculate(tc.lines, tc.discount)
			assert.Equal(t, tc.want, got)
			require.GreaterOrEqual(t, got.DiscountAmount, 0.0)
			require.LessOrEqual(t, got.DiscountAmount, got.Subtotal)
			require.Equal(t, got.Subtotal-got.DiscountAmount, got.Total)
		})
	}
}

func TestCalculateIsPure(t *testing.T) {
	lines := []domain.CartLine{line(12.5, 3), line(7, 1)}
	d := domain.Discount{Type: domain.DiscountPercent, Value: 5}

	first := pricing.Calculate(lines, d)
	second := pricing.Calculate(lines, d)
	require.Equal(t, first, second)
}

func TestProfit(t *testing.T) {
	lines := []domain.CartLine{
		{Price: 100, Cost: 60, Quantity: 2},
		{Price: 20, Cost: 5, Quantity: 1},
	}
	// (100-60)*2 + (20-5)*1 = 95, minus the full discount amount
	assert.Equal(t, 95.0, pricing.Profit(lines, 0))
	assert.Equal(t, 45.0, pricing.Profit(lines, 50))

	// a discount above the margin can push profit negative; kept as-is
	assert.Equal(t, -5.0, pricing.Profit(lines, 100))
}
