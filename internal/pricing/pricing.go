package pricing

import "tillpoint/internal/domain"

// Calculate returns cart totals for the given lines and discount. Pure:
// it is re-evaluated on every cart or discount mutation, never cached.
func Calculate(lines []domain.CartLine, d domain.Discount) domain.Totals {
	subtotal := 0.0
	for _, l := range lines {
		subtotal += float64(l.Quantity) * l.Price
	}

	amount := 0.0
	switch d.Type {
	case domain.DiscountPercent:
		amount = subtotal * d.Value / 100
	default: // fixed
		amount = d.Value
	}
	// Clamp so the total can never go negative.
	if amount < 0 {
		amount = 0
	}
	if amount > subtotal {
		amount = subtotal
	}

	return domain.Totals{
		Subtotal:       subtotal,
		DiscountAmount: amount,
		Total:          subtotal - amount,
	}
}

// LineTotal is the derived total for one cart entry.
func LineTotal(l domain.CartLine) float64 {
	return float64(l.Quantity) * l.Price
}

// Profit sums (price-cost)*quantity over the lines and subtracts the raw
// discount amount. The discount erodes profit directly; it is not pro-rated
// across lines with different margins.
func Profit(lines []domain.CartLine, discountAmount float64) float64 {
	p := 0.0
	for _, l := range lines {
		p += (l.Price - l.Cost) * float64(l.Quantity)
	}
	return p - discountAmount
}
