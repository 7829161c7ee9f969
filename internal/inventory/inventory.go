package inventory

import "tillpoint/internal/domain"

// ValidateStock checks every cart line against current stock and fails on
// the first shortfall, reporting the product and how many units are left.
// Lines referencing a product no longer in the catalog pass validation;
// they are snapshots of items that may only exist locally.
func ValidateStock(lines []domain.CartLine, products []domain.Product) error {
	byID := make(map[int64]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	for _, l := range lines {
		p, ok := byID[l.ProductID]
		if !ok {
			continue
		}
		if p.Stock < l.Quantity {
			return &domain.InsufficientStockError{Name: l.Name, Available: p.Stock}
		}
	}
	return nil
}

// Deduct returns a copy of products with stock reduced by the cart
// quantities, floored at zero. Products not in the cart are untouched.
func Deduct(lines []domain.CartLine, products []domain.Product) []domain.Product {
	qty := make(map[int64]int, len(lines))
	for _, l := range lines {
		qty[l.ProductID] += l.Quantity
	}
	out := make([]domain.Product, len(products))
	copy(out, products)
	for i := range out {
		n, ok := qty[out[i].ID]
		if !ok {
			continue
		}
		s := out[i].Stock - n
		if s < 0 {
			s = 0
		}
		out[i].Stock = s
	}
	return out
}

// Affected filters products down to those referenced by the cart, in
// catalog order. Used to issue one remote stock update per product.
func Affected(lines []domain.CartLine, products []domain.Product) []domain.Product {
	in := make(map[int64]bool, len(lines))
	for _, l := range lines {
		in[l.ProductID] = true
	}
	var out []domain.Product
	for _, p := range products {
		if in[p.ID] {
			out = append(out, p)
		}
	}
	return out
}
