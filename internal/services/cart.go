package services

import (
	"tillpoint/internal/domain"
	"tillpoint/internal/pricing"
	"tillpoint/internal/state"
)

// CartService mutates the open cart. The cart lives only in memory; it is
// cleared on checkout or an explicit clear and never persisted.
type CartService struct {
	State *state.Session
}

func NewCartService(s *state.Session) *CartService { return &CartService{State: s} }

// Add puts a product in the cart, or bumps the quantity if it is already
// there. Line totals are recomputed on every mutation.
func (s *CartService) Add(productID int64) error {
	s.State.Lock()
	defer s.State.Unlock()

	pi := s.State.ProductIndex(productID)
	if pi < 0 {
		return domain.ErrNotFound
	}
	p := s.State.Products[pi]

	if i := s.State.CartIndex(productID); i >= 0 {
		l := s.State.Cart[i]
		l.Quantity++
		l.Total = pricing.LineTotal(l)
		s.State.Cart[i] = l
		return nil
	}

	l := domain.CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		Code:      p.Code,
		Price:     p.Price,
		Cost:      p.Cost,
		Quantity:  1,
	}
	l.Total = pricing.LineTotal(l)
	s.State.Cart = append(s.State.Cart, l)
	return nil
}

// SetQuantity replaces a line's quantity. Quantities below 1 are ignored.
func (s *CartService) SetQuantity(productID int64, qty int) error {
	if qty < 1 {
		return nil
	}
	s.State.Lock()
	defer s.State.Unlock()

	i := s.State.CartIndex(productID)
	if i < 0 {
		return domain.ErrNotFound
	}
	l := s.State.Cart[i]
	l.Quantity = qty
	l.Total = pricing.LineTotal(l)
	s.State.Cart[i] = l
	return nil
}

func (s *CartService) Remove(productID int64) {
	s.State.Lock()
	defer s.State.Unlock()

	if i := s.State.CartIndex(productID); i >= 0 {
		s.State.Cart = append(s.State.Cart[:i], s.State.Cart[i+1:]...)
	}
}

// Clear resets the cart, customer, and discount together.
func (s *CartService) Clear() {
	s.State.Lock()
	defer s.State.Unlock()
	s.State.ResetCart()
}

func (s *CartService) SetCustomer(c domain.Customer) {
	s.State.Lock()
	defer s.State.Unlock()
	s.State.Customer = c
}

func (s *CartService) SetDiscount(d domain.Discount) {
	if d.Value < 0 {
		d.Value = 0
	}
	s.State.Lock()
	defer s.State.Unlock()
	s.State.Discount = d
}

type CartView struct {
	Lines    []domain.CartLine
	Customer domain.Customer
	Discount domain.Discount
	Totals   domain.Totals
}

// View prices the cart fresh on every call.
func (s *CartService) View() CartView {
	s.State.Lock()
	defer s.State.Unlock()

	lines := s.State.CartSnapshot()
	return CartView{
		Lines:    lines,
		Customer: s.State.Customer,
		Discount: s.State.Discount,
		Totals:   pricing.Calculate(lines, s.State.Discount),
	}
}
