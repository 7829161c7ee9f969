package state

import (
	"sync"

	"tillpoint/internal/domain"
)

// Session is the explicit application state for the single active till:
// catalog, order history, the open cart, and merchant settings. It is
// owned by one process and handed to every service; there are no ambient
// singletons. Mutations are serialized by the embedded mutex since HTTP
// handlers run concurrently even though the till is logically one session.
type Session struct {
	mu sync.Mutex

	Products []domain.Product
	Orders   []domain.Order
	Cart     []domain.CartLine
	Customer domain.Customer
	Discount domain.Discount
	Settings domain.Settings
}

func NewSession() *Session {
	return &Session{Discount: domain.Discount{Type: domain.DiscountFixed}}
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// CartIndex returns the position of the cart line for a product, or -1.
// The cart holds at most one line per product.
func (s *Session) CartIndex(productID int64) int {
	for i, l := range s.Cart {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

// ProductIndex returns the catalog position of a product, or -1.
func (s *Session) ProductIndex(id int64) int {
	for i, p := range s.Products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// OrderIndex returns the history position of an order, or -1.
func (s *Session) OrderIndex(id int64) int {
	for i, o := range s.Orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}

// ResetCart clears the cart, customer, and discount to empty defaults.
func (s *Session) ResetCart() {
	s.Cart = nil
	s.Customer = domain.Customer{}
	s.Discount = domain.Discount{Type: domain.DiscountFixed}
}

// CartSnapshot returns a copy of the cart lines safe to hold outside the lock.
func (s *Session) CartSnapshot() []domain.CartLine {
	out := make([]domain.CartLine, len(s.Cart))
	copy(out, s.Cart)
	return out
}

// ProductsSnapshot returns a copy of the catalog.
func (s *Session) ProductsSnapshot() []domain.Product {
	out := make([]domain.Product, len(s.Products))
	copy(out, s.Products)
	return out
}

// OrdersSnapshot returns a copy of the order history.
func (s *Session) OrdersSnapshot() []domain.Order {
	out := make([]domain.Order, len(s.Orders))
	copy(out, s.Orders)
	return out
}
