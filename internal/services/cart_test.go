package services

import (
	"errors"
	"testing"

	"tillpoint/internal/domain"
	"tillpoint/internal/state"
)

func cartFixture() (*state.Session, *CartService) {
	sess := state.NewSession()
	sess.Products = []domain.Product{
		{ID: 1, Name: "Rice 5kg", Price: 100, Cost: 70, Stock: 10, Active: true},
		{ID: 2, Name: "Sugar", Price: 30, Cost: 22, Stock: 3, Active: true},
	}
	return sess, NewCartService(sess)
}

func TestCartAddAndReAdd(t *testing.T) {
	sess, svc := cartFixture()

	if err := svc.Add(1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Add(1); err != nil {
		t.Fatalf("re-add: %v", err)
	}

	if len(sess.Cart) != 1 {
		t.Fatalf("re-adding must merge into one line, got %d", len(sess.Cart))
	}
	l := sess.Cart[0]
	if l.Quantity != 2 || l.Total != 200 {
		t.Fatalf("expected qty 2 total 200, got %+v", l)
	}

	if err := svc.Add(999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for an unknown product, got %v", err)
	}
}

func TestCartSetQuantity(t *testing.T) {
	sess, svc := cartFixture()
	_ = svc.Add(1)

	if err := svc.SetQuantity(1, 5); err != nil {
		t.Fatalf("set qty: %v", err)
	}
	if sess.Cart[0].Quantity != 5 || sess.Cart[0].Total != 500 {
		t.Fatalf("expected qty 5 total 500, got %+v", sess.Cart[0])
	}

	// Quantities below 1 are ignored, not treated as removal.
	if err := svc.SetQuantity(1, 0); err != nil {
		t.Fatalf("set qty 0: %v", err)
	}
	if sess.Cart[0].Quantity != 5 {
		t.Fatalf("qty below 1 must be ignored, got %d", sess.Cart[0].Quantity)
	}
}

func TestCartRemoveAndClear(t *testing.T) {
	sess, svc := cartFixture()
	_ = svc.Add(1)
	_ = svc.Add(2)
	svc.SetCustomer(domain.Customer{Name: "Mona"})
	svc.SetDiscount(domain.Discount{Type: domain.DiscountPercent, Value: 10})

	svc.Remove(1)
	if len(sess.Cart) != 1 || sess.Cart[0].ProductID != 2 {
		t.Fatalf("remove left the wrong lines: %+v", sess.Cart)
	}

	svc.Clear()
	if len(sess.Cart) != 0 || sess.Customer.Name != "" {
		t.Fatal("clear must reset cart and customer")
	}
	if sess.Discount.Type != domain.DiscountFixed || sess.Discount.Value != 0 {
		t.Fatalf("clear must reset the discount, got %+v", sess.Discount)
	}
}

func TestCartViewPricesFresh(t *testing.T) {
	_, svc := cartFixture()
	_ = svc.Add(1)
	_ = svc.SetQuantity(1, 2)
	svc.SetDiscount(domain.Discount{Type: domain.DiscountFixed, Value: 50})

	v := svc.View()
	if v.Totals.Subtotal != 200 || v.Totals.DiscountAmount != 50 || v.Totals.Total != 150 {
		t.Fatalf("totals mismatch: %+v", v.Totals)
	}

	svc.SetDiscount(domain.Discount{Type: domain.DiscountPercent, Value: 150})
	v = svc.View()
	if v.Totals.Total != 0 {
		t.Fatalf("an oversized discount must clamp the total to 0, got %v", v.Totals.Total)
	}
}

func TestCartNegativeDiscountClamped(t *testing.T) {
	sess, svc := cartFixture()
	svc.SetDiscount(domain.Discount{Type: domain.DiscountFixed, Value: -20})
	if sess.Discount.Value != 0 {
		t.Fatalf("negative discount must clamp to 0, got %v", sess.Discount.Value)
	}
}
