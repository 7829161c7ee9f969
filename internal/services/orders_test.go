package services

import (
	"context"
	"errors"
	"testing"

	"tillpoint/internal/domain"
	"tillpoint/internal/notify"
	"tillpoint/internal/state"
	"tillpoint/internal/store"
)

// fakeRemote satisfies store.Remote with per-method hooks. Unset hooks
// report the remote as unreachable.
type fakeRemote struct {
	productsFn      func(ctx context.Context) ([]domain.Product, error)
	insertProductFn func(ctx context.Context, p domain.Product, coreOnly bool) (domain.Product, error)
	updateProductFn func(ctx context.Context, p domain.Product, coreOnly bool) error
	updateStockFn   func(ctx context.Context, id int64, stock int) error
	deleteProductFn func(ctx context.Context, id int64) error
	ordersFn        func(ctx context.Context, limit int) ([]domain.Order, error)
	insertOrderFn   func(ctx context.Context, o domain.Order) (int64, string, error)
	deleteOrderFn   func(ctx context.Context, id int64) error
}

func (f *fakeRemote) Products(ctx context.Context) ([]domain.Product, error) {
	if f.productsFn == nil {
		return nil, domain.ErrRemoteUnavailable
	}
	return f.productsFn(ctx)
}

func (f *fakeRemote) InsertProduct(ctx context.Context, p domain.Product, coreOnly bool) (domain.Product, error) {
	if f.insertProductFn == nil {
		return domain.Product{}, domain.ErrRemoteUnavailable
	}
	return f.insertProductFn(ctx, p, coreOnly)
}

func (f *fakeRemote) UpdateProduct(ctx context.Context, p domain.Product, coreOnly bool) error {
	if f.updateProductFn == nil {
		return domain.ErrRemoteUnavailable
	}
	return f.updateProductFn(ctx, p, coreOnly)
}

func (f *fakeRemote) UpdateStock(ctx context.Context, id int64, stock int) error {
	if f.updateStockFn == nil {
		return domain.ErrRemoteUnavailable
	}
	return f.updateStockFn(ctx, id, stock)
}

func (f *fakeRemote) DeleteProduct(ctx context.Context, id int64) error {
	if f.deleteProductFn == nil {
		return domain.ErrRemoteUnavailable
	}
	return f.deleteProductFn(ctx, id)
}

func (f *fakeRemote) Orders(ctx context.Context, limit int) ([]domain.Order, error) {
	if f.ordersFn == nil {
		return nil, domain.ErrRemoteUnavailable
	}
	return f.ordersFn(ctx, limit)
}

func (f *fakeRemote) InsertOrder(ctx context.Context, o domain.Order) (int64, string, error) {
	if f.insertOrderFn == nil {
		return 0, "", domain.ErrRemoteUnavailable
	}
	return f.insertOrderFn(ctx, o)
}

func (f *fakeRemote) DeleteOrder(ctx context.Context, id int64) error {
	if f.deleteOrderFn == nil {
		return domain.ErrRemoteUnavailable
	}
	return f.deleteOrderFn(ctx, id)
}

// testTill assembles a session, an adapter over an in-memory local store,
// and a notifier with no credentials (so nothing is ever sent).
func testTill(t *testing.T, remote store.Remote) (*state.Session, *OrderService) {
	t.Helper()
	local, err := store.OpenLocal(":memory:")
	if err != nil {
		t.Fatalf("open local: %v", err)
	}
	t.Cleanup(func() { local.Close() })

	sess := state.NewSession()
	sess.Products = []domain.Product{
		{ID: 1, Name: "Rice 5kg", Price: 100, Cost: 70, Stock: 10, Active: true, Sync: domain.SyncConfirmed},
		{ID: 2, Name: "Sugar", Price: 30, Cost: 22, Stock: 3, Active: true, Sync: domain.SyncConfirmed},
	}
	svc := NewOrderService(sess, store.NewAdapter(local, remote), notify.New("", ""))
	return sess, svc
}

func addToCart(sess *state.Session, productID int64, qty int) {
	for _, p := range sess.Products {
		if p.ID == productID {
			sess.Cart = append(sess.Cart, domain.CartLine{
				ProductID: p.ID, Name: p.Name, Price: p.Price, Cost: p.Cost,
				Quantity: qty, Total: float64(qty) * p.Price,
			})
			return
		}
	}
}

func TestCheckoutCommitsOrder(t *testing.T) {
	sess, svc := testTill(t, nil)
	addToCart(sess, 1, 2)
	sess.Customer = domain.Customer{Name: "Mona"}
	sess.Discount = domain.Discount{Type: domain.DiscountFixed, Value: 50}

	order, err := svc.Checkout(context.Background(), "Cash")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if order.Subtotal != 200 || order.DiscountAmount != 50 || order.Total != 150 {
		t.Fatalf("pricing mismatch: %+v", order)
	}
	if order.TotalProfit != 10 { // (100-70)*2 - 50
		t.Fatalf("expected profit 10, got %v", order.TotalProfit)
	}
	if order.ID == 0 || order.Sync != domain.SyncTentative {
		t.Fatalf("expected a tentative order under a temp id, got %+v", order)
	}
	if order.Customer.Name != "Mona" || order.PaymentMethod != "Cash" {
		t.Fatalf("order snapshot mismatch: %+v", order)
	}

	if sess.Products[0].Stock != 8 {
		t.Fatalf("expected stock deducted to 8, got %d", sess.Products[0].Stock)
	}
	if len(sess.Cart) != 0 || sess.Customer.Name != "" || sess.Discount.Value != 0 {
		t.Fatal("checkout must reset cart, customer, and discount")
	}
	if len(sess.Orders) != 1 || sess.Orders[0].ID != order.ID {
		t.Fatalf("expected the order prepended to history, got %+v", sess.Orders)
	}

	stored, err := svc.Store.Local.Orders()
	if err != nil {
		t.Fatalf("local orders: %v", err)
	}
	if len(stored) != 1 || stored[0].ID != order.ID {
		t.Fatalf("expected the order persisted locally, got %+v", stored)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	_, svc := testTill(t, nil)
	if _, err := svc.Checkout(context.Background(), "Cash"); !errors.Is(err, domain.ErrCartEmpty) {
		t.Fatalf("expected ErrCartEmpty, got %v", err)
	}
}

func TestCheckoutInsufficientStockChangesNothing(t *testing.T) {
	sess, svc := testTill(t, nil)
	addToCart(sess, 2, 5) // Sugar has only 3

	_, err := svc.Checkout(context.Background(), "Cash")
	var ise *domain.InsufficientStockError
	if !errors.As(err, &ise) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if ise.Name != "Sugar" || ise.Available != 3 {
		t.Fatalf("wrong shortfall reported: %+v", ise)
	}

	if sess.Products[1].Stock != 3 {
		t.Fatalf("rejected checkout must not touch stock, got %d", sess.Products[1].Stock)
	}
	if len(sess.Cart) != 1 || len(sess.Orders) != 0 {
		t.Fatal("rejected checkout must leave cart and history untouched")
	}
}

func TestCheckoutRemoteConfirmsIdentity(t *testing.T) {
	var stockUpdates []int64
	remote := &fakeRemote{
		updateStockFn: func(_ context.Context, id int64, _ int) error {
			stockUpdates = append(stockUpdates, id)
			return nil
		},
		insertOrderFn: func(_ context.Context, _ domain.Order) (int64, string, error) {
			return 501, "2026-09-01T10:00:00Z", nil
		},
	}
	sess, svc := testTill(t, remote)
	addToCart(sess, 1, 1)

	order, err := svc.Checkout(context.Background(), "InstaPay")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if order.ID != 501 || order.Sync != domain.SyncConfirmed {
		t.Fatalf("expected the remote identity, got %+v", order)
	}
	if len(stockUpdates) != 1 || stockUpdates[0] != 1 {
		t.Fatalf("expected one stock update for product 1, got %v", stockUpdates)
	}
	if sess.Orders[0].ID != 501 {
		t.Fatalf("history must carry the reconciled id, got %+v", sess.Orders[0])
	}
}

func TestCheckoutRemoteDownKeepsOrderTentative(t *testing.T) {
	sess, svc := testTill(t, &fakeRemote{})
	addToCart(sess, 1, 1)

	order, err := svc.Checkout(context.Background(), "Cash")
	if err != nil {
		t.Fatalf("checkout must not fail on remote trouble: %v", err)
	}
	if order.Sync != domain.SyncTentative {
		t.Fatalf("expected the order to stay tentative, got %+v", order)
	}
	if len(sess.Orders) != 1 {
		t.Fatal("the order must be kept locally")
	}
	if sess.Products[0].Stock != 9 {
		t.Fatalf("local stock deduction must stand, got %d", sess.Products[0].Stock)
	}
}

func TestLoadOrderReplacesCart(t *testing.T) {
	sess, svc := testTill(t, nil)
	addToCart(sess, 2, 1) // stale cart content
	sess.Orders = []domain.Order{{
		ID: 42,
		Items: []domain.CartLine{
			{ProductID: 1, Name: "Rice 5kg", Price: 100, Cost: 70, Quantity: 3, Total: 300},
		},
		Customer: domain.Customer{Name: "Adel", Phone: "0120000000"},
		Discount: domain.Discount{Type: domain.DiscountPercent, Value: 10},
	}}

	if err := svc.Load(42); err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(sess.Cart) != 1 || sess.Cart[0].ProductID != 1 || sess.Cart[0].Quantity != 3 {
		t.Fatalf("cart must be replaced wholesale, got %+v", sess.Cart)
	}
	if sess.Customer.Name != "Adel" || sess.Discount.Type != domain.DiscountPercent {
		t.Fatal("customer and discount must come from the order snapshot")
	}

	if err := svc.Load(999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteOrderKeepsRemovalOnRemoteFailure(t *testing.T) {
	sess, svc := testTill(t, &fakeRemote{})
	sess.Orders = []domain.Order{{ID: 42, Total: 100}, {ID: 43, Total: 50}}

	err := svc.Delete(context.Background(), 42)
	if !domain.IsSyncWarning(err) {
		t.Fatalf("expected a sync warning, got %v", err)
	}
	if len(sess.Orders) != 1 || sess.Orders[0].ID != 43 {
		t.Fatalf("the removal must stand despite the warning, got %+v", sess.Orders)
	}

	stored, serr := svc.Store.Local.Orders()
	if serr != nil {
		t.Fatalf("local orders: %v", serr)
	}
	if len(stored) != 1 || stored[0].ID != 43 {
		t.Fatalf("the removal must be persisted locally, got %+v", stored)
	}
}

func TestDeleteOrderNotFound(t *testing.T) {
	_, svc := testTill(t, nil)
	if err := svc.Delete(context.Background(), 7); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
