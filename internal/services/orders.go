package services

import (
	"context"
	"time"

	"tillpoint/internal/domain"
	"tillpoint/internal/inventory"
	applog "tillpoint/internal/log"
	"tillpoint/internal/notify"
	"tillpoint/internal/pricing"
	"tillpoint/internal/state"
	"tillpoint/internal/store"
)

// OrderService runs the checkout lifecycle and manages order history.
type OrderService struct {
	State  *state.Session
	Store  *store.Adapter
	Notify *notify.Notifier
}

func NewOrderService(s *state.Session, a *store.Adapter, n *notify.Notifier) *OrderService {
	return &OrderService{State: s, Store: a, Notify: n}
}

// Checkout validates stock, prices the cart, deducts inventory, commits the
// order optimistically, and reconciles identity with the remote store.
// A stock shortfall rejects the checkout with no state mutated. Remote
// failures after the commit never roll it back; the order is kept locally
// under its temporary identity.
func (o *OrderService) Checkout(ctx context.Context, paymentMethod string) (domain.Order, error) {
	// Validate, price, and commit under the lock so two rapid checkouts
	// cannot deduct from the same stock snapshot.
	o.State.Lock()

	lines := o.State.CartSnapshot()
	if len(lines) == 0 {
		o.State.Unlock()
		return domain.Order{}, domain.ErrCartEmpty
	}
	if err := inventory.ValidateStock(lines, o.State.Products); err != nil {
		o.State.Unlock()
		return domain.Order{}, err
	}

	totals := pricing.Calculate(lines, o.State.Discount)
	profit := pricing.Profit(lines, totals.DiscountAmount)

	o.State.Products = inventory.Deduct(lines, o.State.Products)
	affected := inventory.Affected(lines, o.State.Products)

	order := domain.Order{
		ID:             time.Now().UnixMilli(),
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
		Items:          lines,
		Customer:       o.State.Customer,
		Discount:       o.State.Discount,
		PaymentMethod:  paymentMethod,
		Subtotal:       totals.Subtotal,
		DiscountAmount: totals.DiscountAmount,
		Total:          totals.Total,
		TotalProfit:    profit,
		Sync:           domain.SyncTentative,
	}
	o.State.Orders = append([]domain.Order{order}, o.State.Orders...)
	o.State.ResetCart()

	settings := o.State.Settings
	products := o.State.ProductsSnapshot()
	orders := o.State.OrdersSnapshot()
	o.State.Unlock()

	o.Notify.OrderCreated(settings, order)

	if err := o.Store.Local.SaveProducts(products); err != nil {
		applog.Error(nil, "checkout.local.products", err, nil)
	}

	// Remote writes are sequential, not one transaction: a drop between the
	// stock updates and the order insert is an accepted consistency window.
	if err := o.Store.DeductStock(ctx, affected); err != nil {
		applog.Warn(nil, "checkout.stock.sync", map[string]any{"err": err.Error()})
	}

	saved, err := o.Store.SaveOrder(ctx, order)
	if err != nil {
		applog.Warn(nil, "checkout.order.sync", map[string]any{"err": err.Error()})
	}

	o.State.Lock()
	if i := o.State.OrderIndex(order.ID); i >= 0 {
		o.State.Orders[i] = saved
	}
	orders = o.State.OrdersSnapshot()
	o.State.Unlock()

	if err := o.Store.Local.SaveOrders(orders); err != nil {
		applog.Error(nil, "checkout.local.orders", err, nil)
	}

	applog.Audit(nil, "order.place", map[string]any{
		"order_id": saved.ID,
		"total":    saved.Total,
		"sync":     string(saved.Sync),
	})
	return saved, nil
}

// Load replaces the current cart, customer, and discount wholesale with an
// order's snapshot. Destructive: the caller confirms before invoking.
func (o *OrderService) Load(id int64) error {
	o.State.Lock()
	defer o.State.Unlock()

	i := o.State.OrderIndex(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	ord := o.State.Orders[i]

	lines := make([]domain.CartLine, len(ord.Items))
	copy(lines, ord.Items)
	o.State.Cart = lines
	o.State.Customer = ord.Customer
	o.State.Discount = ord.Discount
	return nil
}

// Delete removes an order from history. The removal is never reverted:
// remote failures only surface a sync warning, the local store stays
// authoritative for history retention.
func (o *OrderService) Delete(ctx context.Context, id int64) error {
	o.State.Lock()
	i := o.State.OrderIndex(id)
	if i < 0 {
		o.State.Unlock()
		return domain.ErrNotFound
	}
	removed := o.State.Orders[i]
	o.State.Orders = append(o.State.Orders[:i], o.State.Orders[i+1:]...)
	settings := o.State.Settings
	orders := o.State.OrdersSnapshot()
	o.State.Unlock()

	o.Notify.OrderDeleted(settings, removed)

	if err := o.Store.Local.SaveOrders(orders); err != nil {
		applog.Error(nil, "order.delete.local", err, nil)
	}
	if err := o.Store.DeleteOrder(ctx, id); err != nil {
		applog.Warn(nil, "order.delete.sync", map[string]any{"order_id": id, "err": err.Error()})
		return err
	}
	return nil
}

// History returns the order list, newest first.
func (o *OrderService) History() []domain.Order {
	o.State.Lock()
	defer o.State.Unlock()
	return o.State.OrdersSnapshot()
}

func (o *OrderService) Get(id int64) (domain.Order, error) {
	o.State.Lock()
	defer o.State.Unlock()
	if i := o.State.OrderIndex(id); i >= 0 {
		return o.State.Orders[i], nil
	}
	return domain.Order{}, domain.ErrNotFound
}
