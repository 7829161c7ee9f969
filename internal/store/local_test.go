package store

import (
	"testing"

	"tillpoint/internal/domain"
)

func memlocal(t *testing.T) *Local {
	t.Helper()
	l, err := OpenLocal(":memory:")
	if err != nil {
		t.Fatalf("open local: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func TestLocalEmptyReads(t *testing.T) {
	l := memlocal(t)

	products, err := l.Products()
	if err != nil {
		t.Fatalf("products: %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("expected empty catalog, got %d", len(products))
	}

	orders, err := l.Orders()
	if err != nil {
		t.Fatalf("orders: %v", err)
	}
	if len(orders) != 0 {
		t.Fatalf("expected empty history, got %d", len(orders))
	}

	_, found, err := l.Settings()
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if found {
		t.Fatal("expected no settings before first save")
	}
}

func TestLocalProductsRoundTrip(t *testing.T) {
	l := memlocal(t)

	in := []domain.Product{
		{ID: 1, Name: "Rice 5kg", Code: "RCE-5", Price: 120, Cost: 95, Stock: 8, Active: true, Sync: domain.SyncConfirmed},
		{ID: 1756700000000, Name: "Sugar", Price: 30, Cost: 22, Stock: 40, Active: true, Sync: domain.SyncTentative},
	}
	if err := l.SaveProducts(in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := l.Products()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 products, got %d", len(out))
	}
	if out[0] != in[0] || out[1] != in[1] {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestLocalSaveIsWholesale(t *testing.T) {
	l := memlocal(t)

	if err := l.SaveProducts([]domain.Product{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := l.SaveProducts([]domain.Product{{ID: 3, Name: "C"}}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	out, err := l.Products()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 1 || out[0].ID != 3 {
		t.Fatalf("second save should replace the collection, got %+v", out)
	}
}

func TestLocalOrdersRoundTrip(t *testing.T) {
	l := memlocal(t)

	in := []domain.Order{{
		ID:        42,
		CreatedAt: "2026-09-01T10:00:00Z",
		Items: []domain.CartLine{
			{ProductID: 1, Name: "Rice 5kg", Price: 120, Cost: 95, Quantity: 2, Total: 240},
		},
		Customer:      domain.Customer{Name: "Mona", Phone: "0100000000"},
		Discount:      domain.Discount{Type: domain.DiscountFixed, Value: 10},
		PaymentMethod: "Cash",
		Subtotal:      240, DiscountAmount: 10, Total: 230, TotalProfit: 40,
		Sync: domain.SyncConfirmed,
	}}
	if err := l.SaveOrders(in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := l.Orders()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 order, got %d", len(out))
	}
	got := out[0]
	if got.ID != 42 || got.Total != 230 || got.Customer.Name != "Mona" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if len(got.Items) != 1 || got.Items[0].Total != 240 {
		t.Fatalf("items mismatch: %+v", got.Items)
	}
}

func TestLocalSettingsRoundTrip(t *testing.T) {
	l := memlocal(t)

	in := domain.Settings{
		MerchantName:     "Al Rawda Trading",
		MerchantPhone:    "0111111111",
		TelegramBotToken: "123:abc",
		TelegramChatID:   "-100",
	}
	if err := l.SaveSettings(in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, found, err := l.Settings()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !found {
		t.Fatal("expected settings to be found after save")
	}
	if out != in {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}
