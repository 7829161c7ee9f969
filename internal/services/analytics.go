package services

import (
	"sort"
	"strings"

	"tillpoint/internal/state"
)

// AnalyticsService derives the dashboard numbers from order history and
// the catalog. Everything is computed on demand from the session state.
type AnalyticsService struct {
	State *state.Session
}

func NewAnalyticsService(s *state.Session) *AnalyticsService { return &AnalyticsService{State: s} }

type ProductStat struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Qty       int     `json:"qty"`
	Revenue   float64 `json:"revenue"`
	Profit    float64 `json:"profit"`
}

type Summary struct {
	Date           string        `json:"date"`
	Sales          float64       `json:"sales"`
	Profit         float64       `json:"profit"`
	OrderCount     int           `json:"order_count"`
	Margin         float64       `json:"margin"` // percent
	InventoryValue float64       `json:"inventory_value"`
	TopProducts    []ProductStat `json:"top_products"`
}

// Daily summarizes the orders created on the given date (YYYY-MM-DD).
func (a *AnalyticsService) Daily(date string) Summary {
	a.State.Lock()
	orders := a.State.OrdersSnapshot()
	products := a.State.ProductsSnapshot()
	a.State.Unlock()

	sum := Summary{Date: date}
	stats := map[int64]*ProductStat{}

	for _, o := range orders {
		if !strings.HasPrefix(o.CreatedAt, date) {
			continue
		}
		sum.Sales += o.Total
		sum.Profit += o.TotalProfit
		sum.OrderCount++

		for _, it := range o.Items {
			st, ok := stats[it.ProductID]
			if !ok {
				st = &ProductStat{ProductID: it.ProductID, Name: it.Name}
				stats[it.ProductID] = st
			}
			st.Qty += it.Quantity
			st.Revenue += it.Total
			st.Profit += (it.Price - it.Cost) * float64(it.Quantity)
		}
	}

	if sum.Sales > 0 {
		sum.Margin = sum.Profit / sum.Sales * 100
	}
	for _, p := range products {
		sum.InventoryValue += float64(p.Stock) * p.Cost
	}

	top := make([]ProductStat, 0, len(stats))
	for _, st := range stats {
		top = append(top, *st)
	}
	sort.Slice(top, func(i, j int) bool { return top[i].Profit > top[j].Profit })
	if len(top) > 5 {
		top = top[:5]
	}
	sum.TopProducts = top
	return sum
}
