package handlers

import (
	"tillpoint/internal/notify"
	"tillpoint/internal/services"
	"tillpoint/internal/state"
	"tillpoint/internal/store"
)

type Deps struct {
	POSHandler       *POSHandler
	OrderHandler     *OrderHandler
	ProductHandler   *ProductHandler
	AnalyticsHandler *AnalyticsHandler
	SettingsHandler  *SettingsHandler
}

func NewDeps(sess *state.Session, adapter *store.Adapter, notifier *notify.Notifier) *Deps {
	cartSvc := services.NewCartService(sess)
	orderSvc := services.NewOrderService(sess, adapter, notifier)
	catalogSvc := services.NewCatalogService(sess, adapter)
	analyticsSvc := services.NewAnalyticsService(sess)
	settingsSvc := services.NewSettingsService(sess, adapter)

	return &Deps{
		POSHandler:       &POSHandler{Cart: cartSvc, Order: orderSvc, Catalog: catalogSvc, Settings: settingsSvc},
		OrderHandler:     &OrderHandler{Order: orderSvc},
		ProductHandler:   &ProductHandler{Catalog: catalogSvc},
		AnalyticsHandler: &AnalyticsHandler{Analytics: analyticsSvc},
		SettingsHandler:  &SettingsHandler{Settings: settingsSvc},
	}
}
