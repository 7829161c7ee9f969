package main

import (
	"context"
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"tillpoint/internal/config"
	"tillpoint/internal/http/handlers"
	applog "tillpoint/internal/log"
	"tillpoint/internal/notify"
	"tillpoint/internal/state"
	"tillpoint/internal/store"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	local, err := store.OpenLocal(cfg.LocalDBPath)
	if err != nil {
		log.Fatal(err)
	}

	// The remote store is optional: connection failure degrades to
	// local-only mode, it never stops the till.
	var remote store.Remote
	if cfg.RemoteDBURL != "" {
		pg, err := store.ConnectRemote(context.Background(), cfg.RemoteDBURL)
		if err != nil {
			applog.Warn(nil, "remote.connect.fail", map[string]any{"err": err.Error()})
		} else {
			remote = pg
		}
	}
	adapter := store.NewAdapter(local, remote)

	// Startup read-through: reconcile both stores into the session state.
	sess := state.NewSession()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	products, err := adapter.LoadProducts(ctx)
	if err != nil {
		log.Fatal(err)
	}
	orders, err := adapter.LoadOrders(ctx)
	if err != nil {
		log.Fatal(err)
	}
	cancel()
	sess.Products = products
	sess.Orders = orders

	settings, found, err := adapter.Settings()
	if err != nil {
		log.Fatal(err)
	}
	if !found {
		settings.MerchantName = cfg.MerchantName
	}
	sess.Settings = settings

	notifier := notify.New(cfg.TelegramBotToken, cfg.TelegramChatID)

	// Templates & app
	engine := html.New("./web/templates", ".html")

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			if rerr := c.Status(fiber.StatusInternalServerError).Render("error", fiber.Map{
				"Message": "Something went wrong. Please try again.",
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
			}
			return nil
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Warn(c, "csrf.fail", nil)
			return c.Status(fiber.StatusForbidden).Render("error", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok := c.Locals("csrf"); tok != nil {
			c.Locals("CSRFToken", tok.(string))
		}
		return c.Next()
	})

	// ---------- Routes ----------
	deps := handlers.NewDeps(sess, adapter, notifier)

	// Point of sale
	app.Get("/", deps.POSHandler.View)
	app.Post("/cart", deps.POSHandler.Add)
	app.Post("/cart/qty", deps.POSHandler.SetQuantity)
	app.Post("/cart/remove", deps.POSHandler.Remove)
	app.Post("/cart/clear", deps.POSHandler.Clear)
	app.Post("/cart/customer", deps.POSHandler.SetCustomer)
	app.Post("/cart/discount", deps.POSHandler.SetDiscount)
	app.Post("/checkout", deps.POSHandler.Checkout)

	// Order history
	app.Get("/orders", deps.OrderHandler.History)
	app.Post("/orders/:id/load", deps.OrderHandler.Load)
	app.Post("/orders/:id/delete", deps.OrderHandler.Delete)

	// Catalog
	app.Get("/products", deps.ProductHandler.List)
	app.Post("/products", deps.ProductHandler.Create)
	app.Post("/products/sync", deps.ProductHandler.Sync)
	app.Post("/products/:id", deps.ProductHandler.Update)
	app.Post("/products/:id/delete", deps.ProductHandler.Delete)

	// Analytics & settings
	app.Get("/analytics", deps.AnalyticsHandler.Dashboard)
	app.Get("/settings", deps.SettingsHandler.View)
	app.Post("/settings", deps.SettingsHandler.Update)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("error", fiber.Map{"Message": "Page not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
