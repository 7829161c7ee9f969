package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"tillpoint/internal/domain"
	applog "tillpoint/internal/log"
	"tillpoint/internal/services"
	"tillpoint/internal/validate"
)

type OrderHandler struct {
	Order *services.OrderService
}

func (h *OrderHandler) History(c *fiber.Ctx) error {
	return render(c, "orders", fiber.Map{
		"Orders": h.Order.History(),
		"Warn":   c.Query("warn"),
	})
}

// Load replaces the open cart with an order's snapshot. Destructive to the
// current cart; the page asks for confirmation before posting here.
func (h *OrderHandler) Load(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("bad order id")
	}
	if err := h.Order.Load(id); err != nil {
		return c.Status(fiber.StatusNotFound).Render("error", fiber.Map{"Message": "Order not found"})
	}
	applog.Audit(c, "order.load", map[string]any{"order_id": id})
	return c.Redirect("/")
}

func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("bad order id")
	}

	err := h.Order.Delete(c.Context(), id)
	if err != nil {
		if domain.IsSyncWarning(err) {
			// removal stands; surface the sync issue without blocking
			return c.Redirect("/orders?warn="+url.QueryEscape(err.Error()), fiber.StatusSeeOther)
		}
		return c.Status(fiber.StatusNotFound).Render("error", fiber.Map{"Message": "Order not found"})
	}
	applog.Audit(c, "order.delete", map[string]any{"order_id": id})
	return c.Redirect("/orders")
}
