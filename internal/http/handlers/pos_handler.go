package handlers

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"tillpoint/internal/domain"
	applog "tillpoint/internal/log"
	"tillpoint/internal/services"
	"tillpoint/internal/validate"
)

// POSHandler drives the point-of-sale tab: cart mutations and checkout.
type POSHandler struct {
	Cart     *services.CartService
	Order    *services.OrderService
	Catalog  *services.CatalogService
	Settings *services.SettingsService
}

// ensureSID tags the browser with a session cookie so audit log lines can
// be correlated. Till state itself is process-wide.
func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{Name: "sid", Value: sid, Path: "/", HTTPOnly: true})
	}
	return sid
}

func (h *POSHandler) View(c *fiber.Ctx) error {
	ensureSID(c)
	cv := h.Cart.View()
	return render(c, "pos", fiber.Map{
		"Products": h.Catalog.List(),
		"Cart":     cv,
		"Warn":     c.Query("warn"),
		"Error":    c.Query("err"),
	})
}

func (h *POSHandler) Add(c *fiber.Ctx) error {
	id, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	if err := h.Cart.Add(id); err != nil {
		return c.Status(fiber.StatusNotFound).SendString("unknown product")
	}
	return c.Redirect("/")
}

func (h *POSHandler) SetQuantity(c *fiber.Ctx) error {
	id, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	qty := validate.Qty(c.FormValue("qty"))
	if err := h.Cart.SetQuantity(id, qty); err != nil {
		return c.Status(fiber.StatusNotFound).SendString("not in cart")
	}
	return c.Redirect("/")
}

func (h *POSHandler) Remove(c *fiber.Ctx) error {
	if id, ok := validate.ID(c.FormValue("productId")); ok {
		h.Cart.Remove(id)
	}
	return c.Redirect("/")
}

func (h *POSHandler) Clear(c *fiber.Ctx) error {
	h.Cart.Clear()
	return c.Redirect("/")
}

func (h *POSHandler) SetCustomer(c *fiber.Ctx) error {
	phone, ok := validate.Phone(c.FormValue("phone"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("invalid phone")
	}
	h.Cart.SetCustomer(domain.Customer{Name: c.FormValue("name"), Phone: phone})
	return c.Redirect("/")
}

func (h *POSHandler) SetDiscount(c *fiber.Ctx) error {
	typ, ok := validate.DiscountType(c.FormValue("type"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("invalid discount type")
	}
	value, ok := validate.Money(c.FormValue("value"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("invalid discount value")
	}
	h.Cart.SetDiscount(domain.Discount{Type: typ, Value: value})
	return c.Redirect("/")
}

func (h *POSHandler) Checkout(c *fiber.Ctx) error {
	method := validate.PaymentMethod(c.FormValue("paymentMethod"))

	order, err := h.Order.Checkout(c.Context(), method)
	if err != nil {
		var ins *domain.InsufficientStockError
		if errors.As(err, &ins) {
			applog.Warn(c, "checkout.rejected", map[string]any{"product": ins.Name, "available": ins.Available})
			return c.Redirect("/?err="+url.QueryEscape(ins.Error()), fiber.StatusSeeOther)
		}
		if errors.Is(err, domain.ErrCartEmpty) {
			return c.Redirect("/?err="+url.QueryEscape("cart is empty"), fiber.StatusSeeOther)
		}
		applog.Error(c, "checkout.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).SendString("checkout failed")
	}

	st := h.Settings.Get()
	return render(c, "receipt", fiber.Map{"Order": order, "Settings": st})
}
