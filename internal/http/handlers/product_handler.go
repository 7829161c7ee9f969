package handlers

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"tillpoint/internal/domain"
	applog "tillpoint/internal/log"
	"tillpoint/internal/services"
	"tillpoint/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	return render(c, "products", fiber.Map{
		"Products": h.Catalog.List(),
		"Warn":     c.Query("warn"),
		"Error":    c.Query("err"),
	})
}

func productFromForm(c *fiber.Ctx) (domain.Product, string) {
	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		return domain.Product{}, "name is required"
	}
	code, ok := validate.Code(c.FormValue("code"))
	if !ok {
		return domain.Product{}, "invalid code"
	}
	price, ok := validate.Money(c.FormValue("price"))
	if !ok {
		return domain.Product{}, "invalid price"
	}
	cost, ok := validate.Money(c.FormValue("cost"))
	if !ok {
		return domain.Product{}, "invalid cost"
	}
	stock, ok := validate.Stock(c.FormValue("stock"))
	if !ok {
		return domain.Product{}, "invalid stock"
	}
	return domain.Product{
		Name:        name,
		Code:        code,
		Price:       price,
		Cost:        cost,
		Stock:       stock,
		Category:    c.FormValue("category"),
		Description: c.FormValue("description"),
		Active:      c.FormValue("active") != "0",
	}, ""
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	p, msg := productFromForm(c)
	if msg != "" {
		return c.Redirect("/products?err="+url.QueryEscape(msg), fiber.StatusSeeOther)
	}

	_, err := h.Catalog.Create(c.Context(), p)
	switch {
	case err == nil:
		return c.Redirect("/products")
	case domain.IsSyncWarning(err):
		return c.Redirect("/products?warn="+url.QueryEscape(err.Error()), fiber.StatusSeeOther)
	default:
		applog.Error(c, "product.create.fail", err, map[string]any{"name": p.Name})
		return c.Status(fiber.StatusBadGateway).Render("error", fiber.Map{
			"Message": "Could not save the product. Check the remote database schema.",
		})
	}
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("bad product id")
	}
	p, msg := productFromForm(c)
	if msg != "" {
		return c.Redirect("/products?err="+url.QueryEscape(msg), fiber.StatusSeeOther)
	}
	p.ID = id

	err := h.Catalog.Update(c.Context(), p)
	switch {
	case err == nil:
		return c.Redirect("/products")
	case domain.IsSyncWarning(err):
		return c.Redirect("/products?warn="+url.QueryEscape(err.Error()), fiber.StatusSeeOther)
	case errors.Is(err, domain.ErrRelationMissing):
		return h.relationMissing(c)
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).Render("error", fiber.Map{"Message": "Product not found"})
	default:
		applog.Error(c, "product.update.fail", err, map[string]any{"id": id})
		return c.Status(fiber.StatusBadGateway).Render("error", fiber.Map{
			"Message": "Could not update the product. Check the remote database schema.",
		})
	}
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("bad product id")
	}

	err := h.Catalog.Delete(c.Context(), id)
	switch {
	case err == nil:
		return c.Redirect("/products")
	case domain.IsSyncWarning(err):
		return c.Redirect("/products?warn="+url.QueryEscape(err.Error()), fiber.StatusSeeOther)
	case errors.Is(err, domain.ErrRelationMissing):
		return h.relationMissing(c)
	default:
		return c.Status(fiber.StatusNotFound).Render("error", fiber.Map{"Message": "Product not found"})
	}
}

func (h *ProductHandler) Sync(c *fiber.Ctx) error {
	n, err := h.Catalog.SyncToCloud(c.Context())
	if err != nil {
		return c.Redirect("/products?err="+url.QueryEscape("cloud sync failed: "+err.Error()), fiber.StatusSeeOther)
	}
	applog.Audit(c, "catalog.sync", map[string]any{"confirmed": n})
	return c.Redirect("/products")
}

// relationMissing is a blocking alert: the remote tables are not set up,
// the optimistic change has been reverted.
func (h *ProductHandler) relationMissing(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).Render("error", fiber.Map{
		"Message": "The remote database tables are not ready. Run the migrations (cmd/migrate) against your database.",
	})
}
