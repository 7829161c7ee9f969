package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"tillpoint/internal/domain"
	applog "tillpoint/internal/log"
	"tillpoint/internal/services"
	"tillpoint/internal/validate"
)

type SettingsHandler struct {
	Settings *services.SettingsService
}

func (h *SettingsHandler) View(c *fiber.Ctx) error {
	return render(c, "settings", fiber.Map{
		"Settings": h.Settings.Get(),
		"Saved":    c.Query("saved") == "1",
		"Error":    c.Query("err"),
	})
}

func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	phone, ok := validate.Phone(c.FormValue("merchantPhone"))
	if !ok {
		return c.Redirect("/settings?err="+url.QueryEscape("invalid phone"), fiber.StatusSeeOther)
	}

	st := domain.Settings{
		MerchantName:     c.FormValue("merchantName"),
		MerchantPhone:    phone,
		TelegramBotToken: c.FormValue("telegramBotToken"),
		TelegramChatID:   c.FormValue("telegramChatId"),
	}
	if err := h.Settings.Update(st); err != nil {
		applog.Error(c, "settings.update.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("error", fiber.Map{
			"Message": "Could not save settings",
		})
	}
	return c.Redirect("/settings?saved=1")
}
