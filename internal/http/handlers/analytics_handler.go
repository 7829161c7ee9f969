package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"tillpoint/internal/services"
)

type AnalyticsHandler struct {
	Analytics *services.AnalyticsService
}

func (h *AnalyticsHandler) Dashboard(c *fiber.Ctx) error {
	date := c.Query("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		date = time.Now().UTC().Format("2006-01-02")
	}
	return render(c, "analytics", fiber.Map{"Summary": h.Analytics.Daily(date)})
}
