package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/learnhub-api/handlers"
	"github.com/sahilchouksey/learnhub-api/utils/response"
)

// GetStats retrieves platform-wide counts
// GET /api/admin/stats
func (h *AdminHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.analytics.GetPlatformStats(c.UserContext())
	if err != nil {
		return handlers.ServiceError(c, h.log, err)
	}
	return response.Success(c, stats)
}
