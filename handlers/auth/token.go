package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/learnhub-api/handlers"
	"github.com/sahilchouksey/learnhub-api/utils/middleware"
	"github.com/sahilchouksey/learnhub-api/utils/response"
)

// Logout handles POST /api/auth/logout by revoking the presented token
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	err := h.blacklistService.RevokeToken(
		c.UserContext(),
		claims.ID,
		claims.UserID,
		h.jwtManager.ExpiresAt(claims),
		"logout",
	)
	if err != nil {
		return handlers.ServiceError(c, h.log, err)
	}

	return response.Message(c, "Logged out successfully")
}
