package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/learnhub-api/handlers"
	"github.com/sahilchouksey/learnhub-api/utils/middleware"
	"github.com/sahilchouksey/learnhub-api/utils/response"
)

// ListUsers retrieves every user. Password data is never serialised.
// GET /api/admin/users
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return handlers.ServiceError(c, h.log, err)
	}
	return response.Success(c, users)
}

// DeleteUser removes a user and their learning history
// DELETE /api/admin/users/:id
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}

	if callerID, _ := middleware.GetUserID(c); callerID == id {
		return response.Conflict(c, "You cannot delete your own account")
	}

	ctx := c.UserContext()
	deleted, err := h.users.Delete(ctx, id)
	if err != nil {
		return handlers.ServiceError(c, h.log, err)
	}

	middleware.SetAuditOldValue(c, deleted)
	h.analytics.InvalidateStats(ctx)
	h.log.Info("user deleted by admin", "user_id", id)
	return response.Message(c, "User deleted successfully")
}
