package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/learnhub-api/handlers"
	"github.com/sahilchouksey/learnhub-api/model"
	"github.com/sahilchouksey/learnhub-api/services"
	"github.com/sahilchouksey/learnhub-api/utils/response"
)

// ListAuditLogs retrieves admin audit logs with pagination
// GET /api/admin/audit-logs
func (h *AdminHandler) ListAuditLogs(c *fiber.Ctx) error {
	page, limit := response.NormalizePage(c.QueryInt("page", 1), c.QueryInt("limit", response.DefaultLimit))

	filter := services.AuditLogFilter{
		Action:   c.Query("action"),
		Resource: c.Query("resource"),
	}
	if adminID := c.QueryInt("adminId"); adminID > 0 {
		filter.AdminID = uint(adminID)
	}

	pagination := response.PaginationMeta{CurrentPage: page, PerPage: limit}
	logs, total, err := h.audit.ListAuditLogs(c.UserContext(), filter, pagination.Offset(), limit)
	if err != nil {
		return handlers.ServiceError(c, h.log, err)
	}

	return response.Paginated(c, logs, response.CalculatePagination(page, limit, total))
}

// GetAuditLog retrieves a specific audit log entry
// GET /api/admin/audit-logs/:id
func (h *AdminHandler) GetAuditLog(c *fiber.Ctx) error {
	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid log ID")
	}

	entry, err := h.audit.GetAuditLog(c.UserContext(), id)
	if err != nil {
		return handlers.ServiceError(c, h.log, err)
	}

	return response.Success(c, entry)
}

// ListCronLogs retrieves background job runs, newest first
// GET /api/admin/cron-logs
func (h *AdminHandler) ListCronLogs(c *fiber.Ctx) error {
	page, limit := response.NormalizePage(c.QueryInt("page", 1), c.QueryInt("limit", response.DefaultLimit))

	filter := services.CronLogFilter{
		Job:    c.Query("job"),
		Status: model.CronJobStatus(c.Query("status")),
	}

	pagination := response.PaginationMeta{CurrentPage: page, PerPage: limit}
	logs, total, err := h.audit.ListCronLogs(c.UserContext(), filter, pagination.Offset(), limit)
	if err != nil {
		return handlers.ServiceError(c, h.log, err)
	}

	return response.Paginated(c, logs, response.CalculatePagination(page, limit, total))
}
