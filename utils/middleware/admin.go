package middleware

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/learnhub-api/model"
	"gorm.io/gorm"
)

const auditOldValueKey = "audit_old_value"

// SetAuditOldValue lets a handler hand the record it removed or changed to AdminAuditLog
func SetAuditOldValue(c *fiber.Ctx, v interface{}) {
	c.Locals(auditOldValueKey, v)
}

// AdminAuditLog creates an audit log entry for successful admin actions.
// It must run after AuthMiddleware.Required.
func AdminAuditLog(db *gorm.DB, action, resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		admin, ok := GetUser(c)
		if !ok {
			return c.Next() // Continue without logging if user not found
		}

		// Parse resource ID from params if available
		var resourceID uint
		if id := c.Params("id"); id != "" {
			if parsedID, err := strconv.ParseUint(id, 10, 32); err == nil {
				resourceID = uint(parsedID)
			}
		}

		// Execute the actual handler
		if err := c.Next(); err != nil {
			return err
		}

		status := c.Response().StatusCode()
		if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
			return nil
		}

		auditLog := model.AdminAuditLog{
			AdminID:     admin.ID,
			Action:      action,
			Resource:    resource,
			ResourceID:  resourceID,
			IPAddress:   c.IP(),
			UserAgent:   c.Get(fiber.HeaderUserAgent),
			Description: c.Method() + " " + c.Path(),
		}
		if old := c.Locals(auditOldValueKey); old != nil {
			if raw, err := json.Marshal(old); err == nil {
				auditLog.OldValue = raw
			}
		}

		// The action already succeeded; a failed audit write must not turn it into an error.
		_ = db.WithContext(c.UserContext()).Create(&auditLog).Error
		return nil
	}
}
