package admin

import (
	"github.com/sahilchouksey/learnhub-api/services"
	"github.com/sahilchouksey/learnhub-api/utils"
)

// AdminHandler handles the admin-only management endpoints
type AdminHandler struct {
	users     *services.UserService
	courses   *services.CourseService
	analytics *services.AnalyticsService
	audit     *services.AuditService
	log       *utils.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	users *services.UserService,
	courses *services.CourseService,
	analytics *services.AnalyticsService,
	audit *services.AuditService,
	log *utils.Logger,
) *AdminHandler {
	return &AdminHandler{
		users:     users,
		courses:   courses,
		analytics: analytics,
		audit:     audit,
		log:       log,
	}
}
