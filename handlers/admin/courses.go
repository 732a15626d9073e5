package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/learnhub-api/handlers"
	"github.com/sahilchouksey/learnhub-api/utils/middleware"
	"github.com/sahilchouksey/learnhub-api/utils/response"
)

// ListCourses retrieves every course, published or not
// GET /api/admin/courses
func (h *AdminHandler) ListCourses(c *fiber.Ctx) error {
	courses, err := h.courses.ListAll(c.UserContext())
	if err != nil {
		return handlers.ServiceError(c, h.log, err)
	}
	return response.Success(c, courses)
}

// DeleteCourse removes any course with its lessons, quizzes and progress
// DELETE /api/admin/courses/:id
func (h *AdminHandler) DeleteCourse(c *fiber.Ctx) error {
	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid course ID")
	}

	ctx := c.UserContext()
	deleted, err := h.courses.DeleteAny(ctx, id)
	if err != nil {
		return handlers.ServiceError(c, h.log, err)
	}

	middleware.SetAuditOldValue(c, deleted)
	h.analytics.InvalidateStats(ctx)
	h.log.Info("course deleted by admin", "course_id", id)
	return response.Message(c, "Course deleted successfully")
}
