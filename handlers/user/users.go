package user

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/learnhub-api/handlers"
	"github.com/sahilchouksey/learnhub-api/services"
	"github.com/sahilchouksey/learnhub-api/utils"
	"github.com/sahilchouksey/learnhub-api/utils/middleware"
	"github.com/sahilchouksey/learnhub-api/utils/response"
)

// UserHandler serves the caller's own learning data
type UserHandler struct {
	progress   *services.ProgressService
	enrollment *services.EnrollmentService
	log        *utils.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(progress *services.ProgressService, enrollment *services.EnrollmentService, log *utils.Logger) *UserHandler {
	return &UserHandler{
		progress:   progress,
		enrollment: enrollment,
		log:        log,
	}
}

// GetProgress handles GET /api/users/progress
func (h *UserHandler) GetProgress(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	progress, err := h.progress.Progress(c.UserContext(), userID)
	if err != nil {
		return handlers.ServiceError(c, h.log, err)
	}
	return response.Success(c, progress)
}

// GetEnrolledCourses handles GET /api/users/courses
func (h *UserHandler) GetEnrolledCourses(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	courses, err := h.enrollment.EnrolledCourses(c.UserContext(), userID)
	if err != nil {
		return handlers.ServiceError(c, h.log, err)
	}
	return response.Success(c, courses)
}
