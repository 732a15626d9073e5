package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/learnhub-api/database"
	"github.com/sahilchouksey/learnhub-api/services"
	"github.com/sahilchouksey/learnhub-api/utils"
	"github.com/sahilchouksey/learnhub-api/utils/auth"
	"github.com/sahilchouksey/learnhub-api/utils/response"
)

// MakeHTTPHandleFunc adapts a store-aware handler to a fiber.Handler.
// Returned errors go through ServiceError so they are classified and logged.
func MakeHTTPHandleFunc(handler func(c *fiber.Ctx, store database.Storage) error, store database.Storage, log *utils.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := handler(c, store); err != nil {
			return ServiceError(c, log, err)
		}
		return nil
	}
}

// HandleCheckHealth handles GET /ping
func HandleCheckHealth(c *fiber.Ctx, store database.Storage) error {
	if err := store.HealthCheck(); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// ParamID reads a positive integer route parameter
func ParamID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// ServiceError maps a service error onto the error envelope.
// Anything unrecognised is logged and reported as an opaque 500.
func ServiceError(c *fiber.Ctx, log *utils.Logger, err error) error {
	switch {
	case errors.Is(err, services.ErrStoreUnavailable):
		log.Warn("store unavailable", "path", c.Path(), "request_id", c.Locals("requestid"), "error", err)
		return response.ServiceUnavailable(c, "")

	case errors.Is(err, services.ErrUserNotFound):
		return response.NotFound(c, "User not found")
	case errors.Is(err, services.ErrCourseNotFound):
		return response.NotFound(c, "Course not found")
	case errors.Is(err, services.ErrLessonNotFound):
		return response.NotFound(c, "Lesson not found")
	case errors.Is(err, services.ErrQuizNotFound):
		return response.NotFound(c, "Quiz not found")
	case errors.Is(err, services.ErrAuditLogNotFound):
		return response.NotFound(c, "Audit log not found")

	case errors.Is(err, services.ErrNotCourseOwner):
		return response.Forbidden(c, "You are not the instructor of this course")

	case errors.Is(err, services.ErrEmailTaken):
		return response.AlreadyExists(c, "User already exists")
	case errors.Is(err, services.ErrQuizExists):
		return response.AlreadyExists(c, "Quiz already exists for this lesson")
	case errors.Is(err, services.ErrAlreadyEnrolled):
		return response.Conflict(c, "Already enrolled")
	case errors.Is(err, services.ErrInstructorOwns):
		return response.Conflict(c, "User still owns courses; delete them first")

	case errors.Is(err, services.ErrInvalidCredentials):
		return response.BadRequest(c, "Invalid credentials")
	case errors.Is(err, services.ErrInvalidRole):
		return response.BadRequest(c, "Invalid role")
	case errors.Is(err, services.ErrNoQuestions):
		return response.BadRequest(c, "At least one question is required")
	case errors.Is(err, auth.ErrPasswordTooShort):
		return response.BadRequest(c, "Password must be at least 8 characters long")
	}

	log.Error("request failed",
		"method", c.Method(),
		"path", c.Path(),
		"request_id", c.Locals("requestid"),
		"error", err,
	)
	return response.InternalServerError(c, "")
}
