package response

import (
	"github.com/gofiber/fiber/v2"
)

// ErrorBody is the JSON envelope for every non-2xx response
type ErrorBody struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// MessageBody is a success body that only carries a message
type MessageBody struct {
	Message string `json:"message"`
}

// Success returns a 200 response with data as the bare body
func Success(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(data)
}

// Message returns a 200 response of the form {"message": "..."}
func Message(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusOK).JSON(MessageBody{Message: message})
}

// Created returns a 201 Created response with data as the bare body
func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(data)
}

// Error returns an error response
func Error(c *fiber.Ctx, statusCode int, message string, code string) error {
	return c.Status(statusCode).JSON(ErrorBody{
		Message: message,
		Code:    code,
	})
}

// BadRequest returns a 400 Bad Request response
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message, "BAD_REQUEST")
}

// AlreadyExists returns a 400 response for duplicate resources
func AlreadyExists(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message, "ALREADY_EXISTS")
}

// Conflict returns a 400 response for business rule conflicts
func Conflict(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message, "CONFLICT")
}

// Unauthorized returns a 401 Unauthorized response
func Unauthorized(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Unauthorized access"
	}
	return Error(c, fiber.StatusUnauthorized, message, "UNAUTHORIZED")
}

// Forbidden returns a 403 Forbidden response
func Forbidden(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Access forbidden"
	}
	return Error(c, fiber.StatusForbidden, message, "FORBIDDEN")
}

// NotFound returns a 404 Not Found response
func NotFound(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Resource not found"
	}
	return Error(c, fiber.StatusNotFound, message, "NOT_FOUND")
}

// TooManyRequests returns a 429 Too Many Requests response
func TooManyRequests(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Too many requests"
	}
	return Error(c, fiber.StatusTooManyRequests, message, "TOO_MANY_REQUESTS")
}

// ValidationError returns a 400 response listing the offending fields
func ValidationError(c *fiber.Ctx, fields map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorBody{
		Message: "Validation failed",
		Code:    "VALIDATION_ERROR",
		Errors:  fields,
	})
}

// InternalServerError returns a 500 Internal Server Error response
func InternalServerError(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Internal server error"
	}
	return Error(c, fiber.StatusInternalServerError, message, "INTERNAL_ERROR")
}

// ServiceUnavailable returns a 503 Service Unavailable response
func ServiceUnavailable(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Service temporarily unavailable"
	}
	return Error(c, fiber.StatusServiceUnavailable, message, "SERVICE_UNAVAILABLE")
}

// PaginationMeta contains pagination metadata
type PaginationMeta struct {
	CurrentPage int   `json:"currentPage"`
	PerPage     int   `json:"perPage"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
}

// PaginatedBody is the body of a paginated listing
type PaginatedBody struct {
	Data       interface{}    `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
}

// Paginated returns a 200 response with a page of data and its metadata
func Paginated(c *fiber.Ctx, data interface{}, pagination PaginationMeta) error {
	return c.Status(fiber.StatusOK).JSON(PaginatedBody{
		Data:       data,
		Pagination: pagination,
	})
}

// Paging bounds. MaxPage keeps (page-1)*MaxLimit far from int overflow.
const (
	DefaultLimit = 20
	MaxLimit     = 100
	MaxPage      = 1_000_000
)

// NormalizePage clamps page to [1, MaxPage] and limit to [1, MaxLimit]
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// Offset is the number of rows to skip for a normalized page
func (p PaginationMeta) Offset() int {
	return (p.CurrentPage - 1) * p.PerPage
}

// CalculatePagination clamps page and limit and derives the page count
func CalculatePagination(page, limit int, total int64) PaginationMeta {
	page, limit = NormalizePage(page, limit)
	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return PaginationMeta{
		CurrentPage: page,
		PerPage:     limit,
		Total:       total,
		TotalPages:  totalPages,
	}
}
