package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/learnhub-api/handlers"
	"github.com/sahilchouksey/learnhub-api/services"
	"github.com/sahilchouksey/learnhub-api/utils/response"
	"github.com/sahilchouksey/learnhub-api/utils/validation"
)

// LoginRequest represents a user login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents a successful login response
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	ctx := c.UserContext()
	ip := c.IP()

	user, err := h.users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) && h.bruteForceProtection != nil {
			_ = h.bruteForceProtection.RecordFailedAttempt(ctx, ip)
		}
		return handlers.ServiceError(c, h.log, err)
	}

	// Clear failed attempts on successful login
	if h.bruteForceProtection != nil {
		_ = h.bruteForceProtection.RecordSuccessfulAttempt(ctx, ip)
	}

	token, _, err := h.jwtManager.GenerateAccessToken(user)
	if err != nil {
		return handlers.ServiceError(c, h.log, err)
	}

	return response.Success(c, LoginResponse{
		Token: token,
		User:  toUserResponse(user),
	})
}
