package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/learnhub-api/handlers"
	"github.com/sahilchouksey/learnhub-api/model"
	"github.com/sahilchouksey/learnhub-api/services"
	"github.com/sahilchouksey/learnhub-api/utils"
	authutil "github.com/sahilchouksey/learnhub-api/utils/auth"
	"github.com/sahilchouksey/learnhub-api/utils/middleware"
	"github.com/sahilchouksey/learnhub-api/utils/response"
	"github.com/sahilchouksey/learnhub-api/utils/validation"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	users                *services.UserService
	jwtManager           *authutil.JWTManager
	blacklistService     *authutil.BlacklistService
	bruteForceProtection *middleware.BruteForceProtection
	analytics            *services.AnalyticsService
	validator            *validation.Validator
	log                  *utils.Logger
}

// NewAuthHandler creates a new auth handler. bruteForceProtection may be nil.
func NewAuthHandler(
	users *services.UserService,
	jwtManager *authutil.JWTManager,
	blacklistService *authutil.BlacklistService,
	bruteForceProtection *middleware.BruteForceProtection,
	analytics *services.AnalyticsService,
	log *utils.Logger,
) *AuthHandler {
	return &AuthHandler{
		users:                users,
		jwtManager:           jwtManager,
		blacklistService:     blacklistService,
		bruteForceProtection: bruteForceProtection,
		analytics:            analytics,
		validator:            validation.NewValidator(),
		log:                  log,
	}
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=student instructor"`
}

// UserResponse represents user data in responses
type UserResponse struct {
	ID    uint       `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
}

// ProfileResponse is UserResponse plus account timestamps
type ProfileResponse struct {
	UserResponse
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RegisterResponse represents a successful registration response
type RegisterResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.Name = validation.SanitizeString(req.Name)
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	user, err := h.users.Register(c.UserContext(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     model.Role(req.Role),
	})
	if err != nil {
		return handlers.ServiceError(c, h.log, err)
	}

	h.analytics.InvalidateStats(c.UserContext())
	h.log.Info("user registered", "user_id", user.ID, "role", user.Role)
	return response.Created(c, RegisterResponse{
		Message: "User registered successfully",
		User:    toUserResponse(user),
	})
}
