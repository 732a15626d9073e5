package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sahilchouksey/learnhub-api/model"
	"github.com/sahilchouksey/learnhub-api/utils/auth"
	"gorm.io/gorm"
)

// UserService handles accounts and credentials
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new user service
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// RegisterInput carries the fields needed to create an account
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     model.Role
}

// Register creates a new account. Self-registration may only pick student or instructor.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if in.Role == "" {
		in.Role = model.RoleStudent
	}
	if in.Role != model.RoleStudent && in.Role != model.RoleInstructor {
		return nil, ErrInvalidRole
	}
	return s.create(ctx, in)
}

// CreateAdmin creates an admin account unless one with the same email exists
func (s *UserService) CreateAdmin(ctx context.Context, name, email, password string) (*model.User, bool, error) {
	user, err := s.create(ctx, RegisterInput{Name: name, Email: email, Password: password, Role: model.RoleAdmin})
	if errors.Is(err, ErrEmailTaken) {
		existing, findErr := s.findByEmail(ctx, email)
		return existing, false, findErr
	}
	return user, err == nil, err
}

func (s *UserService) create(ctx context.Context, in RegisterInput) (*model.User, error) {
	email := normalizeEmail(in.Email)

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, storeErr("check existing user", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         in.Role,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		// Lost a race with a concurrent registration for the same email
		if isDuplicate(err) {
			return nil, ErrEmailTaken
		}
		return nil, storeErr("create user", err)
	}
	return user, nil
}

// Authenticate returns the user matching the credentials
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.findByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetByID loads a single user
func (s *UserService) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, storeErr("load user", err)
	}
	return &user, nil
}

// List returns every user, oldest first
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, storeErr("list users", err)
	}
	return users, nil
}

// Delete removes a user with everything that only makes sense for that user.
// Instructors must hand off or delete their courses first.
func (s *UserService) Delete(ctx context.Context, id uint) (*model.User, error) {
	var deleted model.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&deleted, id).Error; err != nil {
			if isNotFound(err) {
				return ErrUserNotFound
			}
			return err
		}

		var owned int64
		if err := tx.Model(&model.Course{}).Where("instructor_id = ?", id).Count(&owned).Error; err != nil {
			return err
		}
		if owned > 0 {
			return ErrInstructorOwns
		}

		for _, m := range []interface{}{
			&model.Enrollment{},
			&model.LessonCompletion{},
			&model.QuizResult{},
			&model.JWTTokenBlacklist{},
		} {
			if err := tx.Where("user_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.User{}, id).Error
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrInstructorOwns) {
			return nil, err
		}
		return nil, storeErr("delete user", err)
	}
	return &deleted, nil
}

func (s *UserService) findByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, storeErr("find user by email", err)
	}
	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
