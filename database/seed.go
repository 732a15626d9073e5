package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sahilchouksey/learnhub-api/model"
	"github.com/sahilchouksey/learnhub-api/utils"
	"github.com/sahilchouksey/learnhub-api/utils/auth"
	"gorm.io/gorm"
)

// DemoPassword is the password of every demo account
const DemoPassword = "password123"

// Demo accounts created by SeedDemoData
const (
	DemoInstructorEmail = "instructor@learnhub.dev"
	DemoStudentEmail    = "student@learnhub.dev"
)

// SeedOptions selects what SeedAll creates
type SeedOptions struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string
	Demo          bool
}

// Seeder handles database seeding operations. Every step is idempotent.
type Seeder struct {
	db  *gorm.DB
	log *utils.Logger
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, log *utils.Logger) *Seeder {
	if log == nil {
		log = utils.NewNopLogger()
	}
	return &Seeder{db: db, log: log}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll(ctx context.Context, opts SeedOptions) error {
	s.log.Info("starting database seeding")

	if err := s.SeedAdminUser(ctx, opts.AdminName, opts.AdminEmail, opts.AdminPassword); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if opts.Demo {
		if err := s.SeedDemoData(ctx); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	s.log.Info("database seeding completed")
	return nil
}

// SeedAdminUser creates the admin account unless one with the same email exists
func (s *Seeder) SeedAdminUser(ctx context.Context, name, email, password string) error {
	if email == "" || password == "" {
		s.log.Warn("ADMIN_EMAIL and ADMIN_PASSWORD not set, skipping admin user creation")
		return nil
	}

	admin, created, err := s.ensureUser(ctx, name, email, password, model.RoleAdmin)
	if err != nil {
		return err
	}
	if !created {
		s.log.Info("admin user already exists, skipping", "email", admin.Email)
		return nil
	}

	s.log.Info("created admin user", "email", admin.Email)
	return nil
}

// SeedDemoData creates an instructor, a student and two courses with lessons and a quiz
func (s *Seeder) SeedDemoData(ctx context.Context) error {
	instructor, created, err := s.ensureUser(ctx, "Ada Instructor", DemoInstructorEmail, DemoPassword, model.RoleInstructor)
	if err != nil {
		return err
	}
	student, _, err := s.ensureUser(ctx, "Sam Student", DemoStudentEmail, DemoPassword, model.RoleStudent)
	if err != nil {
		return err
	}
	if !created {
		s.log.Info("demo data already present, skipping")
		return nil
	}

	courses := []model.Course{
		{
			Title:            "Go for Backend Developers",
			Description:      "Build HTTP services in Go from routing to persistence.",
			Category:         "programming",
			Price:            49,
			Level:            model.LevelIntermediate,
			Duration:         12,
			InstructorID:     instructor.ID,
			Requirements:     []string{"Basic programming knowledge"},
			LearningOutcomes: []string{"Write idiomatic Go", "Ship a REST API"},
			IsPublished:      true,
		},
		{
			Title:            "SQL Fundamentals",
			Description:      "Query, join and model relational data.",
			Category:         "databases",
			Price:            0,
			Level:            model.LevelBeginner,
			Duration:         6,
			InstructorID:     instructor.ID,
			Requirements:     []string{},
			LearningOutcomes: []string{"Write SELECT queries", "Design normalised tables"},
		},
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&courses).Error; err != nil {
			return err
		}

		lessons := []model.Lesson{
			{Title: "Why Go", Content: "Goroutines, interfaces and a small standard library.", CourseID: courses[0].ID},
			{Title: "HTTP handlers", Content: "Routing requests and writing JSON responses.", CourseID: courses[0].ID},
			{Title: "SELECT basics", Content: "Filtering and ordering rows.", CourseID: courses[1].ID},
		}
		if err := tx.Create(&lessons).Error; err != nil {
			return err
		}

		quiz := model.Quiz{
			LessonID: lessons[0].ID,
			Questions: []model.QuizQuestion{
				{Position: 0, Question: "Which keyword starts a goroutine?", Options: []string{"go", "async", "spawn"}, CorrectAnswer: "go"},
				{Position: 1, Question: "Are Go interfaces satisfied implicitly?", Options: []string{"Yes", "No"}, CorrectAnswer: "Yes"},
			},
		}
		if err := tx.Create(&quiz).Error; err != nil {
			return err
		}

		if err := tx.Create(&model.Enrollment{UserID: student.ID, CourseID: courses[0].ID}).Error; err != nil {
			return err
		}

		s.log.Info("created demo data", "courses", len(courses), "lessons", len(lessons))
		return nil
	})
}

// ensureUser returns the user with email, creating it when missing
func (s *Seeder) ensureUser(ctx context.Context, name, email, password string, role model.Role) (*model.User, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var existing model.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, false, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Role:         role,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// RunSeeds is a convenience function to run all seeds
func RunSeeds(ctx context.Context, db *gorm.DB, log *utils.Logger, opts SeedOptions) error {
	return NewSeeder(db, log).SeedAll(ctx, opts)
}
