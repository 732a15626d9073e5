package router

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/learnhub-api/database"
	"github.com/sahilchouksey/learnhub-api/handlers"
	admin_handlers "github.com/sahilchouksey/learnhub-api/handlers/admin"
	auth_handlers "github.com/sahilchouksey/learnhub-api/handlers/auth"
	course_handlers "github.com/sahilchouksey/learnhub-api/handlers/course"
	lesson_handlers "github.com/sahilchouksey/learnhub-api/handlers/lesson"
	quiz_handlers "github.com/sahilchouksey/learnhub-api/handlers/quiz"
	user_handlers "github.com/sahilchouksey/learnhub-api/handlers/user"
	"github.com/sahilchouksey/learnhub-api/model"
	"github.com/sahilchouksey/learnhub-api/services"
	"github.com/sahilchouksey/learnhub-api/utils"
	"github.com/sahilchouksey/learnhub-api/utils/auth"
	"github.com/sahilchouksey/learnhub-api/utils/cache"
	"github.com/sahilchouksey/learnhub-api/utils/middleware"
	"github.com/sahilchouksey/learnhub-api/utils/storage"
)

// ErrMissingUploader is returned when Options carries no storage backend
var ErrMissingUploader = errors.New("router: an uploader is required")

// Options carries everything SetupRoutes wires into the handlers
type Options struct {
	JWTSecret string
	JWTIssuer string

	// Cache is optional; without it login brute force protection and
	// the admin stats cache are disabled.
	Cache *cache.RedisCache

	Uploader storage.Uploader
	// UploadDir is served at /uploads when set (local storage driver)
	UploadDir string

	Security middleware.SecurityConfig
	Logger   *utils.Logger

	// Analytics lets the caller share the service with the cron jobs
	Analytics *services.AnalyticsService
}

func SetupRoutes(app *fiber.App, store database.Storage, opts Options) error {
	if opts.Uploader == nil {
		return ErrMissingUploader
	}
	log := opts.Logger
	if log == nil {
		log = utils.NewNopLogger()
	}

	db := store.GetDB()

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret: opts.JWTSecret,
		Expiry: auth.DefaultTokenExpiry,
		Issuer: opts.JWTIssuer,
	})

	// A nil *RedisCache must not leak into the interfaces as a non-nil value
	var bruteForceProtection *middleware.BruteForceProtection
	var statsCache services.JSONCache
	if opts.Cache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(opts.Cache)
		statsCache = opts.Cache
	} else {
		log.Warn("redis unavailable, brute force protection and stats cache disabled")
	}

	// Services
	userService := services.NewUserService(db)
	courseService := services.NewCourseService(db)
	enrollmentService := services.NewEnrollmentService(db)
	lessonService := services.NewLessonService(db)
	quizService := services.NewQuizService(db)
	progressService := services.NewProgressService(db)
	analyticsService := opts.Analytics
	if analyticsService == nil {
		analyticsService = services.NewAnalyticsService(db, statsCache)
	}

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)
	requireAuth := authMiddleware.Required()
	instructorOnly := authMiddleware.RequireRole(model.RoleInstructor)
	studentOnly := authMiddleware.RequireRole(model.RoleStudent)

	// Handlers
	authHandler := auth_handlers.NewAuthHandler(userService, jwtManager, auth.NewBlacklistService(db), bruteForceProtection, analyticsService, log)
	courseHandler := course_handlers.NewCourseHandler(courseService, enrollmentService, analyticsService, opts.Uploader, log)
	lessonHandler := lesson_handlers.NewLessonHandler(lessonService, analyticsService, opts.Uploader, log)
	quizHandler := quiz_handlers.NewQuizHandler(quizService, log)
	userHandler := user_handlers.NewUserHandler(progressService, enrollmentService, log)
	adminHandler := admin_handlers.NewAdminHandler(userService, courseService, analyticsService, services.NewAuditService(db), log)

	middleware.SetupSecurity(app, opts.Security)

	// Health check endpoint (public)
	app.Get("/ping", handlers.MakeHTTPHandleFunc(handlers.HandleCheckHealth, store, log))

	// Locally stored media
	if opts.UploadDir != "" {
		app.Static(storage.LocalMountPath, opts.UploadDir)
	}

	api := app.Group("/api")

	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}
	authGroup.Post("/logout", requireAuth, authHandler.Logout)
	authGroup.Get("/me", requireAuth, authHandler.Me)

	// Courses routes
	courses := api.Group("/courses")
	courses.Get("/", courseHandler.ListCourses)                                                 // Public: catalog with filters
	courses.Get("/instructor/my-courses", requireAuth, instructorOnly, courseHandler.MyCourses) // Instructor: own courses
	courses.Get("/:id", courseHandler.GetCourse)                                                // Public: course detail
	courses.Post("/", requireAuth, instructorOnly, courseHandler.CreateCourse)                  // Instructor: create (JSON or multipart)
	courses.Put("/:id", requireAuth, instructorOnly, courseHandler.UpdateCourse)                // Owner: partial update
	courses.Patch("/:id", requireAuth, instructorOnly, courseHandler.UpdateCourse)              // Owner: partial update
	courses.Patch("/:id/publish", requireAuth, instructorOnly, courseHandler.TogglePublish)     // Owner: flip published flag
	courses.Delete("/:id", requireAuth, instructorOnly, courseHandler.DeleteCourse)             // Owner: delete with lessons and progress
	courses.Post("/:id/enroll", requireAuth, studentOnly, courseHandler.Enroll)                 // Student: enroll

	// Lessons routes
	lessons := api.Group("/lessons", requireAuth)
	lessons.Post("/", instructorOnly, lessonHandler.CreateLesson) // Instructor: create with optional video / handout
	lessons.Post("/complete", lessonHandler.CompleteLesson)       // Protected: mark complete
	lessons.Get("/course/:courseId", lessonHandler.ListLessons)   // Protected: lessons of a course
	lessons.Get("/:courseId", lessonHandler.ListLessons)          // Protected: lessons of a course

	// Quizzes routes
	quizzes := api.Group("/quizzes", requireAuth)
	quizzes.Post("/", instructorOnly, quizHandler.CreateQuiz) // Instructor: attach quiz to lesson
	quizzes.Get("/:lessonId", quizHandler.GetQuiz)            // Protected: answers hidden from students
	quizzes.Post("/:lessonId/submit", quizHandler.SubmitQuiz) // Protected: grade and record first result

	// Users routes (the caller's own data)
	users := api.Group("/users", requireAuth)
	users.Get("/progress", userHandler.GetProgress)
	users.Get("/courses", userHandler.GetEnrolledCourses)

	// Admin routes
	admin := api.Group("/admin", requireAuth, authMiddleware.RequireRole(model.RoleAdmin))
	admin.Get("/stats", adminHandler.GetStats)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Get("/courses", adminHandler.ListCourses)
	admin.Delete("/users/:id", middleware.AdminAuditLog(db, "user_delete", "users"), adminHandler.DeleteUser)
	admin.Delete("/courses/:id", middleware.AdminAuditLog(db, "course_delete", "courses"), adminHandler.DeleteCourse)
	admin.Get("/audit-logs", adminHandler.ListAuditLogs)
	admin.Get("/audit-logs/:id", adminHandler.GetAuditLog)
	admin.Get("/cron-logs", adminHandler.ListCronLogs)

	return nil
}
