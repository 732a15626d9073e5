package lesson

import (
	"bytes"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/learnhub-api/handlers"
	"github.com/sahilchouksey/learnhub-api/services"
	"github.com/sahilchouksey/learnhub-api/utils"
	"github.com/sahilchouksey/learnhub-api/utils/middleware"
	"github.com/sahilchouksey/learnhub-api/utils/pdfvalidation"
	"github.com/sahilchouksey/learnhub-api/utils/response"
	"github.com/sahilchouksey/learnhub-api/utils/storage"
	"github.com/sahilchouksey/learnhub-api/utils/validation"
)

// LessonHandler handles lesson-related requests
type LessonHandler struct {
	lessons   *services.LessonService
	extractor *services.PDFExtractor
	analytics *services.AnalyticsService
	uploader  storage.Uploader
	validator *validation.Validator
	log       *utils.Logger
}

// NewLessonHandler creates a new lesson handler
func NewLessonHandler(lessons *services.LessonService, analytics *services.AnalyticsService, uploader storage.Uploader, log *utils.Logger) *LessonHandler {
	return &LessonHandler{
		lessons:   lessons,
		extractor: services.NewPDFExtractor(),
		analytics: analytics,
		uploader:  uploader,
		validator: validation.NewValidator(),
		log:       log,
	}
}

// CreateLessonRequest is accepted as JSON or as multipart form fields
type CreateLessonRequest struct {
	Title    string `json:"title" form:"title" validate:"required,max=200"`
	Content  string `json:"content" form:"content"`
	CourseID uint   `json:"courseId" form:"courseId" validate:"required,min=1"`
}

// CompleteLessonRequest represents the body of POST /api/lessons/complete
type CompleteLessonRequest struct {
	LessonID uint `json:"lessonId" validate:"required,min=1"`
}

// CreateLesson handles POST /api/lessons. Multipart requests may carry a
// "video" file and a "document" PDF handout.
func (h *LessonHandler) CreateLesson(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req CreateLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.Title = validation.SanitizeString(req.Title)
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	in := services.LessonInput{
		Title:    req.Title,
		Content:  req.Content,
		CourseID: req.CourseID,
	}

	// Reject bad files before touching storage
	var handout *pdfvalidation.ValidationResult
	video := formFile(c, "video")
	if video != nil && !storage.IsVideoFile(video.Filename) {
		return response.BadRequest(c, "Only video files are allowed")
	}
	document := formFile(c, "document")
	if document != nil {
		result, err := pdfvalidation.ValidatePDFFile(document, pdfvalidation.HandoutLimits)
		if err != nil {
			return response.BadRequest(c, "Failed to read document")
		}
		if !result.Valid {
			return response.BadRequest(c, result.Error)
		}
		handout = result
	}

	ctx := c.UserContext()
	if err := h.lessons.CheckCanAuthor(ctx, req.CourseID, userID); err != nil {
		return handlers.ServiceError(c, h.log, err)
	}

	var keys []string
	if video != nil {
		url, key, err := handlers.UploadFile(ctx, h.uploader, "videos", video)
		if err != nil {
			return handlers.ServiceError(c, h.log, err)
		}
		in.VideoURL = url
		keys = append(keys, key)
	}
	if handout != nil {
		url, key, err := handlers.UploadReader(ctx, h.uploader, "documents", document.Filename, bytes.NewReader(handout.Content))
		if err != nil {
			handlers.DiscardUploads(ctx, h.uploader, h.log, keys...)
			return handlers.ServiceError(c, h.log, err)
		}
		in.DocumentURL = url
		keys = append(keys, key)

		if in.Content == "" {
			text, err := h.extractor.ExtractText(handout.Content)
			if err != nil {
				h.log.Warn("failed to extract handout text", "file", document.Filename, "error", err)
			} else {
				in.Content = text
			}
		}
	}

	lesson, err := h.lessons.Create(ctx, userID, in)
	if err != nil {
		handlers.DiscardUploads(ctx, h.uploader, h.log, keys...)
		return handlers.ServiceError(c, h.log, err)
	}

	h.analytics.InvalidateStats(c.UserContext())
	h.log.Info("lesson created", "lesson_id", lesson.ID, "course_id", lesson.CourseID)
	return response.Created(c, lesson)
}

// ListLessons handles GET /api/lessons/:courseId and GET /api/lessons/course/:courseId
func (h *LessonHandler) ListLessons(c *fiber.Ctx) error {
	courseID, ok := handlers.ParamID(c, "courseId")
	if !ok {
		return response.BadRequest(c, "Invalid course ID")
	}

	lessons, err := h.lessons.ListByCourse(c.UserContext(), courseID)
	if err != nil {
		return handlers.ServiceError(c, h.log, err)
	}
	return response.Success(c, lessons)
}

// CompleteLesson handles POST /api/lessons/complete
func (h *LessonHandler) CompleteLesson(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req CompleteLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	if err := h.lessons.MarkComplete(c.UserContext(), userID, req.LessonID); err != nil {
		return handlers.ServiceError(c, h.log, err)
	}
	return response.Message(c, "Lesson marked as complete")
}

// formFile returns the named file of a multipart request, or nil
func formFile(c *fiber.Ctx, name string) *multipart.FileHeader {
	if !handlers.IsMultipart(c) {
		return nil
	}
	fh, err := c.FormFile(name)
	if err != nil {
		return nil
	}
	return fh
}
