package course

import (
	"encoding/json"
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/learnhub-api/handlers"
	"github.com/sahilchouksey/learnhub-api/model"
	"github.com/sahilchouksey/learnhub-api/services"
	"github.com/sahilchouksey/learnhub-api/utils"
	"github.com/sahilchouksey/learnhub-api/utils/middleware"
	"github.com/sahilchouksey/learnhub-api/utils/response"
	"github.com/sahilchouksey/learnhub-api/utils/storage"
	"github.com/sahilchouksey/learnhub-api/utils/validation"
)

// CourseHandler handles course-related requests
type CourseHandler struct {
	courses    *services.CourseService
	enrollment *services.EnrollmentService
	analytics  *services.AnalyticsService
	uploader   storage.Uploader
	validator  *validation.Validator
	log        *utils.Logger
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(
	courses *services.CourseService,
	enrollment *services.EnrollmentService,
	analytics *services.AnalyticsService,
	uploader storage.Uploader,
	log *utils.Logger,
) *CourseHandler {
	return &CourseHandler{
		courses:    courses,
		enrollment: enrollment,
		analytics:  analytics,
		uploader:   uploader,
		validator:  validation.NewValidator(),
		log:        log,
	}
}

// CreateCourseRequest represents the request body for creating a course
type CreateCourseRequest struct {
	Title            string   `json:"title" validate:"required,max=200"`
	Description      string   `json:"description" validate:"required"`
	Category         string   `json:"category" validate:"required,max=100"`
	Price            *float64 `json:"price" validate:"required,gte=0"`
	Level            string   `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Duration         float64  `json:"duration" validate:"gte=0"`
	Requirements     []string `json:"requirements"`
	LearningOutcomes []string `json:"learningOutcomes"`
}

// UpdateCourseRequest represents the request body for updating a course.
// Only the fields present in the body are applied.
type UpdateCourseRequest struct {
	Title            *string   `json:"title" validate:"omitnil,min=1,max=200"`
	Description      *string   `json:"description" validate:"omitnil,min=1"`
	Category         *string   `json:"category" validate:"omitnil,min=1,max=100"`
	Price            *float64  `json:"price" validate:"omitnil,gte=0"`
	Level            *string   `json:"level" validate:"omitnil,oneof=beginner intermediate advanced"`
	Duration         *float64  `json:"duration" validate:"omitnil,gte=0"`
	Requirements     *[]string `json:"requirements"`
	LearningOutcomes *[]string `json:"learningOutcomes"`
}

// PublishResponse is returned by the publish toggle
type PublishResponse struct {
	Message string        `json:"message"`
	Course  *model.Course `json:"course"`
}

// ListCourses handles GET /api/courses
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	filter := services.CourseFilter{
		Category: c.Query("category"),
		Level:    model.Level(c.Query("level")),
		Search:   c.Query("search"),
	}
	if filter.Level != "" && !filter.Level.Valid() {
		return response.BadRequest(c, "Invalid level")
	}
	if p := c.Query("published"); p != "" {
		published, err := strconv.ParseBool(p)
		if err != nil {
			return response.BadRequest(c, "published must be true or false")
		}
		filter.Published = &published
	}

	courses, err := h.courses.List(c.UserContext(), filter)
	if err != nil {
		return handlers.ServiceError(c, h.log, err)
	}
	return response.Success(c, courses)
}

// GetCourse handles GET /api/courses/:id
func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid course ID")
	}

	course, err := h.courses.Get(c.UserContext(), id)
	if err != nil {
		return handlers.ServiceError(c, h.log, err)
	}
	return response.Success(c, course)
}

// CreateCourse handles POST /api/courses. It accepts JSON or a multipart form
// carrying an optional thumbnail image.
func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req CreateCourseRequest
	multipart := handlers.IsMultipart(c)
	if multipart {
		if msg := parseCourseForm(c, &req); msg != "" {
			return response.BadRequest(c, msg)
		}
	} else if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.Title = validation.SanitizeString(req.Title)
	req.Category = validation.SanitizeString(req.Category)
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	in := services.CourseInput{
		Title:            req.Title,
		Description:      req.Description,
		Category:         req.Category,
		Price:            *req.Price,
		Level:            model.Level(req.Level),
		Duration:         req.Duration,
		Requirements:     req.Requirements,
		LearningOutcomes: req.LearningOutcomes,
	}

	if multipart {
		if fh, err := c.FormFile("thumbnail"); err == nil {
			if !storage.IsImageFile(fh.Filename) {
				return response.BadRequest(c, "Only image files are allowed")
			}
			url, key, err := handlers.UploadFile(c.UserContext(), h.uploader, "thumbnails", fh)
			if err != nil {
				return handlers.ServiceError(c, h.log, err)
			}
			in.Thumbnail, in.ThumbnailKey = url, key
		}
	}

	course, err := h.courses.Create(c.UserContext(), userID, in)
	if err != nil {
		handlers.DiscardUploads(c.UserContext(), h.uploader, h.log, in.ThumbnailKey)
		return handlers.ServiceError(c, h.log, err)
	}

	h.analytics.InvalidateStats(c.UserContext())
	h.log.Info("course created", "course_id", course.ID, "instructor_id", userID)
	return response.Created(c, course)
}

// UpdateCourse handles PUT and PATCH /api/courses/:id. A multipart body may
// carry a replacement thumbnail; the previous image is removed once the update lands.
func (h *CourseHandler) UpdateCourse(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid course ID")
	}

	var req UpdateCourseRequest
	var thumbnail *multipart.FileHeader
	if handlers.IsMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return response.BadRequest(c, "Invalid multipart form")
		}
		if msg := parseCourseUpdateForm(form, &req); msg != "" {
			return response.BadRequest(c, msg)
		}
		if files := form.File["thumbnail"]; len(files) > 0 {
			thumbnail = files[0]
			if !storage.IsImageFile(thumbnail.Filename) {
				return response.BadRequest(c, "Only image files are allowed")
			}
		}
	} else if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	update := services.CourseUpdate{
		Title:            req.Title,
		Description:      req.Description,
		Category:         req.Category,
		Price:            req.Price,
		Duration:         req.Duration,
		Requirements:     req.Requirements,
		LearningOutcomes: req.LearningOutcomes,
	}
	if req.Level != nil {
		level := model.Level(*req.Level)
		update.Level = &level
	}

	var oldKey, newKey string
	if thumbnail != nil {
		// Non-owners must not be able to push files into storage
		existing, err := h.courses.GetOwned(c.UserContext(), id, userID)
		if err != nil {
			return handlers.ServiceError(c, h.log, err)
		}
		oldKey = existing.ThumbnailKey

		url, key, err := handlers.UploadFile(c.UserContext(), h.uploader, "thumbnails", thumbnail)
		if err != nil {
			return handlers.ServiceError(c, h.log, err)
		}
		newKey = key
		update.Thumbnail, update.ThumbnailKey = &url, &newKey
	}

	course, err := h.courses.Update(c.UserContext(), id, userID, update)
	if err != nil {
		handlers.DiscardUploads(c.UserContext(), h.uploader, h.log, newKey)
		return handlers.ServiceError(c, h.log, err)
	}

	if newKey != "" && oldKey != newKey {
		handlers.DiscardUploads(c.UserContext(), h.uploader, h.log, oldKey)
	}
	return response.Success(c, course)
}

// TogglePublish handles PATCH /api/courses/:id/publish
func (h *CourseHandler) TogglePublish(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid course ID")
	}

	course, err := h.courses.TogglePublish(c.UserContext(), id, userID)
	if err != nil {
		return handlers.ServiceError(c, h.log, err)
	}

	message := "Course unpublished successfully"
	if course.IsPublished {
		message = "Course published successfully"
	}
	return response.Success(c, PublishResponse{Message: message, Course: course})
}

// DeleteCourse handles DELETE /api/courses/:id
func (h *CourseHandler) DeleteCourse(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid course ID")
	}

	if err := h.courses.Delete(c.UserContext(), id, userID); err != nil {
		return handlers.ServiceError(c, h.log, err)
	}

	h.analytics.InvalidateStats(c.UserContext())
	h.log.Info("course deleted", "course_id", id, "instructor_id", userID)
	return response.Message(c, "Course deleted successfully")
}

// MyCourses handles GET /api/courses/instructor/my-courses
func (h *CourseHandler) MyCourses(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	courses, err := h.courses.ListByInstructor(c.UserContext(), userID)
	if err != nil {
		return handlers.ServiceError(c, h.log, err)
	}
	return response.Success(c, courses)
}

// Enroll handles POST /api/courses/:id/enroll
func (h *CourseHandler) Enroll(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	id, ok := handlers.ParamID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid course ID")
	}

	if err := h.enrollment.Enroll(c.UserContext(), userID, id); err != nil {
		return handlers.ServiceError(c, h.log, err)
	}
	h.analytics.InvalidateStats(c.UserContext())
	return response.Message(c, "Enrolled successfully")
}

// parseCourseForm fills req from multipart fields. List fields arrive as JSON array strings.
// It returns a client-facing message when a field cannot be parsed.
func parseCourseForm(c *fiber.Ctx, req *CreateCourseRequest) string {
	req.Title = c.FormValue("title")
	req.Description = c.FormValue("description")
	req.Category = c.FormValue("category")
	req.Level = c.FormValue("level")

	if v := c.FormValue("price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return "price must be a number"
		}
		req.Price = &price
	}
	if v := c.FormValue("duration"); v != "" {
		duration, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return "duration must be a number"
		}
		req.Duration = duration
	}
	if v := c.FormValue("requirements"); v != "" {
		if err := json.Unmarshal([]byte(v), &req.Requirements); err != nil {
			return "requirements must be a JSON array of strings"
		}
	}
	if v := c.FormValue("learningOutcomes"); v != "" {
		if err := json.Unmarshal([]byte(v), &req.LearningOutcomes); err != nil {
			return "learningOutcomes must be a JSON array of strings"
		}
	}
	return ""
}

// parseCourseUpdateForm fills req from the multipart fields that are present.
// Absent fields stay nil so they are left untouched.
func parseCourseUpdateForm(form *multipart.Form, req *UpdateCourseRequest) string {
	value := func(name string) (string, bool) {
		v, ok := form.Value[name]
		if !ok || len(v) == 0 {
			return "", false
		}
		return v[0], true
	}

	if v, ok := value("title"); ok {
		v = validation.SanitizeString(v)
		req.Title = &v
	}
	if v, ok := value("description"); ok {
		req.Description = &v
	}
	if v, ok := value("category"); ok {
		v = validation.SanitizeString(v)
		req.Category = &v
	}
	if v, ok := value("level"); ok {
		req.Level = &v
	}
	if v, ok := value("price"); ok {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return "price must be a number"
		}
		req.Price = &price
	}
	if v, ok := value("duration"); ok {
		duration, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return "duration must be a number"
		}
		req.Duration = &duration
	}
	if v, ok := value("requirements"); ok {
		var list []string
		if err := json.Unmarshal([]byte(v), &list); err != nil {
			return "requirements must be a JSON array of strings"
		}
		req.Requirements = &list
	}
	if v, ok := value("learningOutcomes"); ok {
		var list []string
		if err := json.Unmarshal([]byte(v), &list); err != nil {
			return "learningOutcomes must be a JSON array of strings"
		}
		req.LearningOutcomes = &list
	}
	return ""
}
