package quiz

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/learnhub-api/handlers"
	"github.com/sahilchouksey/learnhub-api/model"
	"github.com/sahilchouksey/learnhub-api/services"
	"github.com/sahilchouksey/learnhub-api/utils"
	"github.com/sahilchouksey/learnhub-api/utils/middleware"
	"github.com/sahilchouksey/learnhub-api/utils/response"
	"github.com/sahilchouksey/learnhub-api/utils/validation"
)

// QuizHandler handles quiz-related requests
type QuizHandler struct {
	quizzes   *services.QuizService
	validator *validation.Validator
	log       *utils.Logger
}

// NewQuizHandler creates a new quiz handler
func NewQuizHandler(quizzes *services.QuizService, log *utils.Logger) *QuizHandler {
	return &QuizHandler{
		quizzes:   quizzes,
		validator: validation.NewValidator(),
		log:       log,
	}
}

// QuestionRequest is one question of CreateQuizRequest
type QuestionRequest struct {
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"required,min=2,dive,required"`
	CorrectAnswer string   `json:"correctAnswer" validate:"required"`
}

// CreateQuizRequest represents the body of POST /api/quizzes
type CreateQuizRequest struct {
	LessonID  uint              `json:"lessonId" validate:"required,min=1"`
	Questions []QuestionRequest `json:"questions" validate:"required,min=1,dive"`
}

// SubmitQuizRequest represents the body of POST /api/quizzes/:lessonId/submit
type SubmitQuizRequest struct {
	Answers []services.Answer `json:"answers"`
}

// SubmitQuizResponse is the graded outcome of a submission
type SubmitQuizResponse struct {
	Message string `json:"message"`
	Total   int    `json:"total"`
	Correct int    `json:"correct"`
}

// CreateQuiz handles POST /api/quizzes
func (h *QuizHandler) CreateQuiz(c *fiber.Ctx) error {
	var req CreateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	questions := make([]services.QuestionInput, 0, len(req.Questions))
	for _, q := range req.Questions {
		if !contains(q.Options, q.CorrectAnswer) {
			return response.BadRequest(c, "correctAnswer must be one of the options")
		}
		questions = append(questions, services.QuestionInput{
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
		})
	}

	quiz, err := h.quizzes.Create(c.UserContext(), req.LessonID, questions)
	if err != nil {
		return handlers.ServiceError(c, h.log, err)
	}
	return response.Created(c, quiz)
}

// GetQuiz handles GET /api/quizzes/:lessonId. Students never see the answer key.
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	lessonID, ok := handlers.ParamID(c, "lessonId")
	if !ok {
		return response.BadRequest(c, "Invalid lesson ID")
	}

	quiz, err := h.quizzes.GetByLesson(c.UserContext(), lessonID)
	if err != nil {
		return handlers.ServiceError(c, h.log, err)
	}

	if role, _ := middleware.GetUserRole(c); role == model.RoleStudent {
		quiz.HideAnswers()
	}
	return response.Success(c, quiz)
}

// SubmitQuiz handles POST /api/quizzes/:lessonId/submit
func (h *QuizHandler) SubmitQuiz(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	lessonID, ok := handlers.ParamID(c, "lessonId")
	if !ok {
		return response.BadRequest(c, "Invalid lesson ID")
	}

	var req SubmitQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.quizzes.Submit(c.UserContext(), userID, lessonID, req.Answers)
	if err != nil {
		return handlers.ServiceError(c, h.log, err)
	}

	return response.Success(c, SubmitQuizResponse{
		Message: "Quiz submitted",
		Total:   result.Total,
		Correct: result.Correct,
	})
}

func contains(options []string, answer string) bool {
	for _, o := range options {
		if o == answer {
			return true
		}
	}
	return false
}
