package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sahilchouksey/learnhub-api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuizService handles quiz authoring, retrieval and grading
type QuizService struct {
	db *gorm.DB
}

// NewQuizService creates a new quiz service
func NewQuizService(db *gorm.DB) *QuizService {
	return &QuizService{db: db}
}

// QuestionInput is one question of a new quiz
type QuestionInput struct {
	Question      string
	Options       []string
	CorrectAnswer string
}

// Answer is a learner's choice for the question at QuestionIndex
type Answer struct {
	QuestionIndex  int    `json:"questionIndex"`
	SelectedAnswer string `json:"selectedAnswer"`
}

// SubmissionResult is the outcome of grading a submission
type SubmissionResult struct {
	Total    int
	Correct  int
	Recorded bool // false when an earlier submission was already on file
}

// Create attaches a quiz to an existing lesson
func (s *QuizService) Create(ctx context.Context, lessonID uint, questions []QuestionInput) (*model.Quiz, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	quiz := &model.Quiz{LessonID: lessonID}
	for i, q := range questions {
		quiz.Questions = append(quiz.Questions, model.QuizQuestion{
			Position:      i,
			Question:      strings.TrimSpace(q.Question),
			Options:       nonNil(q.Options),
			CorrectAnswer: q.CorrectAnswer,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lesson model.Lesson
		if err := tx.Select("id").First(&lesson, lessonID).Error; err != nil {
			if isNotFound(err) {
				return ErrLessonNotFound
			}
			return err
		}

		var existing int64
		if err := tx.Model(&model.Quiz{}).Where("lesson_id = ?", lessonID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrQuizExists
		}

		if err := tx.Create(quiz).Error; err != nil {
			if isDuplicate(err) {
				return ErrQuizExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrLessonNotFound) || errors.Is(err, ErrQuizExists) {
			return nil, err
		}
		return nil, storeErr("create quiz", err)
	}
	return quiz, nil
}

// GetByLesson loads the quiz of a lesson with its questions in order
func (s *QuizService) GetByLesson(ctx context.Context, lessonID uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := s.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("lesson_id = ?", lessonID).
		First(&quiz).Error
	if err != nil {
		if isNotFound(err) {
			return nil, ErrQuizNotFound
		}
		return nil, storeErr("load quiz", err)
	}
	return &quiz, nil
}

// Submit grades answers against the lesson's quiz and records the first result per user
func (s *QuizService) Submit(ctx context.Context, userID, lessonID uint, answers []Answer) (*SubmissionResult, error) {
	quiz, err := s.GetByLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	res := &SubmissionResult{
		Total:   len(quiz.Questions),
		Correct: Score(quiz.Questions, answers),
	}

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.QuizResult{
			UserID:   userID,
			LessonID: lessonID,
			Score:    res.Correct,
			Total:    res.Total,
		})
	if result.Error != nil && !isDuplicate(result.Error) {
		return nil, storeErr("record quiz result", result.Error)
	}
	res.Recorded = result.Error == nil && result.RowsAffected > 0
	return res, nil
}

// Score counts the questions whose answer at the same index matches the key.
// Only the first answer for a given index counts; out of range indexes are ignored.
func Score(questions []model.QuizQuestion, answers []Answer) int {
	chosen := make(map[int]string, len(answers))
	for _, a := range answers {
		if _, seen := chosen[a.QuestionIndex]; !seen {
			chosen[a.QuestionIndex] = a.SelectedAnswer
		}
	}

	correct := 0
	for i, q := range questions {
		if sel, ok := chosen[i]; ok && sel == q.CorrectAnswer {
			correct++
		}
	}
	return correct
}
