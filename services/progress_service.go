package services

import (
	"context"

	"github.com/sahilchouksey/learnhub-api/model"
	"gorm.io/gorm"
)

// ProgressService reads a user's learning history
type ProgressService struct {
	db *gorm.DB
}

// NewProgressService creates a new progress service
func NewProgressService(db *gorm.DB) *ProgressService {
	return &ProgressService{db: db}
}

// LessonRef identifies a lesson and the course it belongs to
type LessonRef struct {
	ID     uint   `json:"id"`
	Title  string `json:"title"`
	Course uint   `json:"course"`
}

// QuizResultView is a recorded quiz score with its lesson resolved
type QuizResultView struct {
	Lesson LessonRef `json:"lesson"`
	Score  int       `json:"score"`
	Total  int       `json:"total"`
}

// UserProgress is the payload of the progress endpoint
type UserProgress struct {
	CompletedLessons []LessonRef      `json:"completedLessons"`
	QuizResults      []QuizResultView `json:"quizResults"`
}

// Progress returns the completed lessons and quiz results of userID
func (s *ProgressService) Progress(ctx context.Context, userID uint) (*UserProgress, error) {
	db := s.db.WithContext(ctx)

	var user model.User
	if err := db.Select("id").First(&user, userID).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, storeErr("load user", err)
	}

	var completions []model.LessonCompletion
	err := db.Preload("Lesson").
		Where("user_id = ?", userID).
		Order("completed_at ASC, lesson_id ASC").
		Find(&completions).Error
	if err != nil {
		return nil, storeErr("load completions", err)
	}

	var results []model.QuizResult
	err = db.Preload("Lesson").
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&results).Error
	if err != nil {
		return nil, storeErr("load quiz results", err)
	}

	progress := &UserProgress{
		CompletedLessons: make([]LessonRef, 0, len(completions)),
		QuizResults:      make([]QuizResultView, 0, len(results)),
	}
	for _, c := range completions {
		progress.CompletedLessons = append(progress.CompletedLessons, lessonRef(c.Lesson))
	}
	for _, r := range results {
		progress.QuizResults = append(progress.QuizResults, QuizResultView{
			Lesson: lessonRef(r.Lesson),
			Score:  r.Score,
			Total:  r.Total,
		})
	}
	return progress, nil
}

func lessonRef(l model.Lesson) LessonRef {
	return LessonRef{ID: l.ID, Title: l.Title, Course: l.CourseID}
}
