package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sahilchouksey/learnhub-api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LessonService handles lesson authoring and completion tracking
type LessonService struct {
	db      *gorm.DB
	courses *CourseService
}

// NewLessonService creates a new lesson service
func NewLessonService(db *gorm.DB) *LessonService {
	return &LessonService{db: db, courses: NewCourseService(db)}
}

// LessonInput carries the fields of a new lesson. Media URLs are already uploaded.
type LessonInput struct {
	Title       string
	Content     string
	CourseID    uint
	VideoURL    string
	DocumentURL string
}

// CheckCanAuthor verifies the course exists and is owned by callerID
func (s *LessonService) CheckCanAuthor(ctx context.Context, courseID, callerID uint) error {
	return s.courses.CheckOwner(ctx, courseID, callerID)
}

// Create stores a lesson in a course owned by callerID
func (s *LessonService) Create(ctx context.Context, callerID uint, in LessonInput) (*model.Lesson, error) {
	if err := s.CheckCanAuthor(ctx, in.CourseID, callerID); err != nil {
		return nil, err
	}

	lesson := &model.Lesson{
		Title:       strings.TrimSpace(in.Title),
		Content:     in.Content,
		CourseID:    in.CourseID,
		VideoURL:    in.VideoURL,
		DocumentURL: in.DocumentURL,
	}
	if err := s.db.WithContext(ctx).Create(lesson).Error; err != nil {
		return nil, storeErr("create lesson", err)
	}
	return lesson, nil
}

// Get loads a single lesson
func (s *LessonService) Get(ctx context.Context, id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	if err := s.db.WithContext(ctx).First(&lesson, id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrLessonNotFound
		}
		return nil, storeErr("load lesson", err)
	}
	return &lesson, nil
}

// ListByCourse returns the lessons of a course in creation order
func (s *LessonService) ListByCourse(ctx context.Context, courseID uint) ([]model.Lesson, error) {
	lessons := []model.Lesson{}
	err := s.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("id ASC").
		Find(&lessons).Error
	if err != nil {
		return nil, storeErr("list lessons", err)
	}
	return lessons, nil
}

// MarkComplete records that userID finished the lesson. Repeating it is a no-op.
func (s *LessonService) MarkComplete(ctx context.Context, userID, lessonID uint) error {
	if _, err := s.Get(ctx, lessonID); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.LessonCompletion{UserID: userID, LessonID: lessonID}).Error
	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return storeErr("mark lesson complete", err)
	}
	return nil
}
