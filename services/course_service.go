package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sahilchouksey/learnhub-api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CourseService handles course authoring and catalog queries
type CourseService struct {
	db *gorm.DB
}

// NewCourseService creates a new course service
func NewCourseService(db *gorm.DB) *CourseService {
	return &CourseService{db: db}
}

// CourseInput carries the fields of a new course
type CourseInput struct {
	Title            string
	Description      string
	Category         string
	Price            float64
	Level            model.Level
	Duration         float64
	Requirements     []string
	LearningOutcomes []string
	Thumbnail        string
	ThumbnailKey     string
}

// CourseUpdate is a partial update; nil fields are left untouched
type CourseUpdate struct {
	Title            *string
	Description      *string
	Category         *string
	Price            *float64
	Level            *model.Level
	Duration         *float64
	Requirements     *[]string
	LearningOutcomes *[]string
	Thumbnail        *string
	ThumbnailKey     *string
}

// CourseFilter narrows the public catalog
type CourseFilter struct {
	Category  string
	Level     model.Level
	Published *bool
	Search    string
}

// CourseListItem is a catalog entry with its instructor resolved
type CourseListItem struct {
	model.Course
	Instructor model.UserSummary `json:"instructor"`
}

// CourseDetail is a single course with its relationships resolved
type CourseDetail struct {
	model.Course
	Instructor model.UserSummary   `json:"instructor"`
	Students   []model.UserSummary `json:"students"`
	Lessons    []uint              `json:"lessons"`
}

// Create stores a new course owned by instructorID
func (s *CourseService) Create(ctx context.Context, instructorID uint, in CourseInput) (*model.Course, error) {
	var instructor model.User
	if err := s.db.WithContext(ctx).First(&instructor, instructorID).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, storeErr("load instructor", err)
	}

	if in.Level == "" {
		in.Level = model.LevelBeginner
	}
	course := &model.Course{
		Title:            strings.TrimSpace(in.Title),
		Description:      in.Description,
		Category:         strings.TrimSpace(in.Category),
		Price:            in.Price,
		Level:            in.Level,
		Duration:         in.Duration,
		InstructorID:     instructorID,
		Requirements:     nonNil(in.Requirements),
		LearningOutcomes: nonNil(in.LearningOutcomes),
		Thumbnail:        in.Thumbnail,
		ThumbnailKey:     in.ThumbnailKey,
	}
	if err := s.db.WithContext(ctx).Create(course).Error; err != nil {
		return nil, storeErr("create course", err)
	}
	return course, nil
}

// List returns the catalog with each instructor resolved to {id, name, email}
func (s *CourseService) List(ctx context.Context, filter CourseFilter) ([]CourseListItem, error) {
	q := s.db.WithContext(ctx).Model(&model.Course{}).Preload("Instructor")
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Level != "" {
		q = q.Where("level = ?", filter.Level)
	}
	if filter.Published != nil {
		q = q.Where("is_published = ?", *filter.Published)
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var courses []model.Course
	if err := q.Order("created_at DESC, id DESC").Find(&courses).Error; err != nil {
		return nil, storeErr("list courses", err)
	}

	items := make([]CourseListItem, 0, len(courses))
	for _, c := range courses {
		items = append(items, CourseListItem{Course: c, Instructor: c.Instructor.Summary(true)})
	}
	return items, nil
}

// ListAll returns every course without filters
func (s *CourseService) ListAll(ctx context.Context) ([]CourseListItem, error) {
	return s.List(ctx, CourseFilter{})
}

// ListByInstructor returns the courses owned by instructorID
func (s *CourseService) ListByInstructor(ctx context.Context, instructorID uint) ([]model.Course, error) {
	courses := []model.Course{}
	err := s.db.WithContext(ctx).
		Where("instructor_id = ?", instructorID).
		Order("created_at DESC, id DESC").
		Find(&courses).Error
	if err != nil {
		return nil, storeErr("list instructor courses", err)
	}
	return courses, nil
}

// Get loads a course with instructor, students and lesson ids
func (s *CourseService) Get(ctx context.Context, id uint) (*CourseDetail, error) {
	course, err := s.load(ctx, s.db, id, "Instructor")
	if err != nil {
		return nil, err
	}

	var students []model.User
	err = s.db.WithContext(ctx).
		Model(&model.User{}).
		Joins("JOIN enrollments ON enrollments.user_id = users.id").
		Where("enrollments.course_id = ?", id).
		Order("enrollments.enrolled_at ASC, users.id ASC").
		Find(&students).Error
	if err != nil {
		return nil, storeErr("load course students", err)
	}

	lessonIDs := []uint{}
	err = s.db.WithContext(ctx).
		Model(&model.Lesson{}).
		Where("course_id = ?", id).
		Order("id ASC").
		Pluck("id", &lessonIDs).Error
	if err != nil {
		return nil, storeErr("load course lessons", err)
	}

	detail := &CourseDetail{
		Course:     *course,
		Instructor: course.Instructor.Summary(false),
		Students:   make([]model.UserSummary, 0, len(students)),
		Lessons:    lessonIDs,
	}
	for _, st := range students {
		detail.Students = append(detail.Students, st.Summary(false))
	}
	return detail, nil
}

// Update applies the supplied fields to a course owned by callerID
func (s *CourseService) Update(ctx context.Context, id, callerID uint, in CourseUpdate) (*model.Course, error) {
	var course *model.Course
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		course, err = s.loadOwned(ctx, tx, id, callerID)
		if err != nil {
			return err
		}
		applyCourseUpdate(course, in)
		return tx.Omit(clause.Associations).Save(course).Error
	})
	if err != nil {
		return nil, courseErr("update course", err)
	}
	return course, nil
}

// TogglePublish flips the published flag of a course owned by callerID
func (s *CourseService) TogglePublish(ctx context.Context, id, callerID uint) (*model.Course, error) {
	var course *model.Course
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		course, err = s.loadOwned(ctx, tx, id, callerID)
		if err != nil {
			return err
		}
		course.IsPublished = !course.IsPublished
		return tx.Model(course).Update("is_published", course.IsPublished).Error
	})
	if err != nil {
		return nil, courseErr("toggle publish", err)
	}
	return course, nil
}

// Delete removes a course owned by callerID together with its content and progress
func (s *CourseService) Delete(ctx context.Context, id, callerID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.loadOwned(ctx, tx, id, callerID); err != nil {
			return err
		}
		return deleteCourseTree(tx, id)
	})
	return courseErr("delete course", err)
}

// DeleteAny removes a course regardless of owner and returns what was deleted
func (s *CourseService) DeleteAny(ctx context.Context, id uint) (*model.Course, error) {
	var course *model.Course
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		course, err = s.load(ctx, tx, id)
		if err != nil {
			return err
		}
		return deleteCourseTree(tx, id)
	})
	if err != nil {
		return nil, courseErr("delete course", err)
	}
	return course, nil
}

// CheckOwner returns nil when callerID owns the course
func (s *CourseService) CheckOwner(ctx context.Context, id, callerID uint) error {
	_, err := s.GetOwned(ctx, id, callerID)
	return err
}

// GetOwned loads a course, failing with ErrNotCourseOwner unless callerID owns it
func (s *CourseService) GetOwned(ctx context.Context, id, callerID uint) (*model.Course, error) {
	course, err := s.loadOwned(ctx, s.db, id, callerID)
	if err != nil {
		return nil, courseErr("check course owner", err)
	}
	return course, nil
}

// StudentCount returns how many users are enrolled in a course
func (s *CourseService) StudentCount(ctx context.Context, id uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.Enrollment{}).Where("course_id = ?", id).Count(&n).Error
	return n, storeErr("count students", err)
}

func (s *CourseService) load(ctx context.Context, db *gorm.DB, id uint, preloads ...string) (*model.Course, error) {
	q := db.WithContext(ctx)
	for _, p := range preloads {
		q = q.Preload(p)
	}
	var course model.Course
	if err := q.First(&course, id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrCourseNotFound
		}
		return nil, storeErr("load course", err)
	}
	return &course, nil
}

func (s *CourseService) loadOwned(ctx context.Context, db *gorm.DB, id, callerID uint) (*model.Course, error) {
	course, err := s.load(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if course.InstructorID != callerID {
		return nil, ErrNotCourseOwner
	}
	return course, nil
}

// deleteCourseTree deletes leaf rows first so it works with or without FK cascades
func deleteCourseTree(tx *gorm.DB, courseID uint) error {
	var lessonIDs []uint
	if err := tx.Model(&model.Lesson{}).Where("course_id = ?", courseID).Pluck("id", &lessonIDs).Error; err != nil {
		return err
	}

	if len(lessonIDs) > 0 {
		var quizIDs []uint
		if err := tx.Model(&model.Quiz{}).Where("lesson_id IN ?", lessonIDs).Pluck("id", &quizIDs).Error; err != nil {
			return err
		}
		if len(quizIDs) > 0 {
			if err := tx.Where("quiz_id IN ?", quizIDs).Delete(&model.QuizQuestion{}).Error; err != nil {
				return err
			}
		}
		for _, m := range []interface{}{&model.Quiz{}, &model.QuizResult{}, &model.LessonCompletion{}} {
			if err := tx.Where("lesson_id IN ?", lessonIDs).Delete(m).Error; err != nil {
				return err
			}
		}
	}

	for _, m := range []interface{}{&model.Lesson{}, &model.Enrollment{}} {
		if err := tx.Where("course_id = ?", courseID).Delete(m).Error; err != nil {
			return err
		}
	}
	return tx.Delete(&model.Course{}, courseID).Error
}

func applyCourseUpdate(c *model.Course, in CourseUpdate) {
	if in.Title != nil {
		c.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Category != nil {
		c.Category = strings.TrimSpace(*in.Category)
	}
	if in.Price != nil {
		c.Price = *in.Price
	}
	if in.Level != nil {
		c.Level = *in.Level
	}
	if in.Duration != nil {
		c.Duration = *in.Duration
	}
	if in.Requirements != nil {
		c.Requirements = nonNil(*in.Requirements)
	}
	if in.LearningOutcomes != nil {
		c.LearningOutcomes = nonNil(*in.LearningOutcomes)
	}
	if in.Thumbnail != nil {
		c.Thumbnail = *in.Thumbnail
	}
	if in.ThumbnailKey != nil {
		c.ThumbnailKey = *in.ThumbnailKey
	}
}

// courseErr passes domain errors through untouched and wraps the rest
func courseErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrCourseNotFound) || errors.Is(err, ErrNotCourseOwner) || errors.Is(err, ErrStoreUnavailable) {
		return err
	}
	return storeErr(op, err)
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
