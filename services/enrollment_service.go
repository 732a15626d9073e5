package services

import (
	"context"

	"github.com/sahilchouksey/learnhub-api/model"
	"gorm.io/gorm"
)

// EnrollmentService manages the student <-> course relationship
type EnrollmentService struct {
	db *gorm.DB
}

// NewEnrollmentService creates a new enrollment service
func NewEnrollmentService(db *gorm.DB) *EnrollmentService {
	return &EnrollmentService{db: db}
}

// Enroll adds userID to the course. It is a single insert guarded by the
// (user_id, course_id) primary key, so a concurrent duplicate also yields ErrAlreadyEnrolled.
func (s *EnrollmentService) Enroll(ctx context.Context, userID, courseID uint) error {
	db := s.db.WithContext(ctx)

	var course model.Course
	if err := db.Select("id").First(&course, courseID).Error; err != nil {
		if isNotFound(err) {
			return ErrCourseNotFound
		}
		return storeErr("load course", err)
	}

	var user model.User
	if err := db.Select("id").First(&user, userID).Error; err != nil {
		if isNotFound(err) {
			return ErrUserNotFound
		}
		return storeErr("load user", err)
	}

	var existing int64
	err := db.Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&existing).Error
	if err != nil {
		return storeErr("check enrollment", err)
	}
	if existing > 0 {
		return ErrAlreadyEnrolled
	}

	if err := db.Create(&model.Enrollment{UserID: userID, CourseID: courseID}).Error; err != nil {
		if isDuplicate(err) {
			return ErrAlreadyEnrolled
		}
		return storeErr("create enrollment", err)
	}
	return nil
}

// EnrolledCourses returns the courses userID is enrolled in, most recent first
func (s *EnrollmentService) EnrolledCourses(ctx context.Context, userID uint) ([]model.Course, error) {
	courses := []model.Course{}
	err := s.db.WithContext(ctx).
		Model(&model.Course{}).
		Joins("JOIN enrollments ON enrollments.course_id = courses.id").
		Where("enrollments.user_id = ?", userID).
		Order("enrollments.enrolled_at DESC, courses.id DESC").
		Find(&courses).Error
	if err != nil {
		return nil, storeErr("list enrolled courses", err)
	}
	return courses, nil
}

// IsEnrolled reports whether userID is enrolled in courseID
func (s *EnrollmentService) IsEnrolled(ctx context.Context, userID, courseID uint) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&n).Error
	if err != nil {
		return false, storeErr("check enrollment", err)
	}
	return n > 0, nil
}
