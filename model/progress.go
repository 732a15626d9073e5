package model

import (
	"time"
)

// Enrollment is the only record of a student taking a course.
// Course students and user enrolled courses are both read from this table.
type Enrollment struct {
	UserID     uint      `gorm:"primaryKey" json:"userId"`
	CourseID   uint      `gorm:"primaryKey" json:"courseId"`
	EnrolledAt time.Time `gorm:"autoCreateTime" json:"enrolledAt"`

	// Relationships
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Course Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}

// LessonCompletion marks a lesson as finished by a user
type LessonCompletion struct {
	UserID      uint      `gorm:"primaryKey" json:"userId"`
	LessonID    uint      `gorm:"primaryKey" json:"lessonId"`
	CompletedAt time.Time `gorm:"autoCreateTime" json:"completedAt"`

	// Relationships
	Lesson Lesson `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE" json:"-"`
}

// QuizResult is the recorded score of a user's first quiz submission for a lesson
type QuizResult struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_quiz_results_user_lesson" json:"userId"`
	LessonID  uint      `gorm:"not null;uniqueIndex:idx_quiz_results_user_lesson" json:"lessonId"`
	Score     int       `gorm:"not null" json:"score"`
	Total     int       `gorm:"not null" json:"total"`
	CreatedAt time.Time `json:"createdAt"`

	// Relationships
	Lesson Lesson `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE" json:"-"`
}
