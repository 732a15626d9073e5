package model

import (
	"time"

	"gorm.io/datatypes"
)

// Level is the difficulty tier of a course
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Valid reports whether l is one of the known levels
func (l Level) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// Course represents a course authored by an instructor
type Course struct {
	ID               uint                        `gorm:"primaryKey" json:"id"`
	CreatedAt        time.Time                   `json:"createdAt"`
	UpdatedAt        time.Time                   `json:"updatedAt"`
	Title            string                      `gorm:"not null" json:"title"`
	Description      string                      `gorm:"type:text;not null" json:"description"`
	Category         string                      `gorm:"not null;index" json:"category"`
	Price            float64                     `gorm:"not null;default:0" json:"price"`
	Level            Level                       `gorm:"type:varchar(20);default:'beginner'" json:"level"`
	Duration         float64                     `gorm:"default:0" json:"duration"` // Duration in hours
	InstructorID     uint                        `gorm:"not null;index" json:"instructor"`
	Requirements     datatypes.JSONSlice[string] `json:"requirements"`
	LearningOutcomes datatypes.JSONSlice[string] `json:"learningOutcomes"`
	IsPublished      bool                        `gorm:"default:false" json:"isPublished"`
	Thumbnail        string                      `json:"thumbnail,omitempty"`
	ThumbnailKey     string                      `json:"-"` // storage key behind Thumbnail

	// Relationships
	Instructor  User         `gorm:"foreignKey:InstructorID" json:"-"`
	Lessons     []Lesson     `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
	Enrollments []Enrollment `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}

// Lesson belongs to exactly one course
type Lesson struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Title       string    `gorm:"not null" json:"title"`
	Content     string    `gorm:"type:text" json:"content"`
	VideoURL    string    `json:"videoUrl,omitempty"`
	DocumentURL string    `json:"documentUrl,omitempty"`
	CourseID    uint      `gorm:"not null;index" json:"course"`

	// Relationships
	Course Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}
