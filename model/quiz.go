package model

import (
	"time"

	"gorm.io/datatypes"
)

// Quiz is the single quiz attached to a lesson
type Quiz struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	LessonID  uint           `gorm:"not null;uniqueIndex" json:"lesson"`
	Questions []QuizQuestion `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"questions"`

	// Relationships
	Lesson Lesson `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE" json:"-"`
}

// QuizQuestion is one entry of a quiz; Position keeps submission indexes stable
type QuizQuestion struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	QuizID        uint                        `gorm:"not null;index" json:"-"`
	Position      int                         `gorm:"not null" json:"-"`
	Question      string                      `gorm:"type:text;not null" json:"question"`
	Options       datatypes.JSONSlice[string] `json:"options"`
	CorrectAnswer string                      `gorm:"not null" json:"correctAnswer,omitempty"`
}

// HideAnswers blanks the answer key before a quiz is shown to a learner
func (q *Quiz) HideAnswers() {
	for i := range q.Questions {
		q.Questions[i].CorrectAnswer = ""
	}
}
