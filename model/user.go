package model

import (
	"time"
)

// Role is the capability set a user acts under
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

// User represents a registered user in the system
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"` // Never expose password in JSON
	Name         string    `gorm:"not null" json:"name"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'student'" json:"role"`
	TokenVersion int       `gorm:"default:0" json:"-"` // Increment to invalidate all user tokens

	// Relationships
	Enrollments    []Enrollment        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Completions    []LessonCompletion  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	QuizResults    []QuizResult        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	TokenBlacklist []JWTTokenBlacklist `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// UserSummary is the public projection of a user embedded in other resources
type UserSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Summary returns the public projection of u, optionally including the email
func (u User) Summary(withEmail bool) UserSummary {
	s := UserSummary{ID: u.ID, Name: u.Name}
	if withEmail {
		s.Email = u.Email
	}
	return s
}
