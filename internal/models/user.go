package models

import (
	"time"
)

type UserRole string

const (
	RoleStudent    UserRole = "student"
	RoleInstructor UserRole = "instructor"
	RoleAdmin      UserRole = "admin"
)

// IsValid reports whether r is one of the known roles
func (r UserRole) IsValid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

// CanReview reports whether the role may review submissions
func (r UserRole) CanReview() bool {
	return r == RoleInstructor || r == RoleAdmin
}

type User struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	Username     string   `json:"username" gorm:"uniqueIndex;not null;size:100"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string   `json:"-" gorm:"not null;size:255"`
	Role         UserRole `json:"role" gorm:"not null;size:20;default:'student';index"`

	// Optional display alias
	HackerName *string `json:"hacker_name,omitempty" gorm:"size:100"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// DisplayName returns the alias when set, otherwise the username
func (u *User) DisplayName() string {
	if u.HackerName != nil && *u.HackerName != "" {
		return *u.HackerName
	}
	return u.Username
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
