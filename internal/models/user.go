package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
	RoleAdmin   UserRole = "admin"
)

// ValidRole reports whether role is one of the enumerated user roles.
func ValidRole(role UserRole) bool {
	switch role {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// User is a directory record for an authenticated member of the platform.
// The ID is the identity provider's user id; records are created on first
// OAuth login and are soft-deleted only.
type User struct {
	ID       string   `json:"id" gorm:"primaryKey;size:255"`
	FullName string   `json:"full_name" gorm:"not null;size:100"`
	Email    string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Role     UserRole `json:"role" gorm:"not null;size:20;default:student"`

	// Profile info
	Department *string `json:"department" gorm:"size:100"`
	StudentID  *string `json:"student_id" gorm:"size:50"`
	AvatarURL  *string `json:"avatar_url" gorm:"size:500"`

	// Status
	IsActive bool `json:"is_active" gorm:"not null;default:true"`

	LastLoginAt *time.Time     `json:"last_login_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// IsModerator reports whether the user holds an elevated role.
func (u *User) IsModerator() bool {
	return u.Role == RoleTeacher || u.Role == RoleAdmin
}
