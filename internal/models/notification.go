package models

import "time"

// Notification is an append-only per-user record of a moderation or
// content event. Only the read flag mutates; deletion is owner-driven.
type Notification struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	UserID  string `json:"user_id" gorm:"not null;size:255;index"`
	Title   string `json:"title" gorm:"not null;size:200"`
	Message string `json:"message" gorm:"not null;size:1000"`
	IsRead  bool   `json:"is_read" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// AuditLog records one moderation action for the admin activity feed.
type AuditLog struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	ActorID    string `json:"actor_id" gorm:"not null;size:255;index"`
	Action     string `json:"action" gorm:"not null;size:100"`
	TargetType string `json:"target_type" gorm:"not null;size:50"`
	TargetID   string `json:"target_id" gorm:"not null;size:255"`
	Detail     string `json:"detail" gorm:"size:500"`

	CreatedAt time.Time `json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
