package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/CampusQA-2025/qa-service/internal/models"
)

// NotificationRepository is the append-only per-user notification ledger.
type NotificationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, notification *models.Notification) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Notification, error)

	// ListForUser returns the recipient's notifications newest first,
	// capped at limit.
	ListForUser(ctx context.Context, tx *gorm.DB, userID string, limit int) ([]*models.Notification, error)

	CountUnread(ctx context.Context, tx *gorm.DB, userID string) (int64, error)

	MarkRead(ctx context.Context, tx *gorm.DB, id uint) error
	MarkAllRead(ctx context.Context, tx *gorm.DB, userID string) error

	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

// AuditLogRepository records moderation actions for the admin feed.
type AuditLogRepository interface {
	Create(ctx context.Context, tx *gorm.DB, entry *models.AuditLog) error
	List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*models.AuditLog, int64, error)
}
