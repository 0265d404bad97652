package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/CampusQA-2025/qa-service/internal/models"
	"github.com/CampusQA-2025/qa-service/internal/repositories"
)

type NotificationPostgreSQL struct {
	db *gorm.DB
}

func NewNotificationPostgreSQL(db *gorm.DB) repositories.NotificationRepository {
	return &NotificationPostgreSQL{db: db}
}

func (n *NotificationPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return n.db
}

func (n *NotificationPostgreSQL) Create(ctx context.Context, tx *gorm.DB, notification *models.Notification) error {
	db := n.getDB(tx)
	if err := db.WithContext(ctx).Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (n *NotificationPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Notification, error) {
	db := n.getDB(tx)
	var notification models.Notification
	if err := db.WithContext(ctx).First(&notification, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.NewNotFoundError("notification", fmt.Sprint(id))
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return &notification, nil
}

// ListForUser returns the recipient's notifications newest first
func (n *NotificationPostgreSQL) ListForUser(ctx context.Context, tx *gorm.DB, userID string, limit int) ([]*models.Notification, error) {
	db := n.getDB(tx)
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var notifications []*models.Notification
	if err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (n *NotificationPostgreSQL) CountUnread(ctx context.Context, tx *gorm.DB, userID string) (int64, error) {
	db := n.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (n *NotificationPostgreSQL) MarkRead(ctx context.Context, tx *gorm.DB, id uint) error {
	db := n.getDB(tx)
	result := db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ?", id).
		Update("is_read", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.NewNotFoundError("notification", fmt.Sprint(id))
	}
	return nil
}

func (n *NotificationPostgreSQL) MarkAllRead(ctx context.Context, tx *gorm.DB, userID string) error {
	db := n.getDB(tx)
	if err := db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error; err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

func (n *NotificationPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := n.getDB(tx)
	result := db.WithContext(ctx).Delete(&models.Notification{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete notification: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.NewNotFoundError("notification", fmt.Sprint(id))
	}
	return nil
}

type AuditLogPostgreSQL struct {
	db *gorm.DB
}

func NewAuditLogPostgreSQL(db *gorm.DB) repositories.AuditLogRepository {
	return &AuditLogPostgreSQL{db: db}
}

func (a *AuditLogPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return a.db
}

func (a *AuditLogPostgreSQL) Create(ctx context.Context, tx *gorm.DB, entry *models.AuditLog) error {
	db := a.getDB(tx)
	if err := db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create audit log entry: %w", err)
	}
	return nil
}

// List returns moderation log entries newest first with a total count
func (a *AuditLogPostgreSQL) List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*models.AuditLog, int64, error) {
	db := a.getDB(tx)
	limit, offset = NormalizePagination(limit, offset)

	var total int64
	if err := db.WithContext(ctx).Model(&models.AuditLog{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit log entries: %w", err)
	}

	var entries []*models.AuditLog
	if err := db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list audit log entries: %w", err)
	}

	return entries, total, nil
}
