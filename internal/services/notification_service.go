package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/CampusQA-2025/qa-service/internal/events"
	"github.com/CampusQA-2025/qa-service/internal/models"
	"github.com/CampusQA-2025/qa-service/internal/repositories"
	"github.com/CampusQA-2025/qa-service/internal/validator"
)

type notificationService struct {
	repo           repositories.Repository
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	validator      *validator.Validator
}

func NewNotificationService(repo repositories.Repository, eventPublisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) NotificationService {
	return &notificationService{
		repo:           repo,
		eventPublisher: eventPublisher,
		logger:         logger,
		validator:      validator,
	}
}

// ListForUser returns the recipient's ledger newest first. Admins may
// read any ledger; everyone else only their own.
func (s *notificationService) ListForUser(ctx context.Context, targetID string, requesterID string, limit int) (*NotificationListResponse, error) {
	if targetID != requesterID {
		isAdmin, err := s.isAdmin(ctx, requesterID)
		if err != nil {
			return nil, err
		}
		if !isAdmin {
			return nil, NewPermissionError(requesterID, 0, "notification", "list", "not the recipient")
		}
	}

	notifications, err := s.repo.Notification().ListForUser(ctx, nil, targetID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	unread, err := s.repo.Notification().CountUnread(ctx, nil, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return &NotificationListResponse{
		Notifications: notifications,
		UnreadCount:   unread,
	}, nil
}

func (s *notificationService) Create(ctx context.Context, req *CreateNotificationRequest) (*models.Notification, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	if _, err := s.repo.User().GetByID(ctx, req.UserID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get recipient: %w", err)
	}

	notification := &models.Notification{
		UserID:  req.UserID,
		Title:   req.Title,
		Message: req.Message,
	}
	if err := s.repo.Notification().Create(ctx, nil, notification); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	s.logger.Info("Notification created", "notification_id", notification.ID, "user_id", req.UserID)

	if s.eventPublisher != nil {
		err := s.eventPublisher.Publish(ctx, events.Event{
			Type: events.TypeNotificationCreated,
			Data: map[string]interface{}{
				"notification_id": notification.ID,
				"user_id":         req.UserID,
				"title":           req.Title,
			},
		})
		if err != nil {
			s.logger.Warn("Failed to publish notification event", "error", err)
		}
	}

	return notification, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id uint, requesterID string) error {
	notification, err := s.repo.Notification().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to get notification: %w", err)
	}

	if notification.UserID != requesterID {
		return NewPermissionError(requesterID, id, "notification", "update", "not the recipient")
	}

	if err := s.repo.Notification().MarkRead(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, requesterID string) error {
	if err := s.repo.Notification().MarkAllRead(ctx, nil, requesterID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

func (s *notificationService) Delete(ctx context.Context, id uint, requesterID string) error {
	notification, err := s.repo.Notification().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to get notification: %w", err)
	}

	if notification.UserID != requesterID {
		isAdmin, err := s.isAdmin(ctx, requesterID)
		if err != nil {
			return err
		}
		if !isAdmin {
			return NewPermissionError(requesterID, id, "notification", "delete", "not the recipient")
		}
	}

	if err := s.repo.Notification().Delete(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}

func (s *notificationService) isAdmin(ctx context.Context, userID string) (bool, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get user: %w", err)
	}
	return user.Role == models.RoleAdmin, nil
}
